//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/jsphweid/midicomplexity/cmd"
	"github.com/jsphweid/midicomplexity/midi/miditest"
	"github.com/jsphweid/midicomplexity/model"
	"github.com/stretchr/testify/assert"
)

func createMidiBody(t *testing.T) io.Reader {
	var keys, drums []uint8
	for i := 0; i < 8; i++ {
		keys = append(keys, 60, 64, 67, 72)
		drums = append(drums, 36, 38, 36, 38)
	}
	path := miditest.Write(t, "two_track.mid",
		miditest.Conductor(4, 4, 120),
		miditest.Track("Piano", 0, 0, miditest.Quarters(keys...)...),
		miditest.Track("Drums", 9, 0, miditest.Quarters(drums...)...),
	)
	data, err := os.ReadFile(path)
	if err != nil {
		panic(err.Error())
	}
	return bytes.NewReader(data)
}

func TestAnalyzeE2E(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/analyze?dataset=synthetic&filename=song.mid", createMidiBody(t))
	w := httptest.NewRecorder()
	cmd.NewHandler().ServeHTTP(w, req)

	resp := w.Result()
	respBody, _ := io.ReadAll(resp.Body)

	assert := assert.New(t)
	assert.Equal(200, resp.StatusCode)

	var analyzeResponse model.AnalyzeResponse
	err := json.Unmarshal(respBody, &analyzeResponse)
	if err != nil {
		panic(err.Error())
	}

	rec := analyzeResponse.Record
	assert.NotEmpty(analyzeResponse.RunID)
	assert.Equal("song.mid", rec.Filename)
	assert.Equal("synthetic", rec.Dataset)
	assert.Equal(8.0, rec.MeasuresCount)
	assert.InDelta(1.5, rec.PitchClassEntropy, 1e-12)
	assert.Equal(0.0, rec.MaxIOIEntropy)
	assert.Equal(1.0, rec.MaxPolyphony)
}

func TestAnalyzeGarbageE2E(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader([]byte("not midi")))
	w := httptest.NewRecorder()
	cmd.NewHandler().ServeHTTP(w, req)

	resp := w.Result()
	respBody, _ := io.ReadAll(resp.Body)

	assert := assert.New(t)
	assert.Equal(http.StatusUnprocessableEntity, resp.StatusCode)

	var errorResponse model.ErrorResponse
	assert.NoError(json.Unmarshal(respBody, &errorResponse))
	assert.Contains(errorResponse.Error, "corrupt")
}

func TestHealthE2E(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	cmd.NewHandler().ServeHTTP(w, req)

	assert.Equal(t, 200, w.Result().StatusCode)
}

func TestAnalyzeWrongMethodE2E(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/analyze", nil)
	w := httptest.NewRecorder()
	cmd.NewHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Result().StatusCode)
}
