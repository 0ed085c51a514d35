package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jsphweid/midicomplexity/model"
	"github.com/stretchr/testify/assert"
)

func sampleRecords() []model.MetricsRecord {
	atc := 4.125
	return []model.MetricsRecord{
		{
			Filename: "a.mid", Dataset: "maestro", FilePath: "/m/a.mid", ProcessingTime: 0.25,
			MeasuresCount: 12, TotalNotes: 300, PitchClassEntropy: 1.5, MaxPolyphony: 4,
			AvgPolyphony: 2.0 / 3.0, ATCScore: &atc,
		},
		{
			Filename: "b.mid", Dataset: "slakh", FilePath: "/s/b.mid", ProcessingTime: 0.5,
			MeasuresCount: 40, TotalNotes: 100, PitchClassEntropy: 2.5, MaxPolyphony: 2,
		},
		{
			Filename: "c.mid", Dataset: "maestro", FilePath: "/m/c.mid",
			Error: "midi file corrupt or unreadable, truly",
		},
	}
}

func TestHeaderOrder(t *testing.T) {
	h := Header()
	assert := assert.New(t)
	assert.Equal([]string{"midi_filename", "dataset_name", "file_path", "processing_time", "measures_count"}, h[:5])
	assert.Equal("k_piece", h[7])
	assert.Equal("seg_density_std", h[len(h)-3])
	assert.Equal([]string{"atc_score", "error"}, h[len(h)-2:])
}

func TestCSVRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, WriteCSV(&buf, sampleRecords()))

	got, err := ReadCSV(&buf)
	assert.NoError(t, err)
	assert.Equal(t, sampleRecords(), got)
}

func TestCSVEmptyCells(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, WriteCSV(&buf, sampleRecords()[1:2]))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	// no atc score, no error
	assert.True(t, strings.HasSuffix(lines[1], ",,"))
}

func TestReadCSVIgnoresUnknownColumns(t *testing.T) {
	in := "extra,midi_filename,Hpc_piece\nx,a.mid,1.25\n"
	got, err := ReadCSV(strings.NewReader(in))
	assert.NoError(t, err)
	assert.Equal(t, "a.mid", got[0].Filename)
	assert.Equal(t, 1.25, got[0].PitchClassEntropy)
}

func TestReadCSVBadNumber(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("midi_filename,Hpc_piece\na.mid,lots\n"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Hpc_piece")
}

func TestWriteDatasetFiles(t *testing.T) {
	dir := t.TempDir()
	written, err := WriteDatasetFiles(dir, sampleRecords())

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal([]string{
		filepath.Join(dir, "maestro_complexity.csv"),
		filepath.Join(dir, "slakh_complexity.csv"),
		filepath.Join(dir, "all_complexity_results.csv"),
	}, written)

	maestro, err := ReadCSVFile(written[0])
	assert.NoError(err)
	assert.Len(maestro, 2)
	all, err := ReadCSVFile(written[2])
	assert.NoError(err)
	assert.Len(all, 3)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, WriteJSON(&buf, sampleRecords()[1:]))

	var got []map[string]any
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert := assert.New(t)
	assert.Equal(2.5, got[0]["Hpc_piece"])
	assert.NotContains(got[0], "atc_score")
	assert.NotContains(got[0], "error")
	assert.Equal("midi file corrupt or unreadable, truly", got[1]["error"])
}

func TestWriteJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	assert.NoError(t, WriteJSONFile(path, sampleRecords()))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleRecords())

	assert := assert.New(t)
	assert.Equal(3, s.Files)
	assert.Equal(1, s.Failed)
	assert.Equal(map[string]int{"maestro": 2, "slakh": 1}, s.Datasets)

	var hpc MetricSummary
	for _, m := range s.Metrics {
		if m.Name == "Hpc_piece" {
			hpc = m
		}
	}
	assert.Equal(2.0, hpc.Mean)
	assert.Equal(1.5, hpc.Min)
	assert.Equal(2.5, hpc.Max)
	assert.InDelta(0.7071067811865476, hpc.StdDev, 1e-12)
}

func TestSummarizeNoRecords(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Files)
	assert.Len(t, s.Metrics, len(Header())-6)
}
