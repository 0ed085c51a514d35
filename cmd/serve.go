package cmd

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/midicomplexity/analysis"
	"github.com/jsphweid/midicomplexity/model"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// largest accepted upload
const maxUploadBytes = 32 << 20

var (
	serveOpts analyzerFlags
	serveAddr string
	analyzer  = analysis.New(analysis.DefaultOptions())
)

func init() {
	serveOpts.register(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the analysis endpoint",
	Long:  `Serves POST /analyze, which takes a raw MIDI body and returns its metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := serveOpts.analyzer()
		if err != nil {
			return err
		}
		analyzer = a
		logrus.Infof("Listening on %v", serveAddr)
		return http.ListenAndServe(serveAddr, NewHandler())
	},
}

func NewHandler() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/analyze", HandleAnalyze).Methods("POST")
	router.HandleFunc("/health", HandleHealth).Methods("GET")
	return cors.Default().Handler(router)
}

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Warn("could not write response")
	}
}

// HandleAnalyze stores the body in a temp file so the record (and the
// external ATC tool) see a real path.
func HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := filepath.Base(q.Get("filename"))
	if name == "." || name == "/" {
		name = "upload.mid"
	}

	path, err := saveUpload(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}
	defer os.Remove(path)

	rec := analyzer.AnalyzeFile(r.Context(), path, q.Get("dataset"))
	rec.Filename = name
	rec.FilePath = name
	if rec.Failed() {
		writeJSON(w, http.StatusUnprocessableEntity, model.ErrorResponse{Error: rec.Error})
		return
	}
	writeJSON(w, http.StatusOK, model.AnalyzeResponse{RunID: uuid.NewString(), Record: rec})
}

func saveUpload(body io.Reader) (string, error) {
	f, err := os.CreateTemp("", "upload-*.mid")
	if err != nil {
		return "", errors.WithStack(err)
	}
	defer f.Close()
	if _, err := io.Copy(f, body); err != nil {
		os.Remove(f.Name())
		return "", errors.Wrap(err, "reading request body")
	}
	return f.Name(), nil
}
