package report

import (
	"encoding/json"
	"io"
	"os"

	"github.com/jsphweid/midicomplexity/model"
	"github.com/pkg/errors"
)

func WriteJSON(w io.Writer, records []model.MetricsRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.WithStack(enc.Encode(records))
}

func WriteJSONFile(path string, records []model.MetricsRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()
	if err := WriteJSON(f, records); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return errors.WithStack(f.Close())
}
