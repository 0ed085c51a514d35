// Package report reads and writes MetricsRecord tables.
package report

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jsphweid/midicomplexity/constants"
	"github.com/jsphweid/midicomplexity/model"
	"github.com/pkg/errors"
)

var identifierColumns = []string{"midi_filename", "dataset_name", "file_path", "processing_time"}

// Header is the fixed CSV column order.
func Header() []string {
	var rec model.MetricsRecord
	res := append([]string{}, identifierColumns...)
	for _, m := range rec.Metrics() {
		res = append(res, m.Name)
	}
	return append(res, "atc_score", "error")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func row(r model.MetricsRecord) []string {
	res := []string{r.Filename, r.Dataset, r.FilePath, formatFloat(r.ProcessingTime)}
	for _, m := range r.Metrics() {
		res = append(res, formatFloat(*m.Value))
	}
	atc := ""
	if r.ATCScore != nil {
		atc = formatFloat(*r.ATCScore)
	}
	return append(res, atc, r.Error)
}

func WriteCSV(w io.Writer, records []model.MetricsRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return errors.WithStack(err)
	}
	for _, r := range records {
		if err := cw.Write(row(r)); err != nil {
			return errors.WithStack(err)
		}
	}
	cw.Flush()
	return errors.WithStack(cw.Error())
}

func WriteCSVFile(path string, records []model.MetricsRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()
	if err := WriteCSV(f, records); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return errors.WithStack(f.Close())
}

// WriteDatasetFiles writes <dataset>_complexity.csv per dataset, in order of
// first appearance, plus the combined file. It returns the paths written.
func WriteDatasetFiles(dir string, records []model.MetricsRecord) ([]string, error) {
	var order []string
	byDataset := make(map[string][]model.MetricsRecord)
	for _, r := range records {
		if _, ok := byDataset[r.Dataset]; !ok {
			order = append(order, r.Dataset)
		}
		byDataset[r.Dataset] = append(byDataset[r.Dataset], r)
	}

	var written []string
	for _, name := range order {
		filename := name
		if filename == "" {
			filename = "unnamed"
		}
		path := filepath.Join(dir, filename+"_complexity.csv")
		if err := WriteCSVFile(path, byDataset[name]); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	all := filepath.Join(dir, constants.AllResultsFilename)
	if err := WriteCSVFile(all, records); err != nil {
		return written, err
	}
	return append(written, all), nil
}

// ReadCSV accepts any column order and ignores unknown columns.
func ReadCSV(r io.Reader) ([]model.MetricsRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "reading csv")
	}
	if len(rows) == 0 {
		return nil, nil
	}

	cols := make(map[string]int)
	for i, name := range rows[0] {
		cols[name] = i
	}
	get := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}
	parse := func(line int, name, s string) (float64, error) {
		if s == "" {
			return 0, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		return v, errors.Wrapf(err, "line %d, column %s", line, name)
	}

	res := make([]model.MetricsRecord, 0, len(rows)-1)
	for n, row := range rows[1:] {
		line := n + 2
		rec := model.MetricsRecord{
			Filename: get(row, "midi_filename"),
			Dataset:  get(row, "dataset_name"),
			FilePath: get(row, "file_path"),
			Error:    get(row, "error"),
		}
		if rec.ProcessingTime, err = parse(line, "processing_time", get(row, "processing_time")); err != nil {
			return nil, err
		}
		for _, m := range rec.Metrics() {
			if *m.Value, err = parse(line, m.Name, get(row, m.Name)); err != nil {
				return nil, err
			}
		}
		if s := get(row, "atc_score"); s != "" {
			v, err := parse(line, "atc_score", s)
			if err != nil {
				return nil, err
			}
			rec.ATCScore = &v
		}
		res = append(res, rec)
	}
	return res, nil
}

func ReadCSVFile(path string) ([]model.MetricsRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()
	return ReadCSV(f)
}
