package batch

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type Dataset struct {
	Name       string
	Path       string
	Instrument string
	AudioType  string
	// expected number of files, 0 if unknown
	Count int
}

// datasetsFile is a sheet export: the first row holds column names.
type datasetsFile struct {
	Values [][]string `json:"values"`
}

func LoadDatasets(path string) ([]Dataset, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading datasets config")
	}
	return ParseDatasets(dat)
}

func ParseDatasets(dat []byte) ([]Dataset, error) {
	var f datasetsFile
	if err := json.Unmarshal(dat, &f); err != nil {
		return nil, errors.Wrap(err, "decoding datasets config")
	}
	if len(f.Values) == 0 {
		return nil, errors.New("datasets config has no header row")
	}

	cols := make(map[string]int)
	for i, name := range f.Values[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"name", "path"} {
		if _, ok := cols[required]; !ok {
			return nil, errors.Errorf("datasets config is missing the %q column", required)
		}
	}

	cell := func(row []string, col string) string {
		i, ok := cols[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var res []Dataset
	for n, row := range f.Values[1:] {
		d := Dataset{
			Name:       cell(row, "name"),
			Path:       cell(row, "path"),
			Instrument: cell(row, "instrument"),
			AudioType:  cell(row, "audio_type"),
		}
		if d.Name == "" || d.Path == "" {
			continue
		}
		if c := cell(row, "count"); c != "" {
			count, err := strconv.Atoi(c)
			if err != nil {
				return nil, errors.Wrapf(err, "row %d: bad count", n+2)
			}
			d.Count = count
		}
		res = append(res, d)
	}
	return res, nil
}
