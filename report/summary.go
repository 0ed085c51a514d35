package report

import (
	"github.com/jsphweid/midicomplexity/model"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type MetricSummary struct {
	Name   string
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

type Summary struct {
	Files    int
	Failed   int
	Datasets map[string]int
	// over successful records only, in column order
	Metrics []MetricSummary
}

func Summarize(records []model.MetricsRecord) Summary {
	res := Summary{Files: len(records), Datasets: make(map[string]int)}

	var ok []model.MetricsRecord
	for _, r := range records {
		res.Datasets[r.Dataset]++
		if r.Failed() {
			res.Failed++
			continue
		}
		ok = append(ok, r)
	}

	var template model.MetricsRecord
	for i, m := range template.Metrics() {
		s := MetricSummary{Name: m.Name}
		if len(ok) > 0 {
			values := make([]float64, len(ok))
			for j := range ok {
				values[j] = *ok[j].Metrics()[i].Value
			}
			s.Mean = stat.Mean(values, nil)
			if len(values) > 1 {
				s.StdDev = stat.StdDev(values, nil)
			}
			s.Min = floats.Min(values)
			s.Max = floats.Max(values)
		}
		res.Metrics = append(res.Metrics, s)
	}
	return res
}
