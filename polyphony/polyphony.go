// Package polyphony summarizes a polyphony series (time points paired with
// concurrent note counts) either per sample or weighted by time.
package polyphony

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type Stats struct {
	Max             float64
	Mean            float64
	StdDev          float64
	Density         float64
	MonophonicRatio float64
	SilenceRatio    float64
	// Sum of interval lengths; 0 for the naive variant.
	TotalDuration float64
}

type Summary struct {
	Naive    Stats
	Weighted Stats
}

// Compute derives both variants from the same series.
func Compute(timePoints []float64, counts []int) Summary {
	return Summary{
		Naive:    Naive(counts),
		Weighted: Weighted(timePoints, counts),
	}
}

// Naive treats every sample equally. StdDev is the sample (n-1) standard
// deviation and 0 for fewer than two samples.
func Naive(counts []int) Stats {
	if len(counts) == 0 {
		return Stats{}
	}
	x := toFloats(counts)

	var res Stats
	res.Max = floats.Max(x)
	res.Mean = stat.Mean(x, nil)
	if len(x) > 1 {
		res.StdDev = stat.StdDev(x, nil)
	}

	var poly, mono, silent float64
	for _, c := range counts {
		switch {
		case c == 0:
			silent++
		case c == 1:
			mono++
		default:
			poly++
		}
	}
	n := float64(len(counts))
	res.Density = poly / n
	res.MonophonicRatio = mono / n
	res.SilenceRatio = silent / n
	return res
}

// Weighted weights counts[i] by the length of [timePoints[i], timePoints[i+1]).
// The last sample has no interval. When the total duration is zero every
// weighted value is 0; Max is still reported.
func Weighted(timePoints []float64, counts []int) Stats {
	if len(counts) == 0 || len(timePoints) != len(counts) {
		return Stats{}
	}

	res := Stats{Max: floats.Max(toFloats(counts))}
	if len(counts) < 2 {
		return res
	}

	values := make([]float64, len(counts)-1)
	weights := make([]float64, len(counts)-1)
	var poly, mono, silent float64
	for i := range values {
		dt := timePoints[i+1] - timePoints[i]
		values[i] = float64(counts[i])
		weights[i] = dt
		switch {
		case counts[i] == 0:
			silent += dt
		case counts[i] == 1:
			mono += dt
		default:
			poly += dt
		}
	}

	total := floats.Sum(weights)
	if total <= 0 {
		return res
	}

	mean, variance := stat.PopMeanVariance(values, weights)
	res.Mean = mean
	res.StdDev = math.Sqrt(math.Max(variance, 0))
	res.Density = poly / total
	res.MonophonicRatio = mono / total
	res.SilenceRatio = silent / total
	res.TotalDuration = total
	return res
}

func toFloats(counts []int) []float64 {
	res := make([]float64, len(counts))
	for i, c := range counts {
		res[i] = float64(c)
	}
	return res
}
