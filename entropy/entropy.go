// Package entropy computes Shannon entropy, in bits, over categorical series.
package entropy

import (
	"math"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat"
)

// Largest melodic leap, in semitones, kept in the interval vocabulary.
const MaxInterval = 12

// Distribution counts occurrences of each distinct value.
func Distribution[T comparable](values []T) map[T]int {
	res := make(map[T]int)
	for _, v := range values {
		res[v]++
	}
	return res
}

// Shannon returns -sum(p * log2(p)) over the empirical distribution of
// values. Empty input has entropy 0.
func Shannon[T comparable](values []T) float64 {
	if len(values) == 0 {
		return 0
	}

	// sorted so the float sum is independent of map order
	counts := maps.Values(Distribution(values))
	if len(counts) == 1 {
		return 0
	}
	slices.Sort(counts)

	total := float64(len(values))
	p := make([]float64, len(counts))
	for i, c := range counts {
		p[i] = float64(c) / total
	}
	h := stat.Entropy(p) / math.Ln2
	if h < 0 {
		return 0
	}
	return h
}

// Intervals differentiates consecutive values and drops leaps wider than
// MaxInterval.
func Intervals(values []int) []int {
	if len(values) < 2 {
		return nil
	}
	var res []int
	for i := 1; i < len(values); i++ {
		interval := values[i] - values[i-1]
		if interval > MaxInterval || interval < -MaxInterval {
			continue
		}
		res = append(res, interval)
	}
	return res
}

func PitchInterval(values []int) float64 {
	return Shannon(Intervals(values))
}
