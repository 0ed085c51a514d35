package polyphony

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNaive(t *testing.T) {
	res := Naive([]int{1, 2, 3, 0})

	assert := assert.New(t)
	assert.Equal(3.0, res.Max)
	assert.Equal(1.5, res.Mean)
	assert.InDelta(math.Sqrt(5.0/3.0), res.StdDev, 1e-12)
	assert.Equal(0.5, res.Density)
	assert.Equal(0.25, res.MonophonicRatio)
	assert.Equal(0.25, res.SilenceRatio)
}

func TestNaiveSingleSample(t *testing.T) {
	res := Naive([]int{4})

	assert := assert.New(t)
	assert.Equal(4.0, res.Max)
	assert.Equal(4.0, res.Mean)
	assert.Equal(0.0, res.StdDev)
}

func TestEmptySeries(t *testing.T) {
	assert.Equal(t, Stats{}, Naive(nil))
	assert.Equal(t, Stats{}, Weighted(nil, nil))
}

func TestWeighted(t *testing.T) {
	// 1 voice for 3 beats, 3 voices for 1 beat, then silence
	res := Weighted([]float64{0, 3, 4}, []int{1, 3, 0})

	assert := assert.New(t)
	assert.Equal(3.0, res.Max)
	assert.InDelta(1.5, res.Mean, 1e-12)
	// ((1-1.5)^2*3 + (3-1.5)^2*1) / 4
	assert.InDelta(math.Sqrt(0.75), res.StdDev, 1e-12)
	assert.InDelta(0.25, res.Density, 1e-12)
	assert.InDelta(0.75, res.MonophonicRatio, 1e-12)
	assert.Equal(0.0, res.SilenceRatio)
	assert.Equal(4.0, res.TotalDuration)
}

func TestWeightedSilenceRatio(t *testing.T) {
	res := Weighted([]float64{0, 1, 3, 4}, []int{1, 0, 1, 0})
	assert.InDelta(t, 0.5, res.SilenceRatio, 1e-12)
	assert.InDelta(t, 0.5, res.MonophonicRatio, 1e-12)
}

func TestWeightedDiffersFromNaive(t *testing.T) {
	// long low interval, short high interval
	timePoints := []float64{0, 10, 10.5}
	counts := []int{1, 5, 0}
	s := Compute(timePoints, counts)

	assert := assert.New(t)
	assert.NotEqual(s.Naive.Mean, s.Weighted.Mean)
	assert.Less(math.Abs(s.Weighted.Mean-1), math.Abs(s.Naive.Mean-1))
	assert.Equal(s.Naive.Max, s.Weighted.Max)
}

func TestWeightedZeroDuration(t *testing.T) {
	res := Weighted([]float64{2}, []int{3})

	assert := assert.New(t)
	assert.Equal(3.0, res.Max)
	assert.Equal(0.0, res.Mean)
	assert.Equal(0.0, res.StdDev)
	assert.Equal(0.0, res.Density)
}

func TestWeightedMismatchedLengths(t *testing.T) {
	assert.Equal(t, Stats{}, Weighted([]float64{0, 1}, []int{1}))
}
