package midi

import "math"

// Grid divisions per quarter note. A value snaps to whichever grid point is
// nearest; ties go to the first divisor.
var quantizeDivisors = []float64{4, 3}

func quantize(beats float64) float64 {
	best := beats
	bestErr := math.Inf(1)
	for _, d := range quantizeDivisors {
		q := math.Round(beats*d) / d
		if e := math.Abs(beats - q); e < bestErr {
			best = q
			bestErr = e
		}
	}
	return best
}
