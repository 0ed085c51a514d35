package midi

import (
	"github.com/jsphweid/midicomplexity/model"
	"golang.org/x/exp/slices"
)

type timeSig struct {
	tick  int64
	num   uint8
	denom uint8
}

// findMeasures lays out bars from tick 0 until endTick. 4/4 applies until
// the first time signature; a signature change starts a new bar even if
// the previous one is incomplete.
func findMeasures(sigs []timeSig, tpq float64, endTick int64) []model.Measure {
	sorted := []timeSig{{tick: 0, num: 4, denom: 4}}
	slices.SortStableFunc(sigs, func(a, b timeSig) bool { return a.tick < b.tick })
	for _, sig := range sigs {
		if sig.num == 0 || sig.denom == 0 {
			continue
		}
		if sorted[len(sorted)-1].tick == sig.tick {
			sorted[len(sorted)-1] = sig
			continue
		}
		sorted = append(sorted, sig)
	}

	var res []model.Measure
	var start int64
	for i, sig := range sorted {
		barLen := int64(tpq*4) * int64(sig.num) / int64(sig.denom)
		if barLen <= 0 {
			continue
		}
		limit := endTick
		if i+1 < len(sorted) && sorted[i+1].tick < endTick {
			limit = sorted[i+1].tick
		}
		for start < limit {
			end := start + barLen
			if i+1 < len(sorted) && end > sorted[i+1].tick {
				end = sorted[i+1].tick
			}
			res = append(res, model.Measure{
				Index:       len(res),
				Start:       float64(start) / tpq,
				End:         float64(end) / tpq,
				Numerator:   sig.num,
				Denominator: sig.denom,
			})
			start = end
		}
	}

	if len(res) == 0 {
		barLen := int64(tpq * 4)
		res = append(res, model.Measure{Start: 0, End: float64(barLen) / tpq, Numerator: 4, Denominator: 4})
	}
	return res
}
