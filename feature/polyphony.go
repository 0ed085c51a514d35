package feature

import (
	"sort"

	"github.com/jsphweid/midicomplexity/model"
	"golang.org/x/exp/slices"
)

// PolyphonySeries samples the number of sounding notes at every distinct
// note start and end. A note sounds on [start, end): a note ending exactly
// where another starts does not overlap it.
func PolyphonySeries(notes []model.NoteEvent) ([]float64, []int) {
	if len(notes) == 0 {
		return nil, nil
	}

	seen := make(map[float64]bool)
	var timePoints []float64
	starts := make([]float64, 0, len(notes))
	ends := make([]float64, 0, len(notes))
	for _, n := range notes {
		for _, t := range []float64{n.Onset, n.End()} {
			if !seen[t] {
				seen[t] = true
				timePoints = append(timePoints, t)
			}
		}
		starts = append(starts, n.Onset)
		ends = append(ends, n.End())
	}
	slices.Sort(timePoints)
	slices.Sort(starts)
	slices.Sort(ends)

	// active(t) = #{start <= t} - #{end <= t}; zero-length notes cancel out
	counts := make([]int, len(timePoints))
	for i, t := range timePoints {
		started := sort.Search(len(starts), func(j int) bool { return starts[j] > t })
		ended := sort.Search(len(ends), func(j int) bool { return ends[j] > t })
		counts[i] = started - ended
	}
	return timePoints, counts
}
