package segment

import (
	"github.com/jsphweid/midicomplexity/constants"
	"github.com/jsphweid/midicomplexity/model"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

var ErrEmptySegment = errors.New("segment contains no notes")

type Policy int

const (
	// FixedStride advances each window by the segment size.
	FixedStride Policy = iota
	// Doubling moves the window end to twice its previous value.
	Doubling
)

func (p Policy) String() string {
	switch p {
	case FixedStride:
		return "fixed"
	case Doubling:
		return "doubling"
	}
	return "unknown"
}

func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "fixed":
		return FixedStride, nil
	case "doubling":
		return Doubling, nil
	}
	return FixedStride, errors.Errorf("unknown segment policy %q", s)
}

type AnalysisFunc func(*model.Score) (float64, error)

type Result struct {
	Whole  float64
	Mean   float64
	StdDev float64
	// per analyzed segment, failed segments left out
	Values []float64
	Failed int
}

// Slice returns a view of score restricted to notes whose onset falls in
// measures [first, last). Notes keep their full duration.
func Slice(score *model.Score, first, last int) (*model.Score, error) {
	if first < 0 {
		first = 0
	}
	if last > len(score.Measures) {
		last = len(score.Measures)
	}
	if first >= last {
		return nil, errors.Wrapf(ErrEmptySegment, "measures [%d, %d)", first, last)
	}
	start := score.Measures[first].Start
	end := score.Measures[last-1].End

	res := &model.Score{
		Path:            score.Path,
		TicksPerQuarter: score.TicksPerQuarter,
		Measures:        score.Measures[first:last],
		TempoChanges:    score.TempoChanges,
	}
	for _, t := range score.Tracks {
		var notes []model.NoteEvent
		for _, n := range t.Notes {
			if n.Onset >= start && n.Onset < end {
				notes = append(notes, n)
			}
		}
		if len(notes) == 0 {
			continue
		}
		view := t
		view.Notes = notes
		res.Tracks = append(res.Tracks, view)
		res.NoteCount += len(notes)
		for _, n := range notes {
			if n.End() > res.Duration {
				res.Duration = n.End()
			}
		}
	}
	if res.NoteCount == 0 {
		return nil, errors.Wrapf(ErrEmptySegment, "measures [%d, %d)", first, last)
	}
	return res, nil
}

// Analyze runs fn over the whole score and over fixed stride segments of
// size measures.
func Analyze(score *model.Score, measuresCount int, fn AnalysisFunc, size int) Result {
	return AnalyzePolicy(score, measuresCount, fn, size, FixedStride)
}

func AnalyzePolicy(score *model.Score, measuresCount int, fn AnalysisFunc, size int, policy Policy) Result {
	if size <= 0 {
		size = constants.DefaultSegmentSize
	}
	log := logrus.WithField("path", score.Path)

	var res Result
	whole, err := fn(score)
	if err != nil {
		log.WithError(err).Debug("whole piece analysis failed")
		whole = 0
	}
	res.Whole = whole
	res.Mean = whole

	if measuresCount < size {
		return res
	}

	first, last := 0, size
	for last <= measuresCount {
		v, err := analyzeSegment(score, first, last, fn)
		if err != nil {
			log.WithError(err).Debugf("skipping measures %d-%d", first, last)
			res.Failed++
		} else {
			res.Values = append(res.Values, v)
		}

		first = last
		switch policy {
		case Doubling:
			last += last
		default:
			last += size
		}
	}

	if len(res.Values) == 0 {
		return res
	}
	res.Mean = stat.Mean(res.Values, nil)
	if len(res.Values) > 1 {
		res.StdDev = stat.StdDev(res.Values, nil)
	}
	return res
}

func analyzeSegment(score *model.Score, first, last int, fn AnalysisFunc) (float64, error) {
	view, err := Slice(score, first, last)
	if err != nil {
		return 0, err
	}
	return fn(view)
}
