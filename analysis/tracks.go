package analysis

import (
	"github.com/jsphweid/midicomplexity/entropy"
	"github.com/jsphweid/midicomplexity/feature"
	"github.com/jsphweid/midicomplexity/instrument"
	"github.com/jsphweid/midicomplexity/model"
)

// TrackFunc measures a single track.
type TrackFunc func(model.Track) float64

func MelodicIntervalEntropy(t model.Track) float64 {
	return entropy.PitchInterval(feature.Melody(t))
}

func IOIEntropy(t model.Track) float64 {
	return entropy.Shannon(feature.IOI(t))
}

// MaxOverTracks returns the whole piece value and the segment mean of fn,
// each reduced by max across the tonal tracks of score. No tonal tracks
// gives zeros.
func (a *Analyzer) MaxOverTracks(score *model.Score, fn TrackFunc) (whole, mean float64) {
	analysisFn := func(s *model.Score) (float64, error) {
		var best float64
		for _, t := range s.Tracks {
			if v := fn(t); v > best {
				best = v
			}
		}
		return best, nil
	}

	measures := score.MeasuresCount()
	for _, t := range instrument.TonalTracks(score.Tracks) {
		res := a.segments(trackView(score, t), measures, analysisFn)
		if res.Whole > whole {
			whole = res.Whole
		}
		if res.Mean > mean {
			mean = res.Mean
		}
	}
	return whole, mean
}

// trackView is score reduced to one track, sharing the measure grid.
func trackView(score *model.Score, t model.Track) *model.Score {
	view := *score
	view.Tracks = []model.Track{t}
	view.NoteCount = len(t.Notes)
	return &view
}
