// Package feature turns note sequences into the series that the entropy and
// polyphony engines consume. Every function is pure and returns fresh slices.
package feature

import (
	"math"

	"github.com/jsphweid/midicomplexity/chord"
	"github.com/jsphweid/midicomplexity/constants"
	"github.com/jsphweid/midicomplexity/model"
	"golang.org/x/exp/slices"
)

// PitchClasses pools pitch classes across all given tracks. Callers pass
// tonal tracks only.
func PitchClasses(tracks []model.Track) []int {
	var res []int
	for _, t := range tracks {
		for _, n := range t.Notes {
			res = append(res, n.PitchClass())
		}
	}
	return res
}

// Melody emits the highest pitch class at each distinct onset of the track.
func Melody(track model.Track) []int {
	var res []int
	for _, c := range chord.GroupByOnset(track.Notes) {
		pc, ok := chord.HighestPitchClass(c)
		if !ok {
			continue
		}
		res = append(res, pc)
	}
	return res
}

// Onsets returns the distinct onsets of notes in ascending order.
func Onsets(notes []model.NoteEvent) []float64 {
	seen := make(map[float64]bool)
	var res []float64
	for _, n := range notes {
		if !seen[n.Onset] {
			seen[n.Onset] = true
			res = append(res, n.Onset)
		}
	}
	slices.Sort(res)
	return res
}

// IOI returns gaps between consecutive distinct onsets, bucketed to the
// closest fraction with a denominator of at most 4.
func IOI(track model.Track) []model.IOI {
	onsets := Onsets(track.Notes)
	if len(onsets) < 2 {
		return nil
	}
	res := make([]model.IOI, 0, len(onsets)-1)
	for i := 1; i < len(onsets); i++ {
		gap := onsets[i] - onsets[i-1]
		if r, ok := Rationalize(gap, constants.MaxIOIDenominator); ok {
			res = append(res, model.IOI{Ratio: r})
		} else {
			res = append(res, model.IOI{Raw: gap})
		}
	}
	return res
}

// Rationalize finds the fraction num/den with 1 <= den <= maxDen closest to
// x. Ties go to the smaller denominator. It fails for NaN, Inf or values
// too large to represent.
func Rationalize(x float64, maxDen int64) (model.Rational, bool) {
	if math.IsNaN(x) || math.IsInf(x, 0) || maxDen < 1 || math.Abs(x) > math.MaxInt64/float64(maxDen) {
		return model.Rational{}, false
	}

	best := model.Rational{Num: int64(math.Round(x)), Den: 1}
	bestErr := math.Abs(x - best.Float())
	for den := int64(2); den <= maxDen; den++ {
		num := int64(math.Round(x * float64(den)))
		if e := math.Abs(x - float64(num)/float64(den)); e < bestErr {
			best = model.Rational{Num: num, Den: den}
			bestErr = e
		}
	}
	return reduce(best), true
}

func reduce(r model.Rational) model.Rational {
	g := gcd(abs(r.Num), r.Den)
	if g <= 1 {
		return r
	}
	return model.Rational{Num: r.Num / g, Den: r.Den / g}
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs(a int64) int64 {
	if a < 0 {
		return -a
	}
	return a
}

// Notes flattens the tracks into one note list.
func Notes(tracks []model.Track) []model.NoteEvent {
	var res []model.NoteEvent
	for _, t := range tracks {
		res = append(res, t.Notes...)
	}
	return res
}
