package chord

import (
	"fmt"

	"github.com/jsphweid/midicomplexity/model"
	"golang.org/x/exp/slices"
)

// GroupByOnset resolves a flat note list into chords, one per distinct
// onset, in onset order. Notes inside a chord are sorted by pitch.
func GroupByOnset(notes []model.NoteEvent) []model.Chord {
	sorted := make([]model.NoteEvent, len(notes))
	copy(sorted, notes)
	// prioritize smaller onsets then lower pitches
	slices.SortStableFunc(sorted, func(a, b model.NoteEvent) bool {
		if a.Onset != b.Onset {
			return a.Onset < b.Onset
		}
		return a.Pitch < b.Pitch
	})

	var chords []model.Chord
	for _, n := range sorted {
		if len(chords) > 0 && chords[len(chords)-1].Onset == n.Onset {
			last := &chords[len(chords)-1]
			last.Notes = append(last.Notes, n)
			continue
		}
		chords = append(chords, model.Chord{Onset: n.Onset, Notes: []model.NoteEvent{n}})
	}
	return chords
}

// HighestPitchClass is the maximum pitch class in the chord, not the pitch
// class of the highest note.
func HighestPitchClass(c model.Chord) (int, bool) {
	if len(c.Notes) == 0 {
		return 0, false
	}
	res := c.Notes[0].PitchClass()
	for _, n := range c.Notes[1:] {
		if pc := n.PitchClass(); pc > res {
			res = pc
		}
	}
	return res, true
}

func CreateChordKey(c model.Chord) string {
	var res string
	for i, n := range c.Notes {
		res += fmt.Sprintf("%v", n.Pitch)
		if i < len(c.Notes)-1 {
			res += "-"
		}
	}
	return res
}
