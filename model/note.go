package model

// Times are in quarter-note beats.
type NoteEvent struct {
	Onset    float64
	Duration float64
	Pitch    uint8
	Velocity uint8
	Channel  uint8
}

func (n NoteEvent) End() float64 {
	return n.Onset + n.Duration
}

func (n NoteEvent) PitchClass() int {
	return int(n.Pitch) % 12
}

// Notes that share an onset.
type Chord struct {
	Onset float64
	Notes []NoteEvent
}

type InstrumentDescriptor struct {
	Program uint8
	Name    string
	IsDrum  bool
}

type Rational struct {
	Num int64
	Den int64
}

func (r Rational) Float() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// IOI is comparable so it can be bucketed directly. Raw is only meaningful
// when the gap could not be rationalized (Ratio.Den == 0).
type IOI struct {
	Ratio Rational
	Raw   float64
}

func (i IOI) Float() float64 {
	if i.Ratio.Den == 0 {
		return i.Raw
	}
	return i.Ratio.Float()
}
