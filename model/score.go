package model

type Track struct {
	Index      int
	Name       string
	Channel    uint8
	Instrument InstrumentDescriptor
	Notes      []NoteEvent
}

type Measure struct {
	Index       int
	Start       float64
	End         float64
	Numerator   uint8
	Denominator uint8
}

type TempoChange struct {
	Beat float64
	BPM  float64
}

// Score is built once by the loader and only read afterwards.
type Score struct {
	Path            string
	TicksPerQuarter uint16
	Tracks          []Track
	Measures        []Measure
	TempoChanges    []TempoChange
	Duration        float64
	DurationSeconds float64
	NoteCount       int
}

func (s *Score) MeasuresCount() int {
	return len(s.Measures)
}
