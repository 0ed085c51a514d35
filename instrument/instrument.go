package instrument

import (
	"strings"
	"unicode"

	"github.com/jsphweid/midicomplexity/model"
)

// General MIDI programs (0-indexed) that are percussive or unpitched:
// Timpani and the 112-119 percussive family.
var percussionPrograms = map[uint8]bool{
	47:  true,
	112: true,
	113: true,
	114: true,
	115: true,
	116: true,
	117: true,
	118: true,
	119: true,
}

// matched anywhere in the name, so "Drumkit" and "Cymbals" count
var unpitchedKeywords = []string{
	"drum",
	"percussion",
	"cymbal",
	"timpani",
}

// matched as whole words, optionally plural, so "Strain" is not "rain"
var unpitchedWords = map[string]bool{
	"gong":      true,
	"tam-tam":   true,
	"unpitched": true,
	"noise":     true,
	"effect":    true,
	"thunder":   true,
	"rain":      true,
	"ocean":     true,
	"bird":      true,
	"telephone": true,
	"doorbell":  true,
}

// IsPercussion is true if any rule matches. Anything else is tonal.
func IsPercussion(d model.InstrumentDescriptor) bool {
	return d.IsDrum || percussionPrograms[d.Program] || nameIsUnpitched(d.Name)
}

func nameIsUnpitched(name string) bool {
	lower := strings.ToLower(name)
	for _, keyword := range unpitchedKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '-'
	})
	for _, w := range words {
		if unpitchedWords[w] || unpitchedWords[strings.TrimSuffix(w, "s")] {
			return true
		}
	}
	return false
}

func TonalTracks(tracks []model.Track) []model.Track {
	var res []model.Track
	for _, t := range tracks {
		if !IsPercussion(t.Instrument) {
			res = append(res, t)
		}
	}
	return res
}
