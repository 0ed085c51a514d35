// Package tonality estimates how strongly a note collection implies a
// single key.
package tonality

import (
	"math"

	"github.com/jsphweid/midicomplexity/model"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/music-theory.v0/key"
	"gopkg.in/music-theory.v0/note"
)

var (
	ErrNoNotes     = errors.New("no pitched notes")
	ErrFlatProfile = errors.New("pitch class profile has no variance")
	ErrBadKey      = errors.New("unrecognized key")
)

// Analyzer produces a tonal certainty in [0,1].
type Analyzer interface {
	TonalCertainty(notes []model.NoteEvent) (float64, error)
}

// Krumhansl-Kessler probe tone profiles, index 0 is the tonic.
var (
	majorProfile = []float64{6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88}
	minorProfile = []float64{6.33, 2.68, 3.52, 5.38, 2.60, 3.53, 2.54, 4.75, 3.98, 2.69, 3.34, 3.17}
	noteNames    = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
)

type Guess struct {
	Name  string
	Key   key.Key
	Score float64
}

// Tonic is the pitch class of the key root, C = 0.
func (g Guess) Tonic() int {
	return int(g.Key.Root - note.C)
}

func (g Guess) Minor() bool {
	return g.Key.Mode == key.Minor
}

// candidates are the 24 major and minor keys, parsed once.
var candidates = func() []Guess {
	res := make([]Guess, 0, 24)
	for _, name := range noteNames {
		for _, mode := range []string{"major", "minor"} {
			n := name + " " + mode
			res = append(res, Guess{Name: n, Key: key.Of(n)})
		}
	}
	return res
}()

// KrumhanslSchmuckler correlates a duration weighted pitch class profile
// with all 24 rotated major and minor profiles.
type KrumhanslSchmuckler struct{}

func (KrumhanslSchmuckler) TonalCertainty(notes []model.NoteEvent) (float64, error) {
	guesses, err := Guesses(notes)
	if err != nil {
		return 0, err
	}
	return certainty(guesses), nil
}

// Guesses returns all 24 key candidates, best first.
func Guesses(notes []model.NoteEvent) ([]Guess, error) {
	profile, err := Profile(notes)
	if err != nil {
		return nil, err
	}

	guesses := make([]Guess, 0, len(candidates))
	for _, g := range candidates {
		root := g.Tonic()
		if root < 0 || root > 11 {
			return nil, errors.Wrap(ErrBadKey, g.Name)
		}
		template := majorProfile
		if g.Minor() {
			template = minorProfile
		}
		r := stat.Correlation(profile, rotate(template, root), nil)
		if math.IsNaN(r) {
			return nil, ErrFlatProfile
		}
		g.Score = r
		guesses = append(guesses, g)
	}
	slices.SortStableFunc(guesses, func(a, b Guess) bool { return a.Score > b.Score })
	return guesses, nil
}

// Profile is the pitch class histogram weighted by note duration. If every
// duration is zero each note counts once.
func Profile(notes []model.NoteEvent) ([]float64, error) {
	if len(notes) == 0 {
		return nil, ErrNoNotes
	}
	profile := make([]float64, 12)
	var total float64
	for _, n := range notes {
		profile[n.PitchClass()] += n.Duration
		total += n.Duration
	}
	if total <= 0 {
		for _, n := range notes {
			profile[n.PitchClass()]++
		}
	}
	return profile, nil
}

func rotate(profile []float64, root int) []float64 {
	res := make([]float64, 12)
	for i := range res {
		res[i] = profile[(i-root+12)%12]
	}
	return res
}

// certainty rewards a strong best fit that leads the runner-up clearly and
// stands out from the other positively correlated keys.
func certainty(guesses []Guess) float64 {
	if len(guesses) < 2 {
		return 0
	}
	best := guesses[0].Score
	lead := best - guesses[1].Score

	var sum float64
	var n int
	for _, g := range guesses[1:] {
		if g.Score > 0 {
			sum += g.Score
			n++
		}
	}
	var meanPositive float64
	if n > 0 {
		meanPositive = sum / float64(n)
	}

	c := best - meanPositive + 2*lead
	return math.Max(0, math.Min(1, c))
}
