package midi

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/midicomplexity/midi/miditest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const q = miditest.TicksPerQuarter

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.mid"), DefaultLoadOptions())
	assert.True(t, errors.Is(err, ErrFileNotFound))
}

func TestLoadGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.mid")
	assert.NoError(t, os.WriteFile(path, []byte("definitely not a midi file"), 0644))

	_, err := Load(path, DefaultLoadOptions())
	assert.True(t, errors.Is(err, ErrCorruptFile))
}

func TestLoadEmptyScore(t *testing.T) {
	path := miditest.Write(t, "empty.mid", miditest.Conductor(4, 4, 120))

	_, err := Load(path, DefaultLoadOptions())
	assert.True(t, errors.Is(err, ErrEmptyScore))
}

func TestLoadBasicScore(t *testing.T) {
	path := miditest.Write(t, "basic.mid",
		miditest.Conductor(4, 4, 120),
		miditest.Track("Piano", 0, 0, miditest.Quarters(60, 64, 67, 72)...),
	)

	score, err := Load(path, DefaultLoadOptions())
	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(path, score.Path)
	assert.Len(score.Tracks, 1)
	assert.Equal(4, score.NoteCount)
	assert.Equal(4.0, score.Duration)
	assert.Equal(1, score.MeasuresCount())
	assert.InDelta(2.0, score.DurationSeconds, 1e-6)

	track := score.Tracks[0]
	assert.Equal("Piano", track.Name)
	assert.Equal(uint8(0), track.Instrument.Program)
	assert.False(track.Instrument.IsDrum)
	assert.Equal(1.0, track.Notes[1].Onset)
	assert.Equal(1.0, track.Notes[1].Duration)
	assert.Equal(uint8(64), track.Notes[1].Pitch)
}

func TestLoadDrumChannel(t *testing.T) {
	path := miditest.Write(t, "drums.mid",
		miditest.Track("", 9, 0, miditest.Quarters(36, 38)...),
	)

	score, err := Load(path, DefaultLoadOptions())
	assert := assert.New(t)
	assert.NoError(err)
	assert.True(score.Tracks[0].Instrument.IsDrum)
	assert.Equal(uint8(9), score.Tracks[0].Channel)
}

func TestLoadDefaultsToProgramZero(t *testing.T) {
	path := miditest.Write(t, "noprogram.mid",
		miditest.Track("", 2, -1, miditest.Quarters(60)...),
	)

	score, err := Load(path, DefaultLoadOptions())
	assert.NoError(t, err)
	assert.Equal(t, uint8(0), score.Tracks[0].Instrument.Program)
}

func TestLoadHonorsProgramChanges(t *testing.T) {
	var tr smf.Track
	tr.Add(0, gomidi.ProgramChange(0, 40))
	tr.Add(0, gomidi.NoteOn(0, 60, 100))
	tr.Add(q, gomidi.NoteOff(0, 60))
	tr.Add(0, gomidi.ProgramChange(0, 47))
	tr.Add(0, gomidi.NoteOn(0, 62, 100))
	tr.Add(q, gomidi.NoteOff(0, 62))
	tr.Close(0)
	path := miditest.Write(t, "programs.mid", tr)

	score, err := Load(path, DefaultLoadOptions())
	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(score.Tracks, 2)
	assert.Equal(uint8(40), score.Tracks[0].Instrument.Program)
	assert.Equal(uint8(60), score.Tracks[0].Notes[0].Pitch)
	assert.Equal(uint8(47), score.Tracks[1].Instrument.Program)
	assert.Equal(uint8(62), score.Tracks[1].Notes[0].Pitch)
}

func TestLoadNoteOnVelocityZeroEndsNote(t *testing.T) {
	var tr smf.Track
	tr.Add(0, gomidi.NoteOn(0, 60, 100))
	tr.Add(2*q, gomidi.NoteOn(0, 60, 0))
	tr.Close(0)
	path := miditest.Write(t, "velzero.mid", tr)

	score, err := Load(path, DefaultLoadOptions())
	assert.NoError(t, err)
	assert.Equal(t, 2.0, score.Tracks[0].Notes[0].Duration)
}

func TestLoadClosesDanglingNotes(t *testing.T) {
	var tr smf.Track
	tr.Add(0, gomidi.NoteOn(0, 60, 100))
	tr.Close(3 * q)
	path := miditest.Write(t, "dangling.mid", tr)

	score, err := Load(path, DefaultLoadOptions())
	assert.NoError(t, err)
	assert.Equal(t, 3.0, score.Tracks[0].Notes[0].Duration)
}

func TestLoadQuantizesToGrid(t *testing.T) {
	notes := []miditest.Note{
		{Key: 60, Start: 0, Length: q + 7},
		{Key: 62, Start: q + 13, Length: q / 3},
	}
	path := miditest.Write(t, "quantize.mid", miditest.Track("", 0, 0, notes...))

	quantized, err := Load(path, DefaultLoadOptions())
	assert.NoError(t, err)
	raw, err := Load(path, LoadOptions{Quantize: false})
	assert.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(1.0, quantized.Tracks[0].Notes[0].Duration)
	assert.Equal(1.0, quantized.Tracks[0].Notes[1].Onset)
	assert.InDelta(1.0/3.0, quantized.Tracks[0].Notes[1].Duration, 1e-12)
	assert.InDelta(float64(q+13)/q, raw.Tracks[0].Notes[1].Onset, 1e-12)
}

func TestLoadMeasuresFollowTimeSignature(t *testing.T) {
	// 3/4, 7 beats of music -> 3 bars
	notes := []miditest.Note{{Key: 60, Start: 0, Length: 7 * q}}
	path := miditest.Write(t, "waltz.mid",
		miditest.Conductor(3, 4, 90),
		miditest.Track("", 0, 0, notes...),
	)

	score, err := Load(path, DefaultLoadOptions())
	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(3, score.MeasuresCount())
	assert.Equal(3.0, score.Measures[1].Start)
	assert.Equal(uint8(3), score.Measures[0].Numerator)
}

func TestFindMeasuresSignatureChange(t *testing.T) {
	sigs := []timeSig{{tick: 4 * q, num: 6, denom: 8}}
	measures := findMeasures(sigs, q, 10*q)

	assert := assert.New(t)
	assert.Len(measures, 3)
	assert.Equal(0.0, measures[0].Start)
	assert.Equal(4.0, measures[0].End)
	assert.Equal(4.0, measures[1].Start)
	assert.Equal(7.0, measures[1].End)
	assert.Equal(uint8(6), measures[2].Numerator)
}

func TestQuantize(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(0.25, quantize(0.26))
	assert.InDelta(1.0/3.0, quantize(0.32), 1e-12)
	assert.Equal(2.0, quantize(2.01))
	assert.Equal(0.0, quantize(0.05))
}

func TestLoadReader(t *testing.T) {
	path := miditest.Write(t, "reader.mid", miditest.Track("", 0, 0, miditest.Quarters(60, 62)...))
	f, err := os.Open(path)
	assert.NoError(t, err)
	defer f.Close()

	score, err := LoadReader(f, "in-memory", DefaultLoadOptions())
	assert.NoError(t, err)
	assert.Equal(t, "in-memory", score.Path)
	assert.Equal(t, 2, score.NoteCount)
}
