package midi

import (
	"io"

	"github.com/jsphweid/midicomplexity/model"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
	"golang.org/x/exp/slices"
)

const drumChannel = 9

type LoadOptions struct {
	// Snap onsets and durations to the 1/4 and 1/3 beat grids.
	Quantize bool
}

func DefaultLoadOptions() LoadOptions {
	return LoadOptions{Quantize: true}
}

// Load reads and parses the SMF at path into a Score.
func Load(path string, opts LoadOptions) (*model.Score, error) {
	s, err := ReadMidiFile(path)
	if err != nil {
		return nil, err
	}
	return BuildScore(s, path, opts)
}

// LoadReader parses an SMF byte stream. path is only recorded on the Score.
func LoadReader(r io.Reader, path string, opts LoadOptions) (*model.Score, error) {
	s, err := ParseMidi(r)
	if err != nil {
		return nil, err
	}
	return BuildScore(s, path, opts)
}

type trackKey struct {
	smfTrack int
	channel  uint8
	program  uint8
}

type openNote struct {
	tick     int64
	velocity uint8
	program  uint8
}

type rawNote struct {
	key      trackKey
	start    int64
	end      int64
	pitch    uint8
	velocity uint8
}

// BuildScore converts a parsed SMF. Notes are split into one Track per
// (SMF track, channel, program) so mid-stream program changes are honored.
func BuildScore(s *smf.SMF, path string, opts LoadOptions) (score *model.Score, e error) {
	defer func() {
		if r := recover(); r != nil {
			score = nil
			e = errors.Wrapf(ErrCorruptFile, "building score: %v", r)
		}
	}()

	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok || ticks == 0 {
		return nil, errors.Wrap(ErrCorruptFile, "only metric time formats are supported")
	}
	tpq := float64(ticks)

	var notes []rawNote
	var sigs []timeSig
	var tempos []model.TempoChange
	names := make(map[int]string)
	instrumentNames := make(map[int]string)

	for ti, track := range s.Tracks {
		var absTicks int64
		programs := make(map[uint8]uint8)
		open := make(map[[2]uint8]openNote)
		log := logrus.WithFields(logrus.Fields{"path": path, "track": ti})

		closeNote := func(ch, key uint8, tick int64) bool {
			k := [2]uint8{ch, key}
			on, ok := open[k]
			if !ok {
				return false
			}
			delete(open, k)
			notes = append(notes, rawNote{
				key:      trackKey{smfTrack: ti, channel: ch, program: on.program},
				start:    on.tick,
				end:      tick,
				pitch:    key,
				velocity: on.velocity,
			})
			return true
		}

		for _, ev := range track {
			absTicks += int64(ev.Delta)
			msg := gomidi.Message(ev.Message)
			var ch, key, vel, program uint8
			var num, denom, cpt, dsqpq uint8
			var bpm float64
			var text string
			switch {
			case msg.GetNoteOn(&ch, &key, &vel) && vel > 0:
				if closeNote(ch, key, absTicks) {
					log.Debugf("note double pressed: key=%d ch=%d", key, ch)
				}
				program = programs[ch]
				if ch == drumChannel {
					program = 0
				}
				open[[2]uint8{ch, key}] = openNote{tick: absTicks, velocity: vel, program: program}
			case msg.GetNoteOn(&ch, &key, &vel), msg.GetNoteOff(&ch, &key, &vel):
				if !closeNote(ch, key, absTicks) {
					log.Debugf("note off for unpressed note: key=%d ch=%d", key, ch)
				}
			case msg.GetProgramChange(&ch, &program):
				programs[ch] = program
			case ev.Message.GetMetaTimeSig(&num, &denom, &cpt, &dsqpq):
				sigs = append(sigs, timeSig{tick: absTicks, num: num, denom: denom})
			case ev.Message.GetMetaTempo(&bpm):
				tempos = append(tempos, model.TempoChange{Beat: float64(absTicks) / tpq, BPM: bpm})
			case ev.Message.GetMetaInstrument(&text):
				if _, seen := instrumentNames[ti]; !seen {
					instrumentNames[ti] = text
				}
			case ev.Message.GetMetaTrackName(&text):
				if _, seen := names[ti]; !seen {
					names[ti] = text
				}
			}
		}

		for k := range open {
			log.Debugf("missing note off: key=%d ch=%d", k[1], k[0])
			closeNote(k[0], k[1], absTicks)
		}
	}

	if len(notes) == 0 {
		return nil, errors.Wrap(ErrEmptyScore, path)
	}

	// open map iteration above is unordered
	slices.SortStableFunc(notes, func(a, b rawNote) bool {
		if a.start != b.start {
			return a.start < b.start
		}
		if a.key != b.key {
			return lessKey(a.key, b.key)
		}
		return a.pitch < b.pitch
	})

	score = &model.Score{
		Path:            path,
		TicksPerQuarter: uint16(ticks),
		TempoChanges:    tempos,
	}

	byKey := make(map[trackKey]int)
	var endTick int64
	for _, n := range notes {
		idx, ok := byKey[n.key]
		if !ok {
			idx = len(score.Tracks)
			byKey[n.key] = idx
			score.Tracks = append(score.Tracks, newTrack(n.key, names, instrumentNames))
		}

		onset := float64(n.start) / tpq
		duration := float64(n.end-n.start) / tpq
		if opts.Quantize {
			onset = quantize(onset)
			duration = quantize(duration)
		}
		if duration < 0 {
			duration = 0
		}
		score.Tracks[idx].Notes = append(score.Tracks[idx].Notes, model.NoteEvent{
			Onset:    onset,
			Duration: duration,
			Pitch:    n.pitch,
			Velocity: n.velocity,
			Channel:  n.key.channel,
		})
		if n.end > endTick {
			endTick = n.end
		}
	}

	slices.SortStableFunc(score.Tracks, func(a, b model.Track) bool {
		return a.Index < b.Index
	})
	for i := range score.Tracks {
		score.Tracks[i].Index = i
		for _, n := range score.Tracks[i].Notes {
			if n.End() > score.Duration {
				score.Duration = n.End()
			}
		}
		score.NoteCount += len(score.Tracks[i].Notes)
	}

	score.Measures = findMeasures(sigs, tpq, endTick)
	score.DurationSeconds = float64(s.TimeAt(endTick)) / 1e6
	return score, nil
}

// Index holds a sortable position until tracks are renumbered.
func newTrack(k trackKey, names, instrumentNames map[int]string) model.Track {
	name := instrumentNames[k.smfTrack]
	if name == "" {
		name = names[k.smfTrack]
	}
	return model.Track{
		Index:   k.smfTrack<<16 | int(k.channel)<<8 | int(k.program),
		Name:    name,
		Channel: k.channel,
		Instrument: model.InstrumentDescriptor{
			Program: k.program,
			Name:    name,
			IsDrum:  k.channel == drumChannel,
		},
	}
}

func lessKey(a, b trackKey) bool {
	if a.smfTrack != b.smfTrack {
		return a.smfTrack < b.smfTrack
	}
	if a.channel != b.channel {
		return a.channel < b.channel
	}
	return a.program < b.program
}
