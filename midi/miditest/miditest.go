// Package miditest writes small Standard MIDI Files for tests.
package miditest

import (
	"path/filepath"
	"sort"
	"testing"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const TicksPerQuarter = 480

type Note struct {
	Key      uint8
	Start    uint32 // ticks
	Length   uint32 // ticks
	Velocity uint8
}

// Quarters is a run of quarter notes starting at tick 0, one per key.
func Quarters(keys ...uint8) []Note {
	res := make([]Note, len(keys))
	for i, k := range keys {
		res[i] = Note{Key: k, Start: uint32(i) * TicksPerQuarter, Length: TicksPerQuarter}
	}
	return res
}

type event struct {
	tick uint32
	off  bool
	msg  []byte
}

// Track builds a closed track. program < 0 leaves out the program change.
func Track(name string, channel uint8, program int, notes ...Note) smf.Track {
	var tr smf.Track
	if name != "" {
		tr.Add(0, smf.MetaTrackSequenceName(name))
	}
	if program >= 0 {
		tr.Add(0, midi.ProgramChange(channel, uint8(program)))
	}

	var events []event
	for _, n := range notes {
		vel := n.Velocity
		if vel == 0 {
			vel = 100
		}
		events = append(events,
			event{tick: n.Start, msg: midi.NoteOn(channel, n.Key, vel)},
			event{tick: n.Start + n.Length, off: true, msg: midi.NoteOff(channel, n.Key)},
		)
	}
	// note offs first so repeated keys pair correctly
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].off && !events[j].off
	})

	var last uint32
	for _, e := range events {
		tr.Add(e.tick-last, e.msg)
		last = e.tick
	}
	tr.Close(0)
	return tr
}

// Conductor holds the time signature and tempo.
func Conductor(num, denom uint8, bpm float64) smf.Track {
	var tr smf.Track
	tr.Add(0, smf.MetaMeter(num, denom))
	tr.Add(0, smf.MetaTempo(bpm))
	tr.Close(0)
	return tr
}

// Write stores the tracks as a format 1 file in a temp dir and returns its path.
func Write(t testing.TB, name string, tracks ...smf.Track) string {
	t.Helper()
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerQuarter)
	for _, tr := range tracks {
		if err := s.Add(tr); err != nil {
			t.Fatalf("adding track: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), name)
	if err := s.WriteFile(path); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}
