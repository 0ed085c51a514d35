package cmd

import (
	"fmt"

	"github.com/jsphweid/midicomplexity/chord"
	"github.com/jsphweid/midicomplexity/entropy"
	"github.com/jsphweid/midicomplexity/feature"
	"github.com/jsphweid/midicomplexity/instrument"
	"github.com/jsphweid/midicomplexity/midi"
	"github.com/jsphweid/midicomplexity/model"
	"github.com/jsphweid/midicomplexity/tonality"
	"github.com/jsphweid/midicomplexity/util"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

var inspectNoQuantize bool

func init() {
	inspectCmd.Flags().BoolVar(&inspectNoQuantize, "no-quantize", false, "keep raw onsets")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.mid>",
	Short: "Inspects a MIDI file",
	Long:  `Prints tracks, instrument classification, distributions and key candidates for one MIDI file.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		score, err := midi.Load(args[0], midi.LoadOptions{Quantize: !inspectNoQuantize})
		if err != nil {
			return err
		}
		inspect(score)
		return nil
	},
}

func inspect(score *model.Score) {
	fmt.Printf("file: %v\n", score.Path)
	fmt.Printf("measures: %v, notes: %v, beats: %v, seconds: %.2f\n",
		score.MeasuresCount(), score.NoteCount, score.Duration, score.DurationSeconds)
	for _, tc := range score.TempoChanges {
		fmt.Printf("tempo at beat %v: %.2f bpm\n", tc.Beat, tc.BPM)
	}

	for _, t := range score.Tracks {
		program := instrument.ProgramName(t.Instrument.Program)
		if t.Instrument.IsDrum {
			program = instrument.DrumKitName
		}
		kind := "tonal"
		if instrument.IsPercussion(t.Instrument) {
			kind = "percussion"
		}
		fmt.Printf("track %v: %q ch=%v program=%v (%v) %v, %v notes\n",
			t.Index, t.Name, t.Channel+1, t.Instrument.Program, program, kind, len(t.Notes))
	}

	tonal := instrument.TonalTracks(score.Tracks)
	pcs := entropy.Distribution(feature.PitchClasses(tonal))
	for _, pc := range util.GetKeys(pcs) {
		fmt.Printf("pitch class %v: %v\n", pc, pcs[pc])
	}

	var chordKeys []string
	for _, c := range chord.GroupByOnset(feature.Notes(tonal)) {
		if len(c.Notes) > 1 {
			chordKeys = append(chordKeys, chord.CreateChordKey(c))
		}
	}
	chords := entropy.Distribution(chordKeys)
	keys := util.GetKeys(chords)
	slices.SortStableFunc(keys, func(a, b string) bool { return chords[a] > chords[b] })
	for i, k := range keys {
		if i == 5 {
			break
		}
		fmt.Printf("chord %v: %v\n", k, chords[k])
	}

	guesses, err := tonality.Guesses(feature.Notes(tonal))
	if err != nil {
		fmt.Printf("key: %v\n", err)
		return
	}
	for _, g := range guesses[:3] {
		mode := "major"
		if g.Minor() {
			mode = "minor"
		}
		fmt.Printf("key %v (tonic pc %d, %v): %.3f\n", g.Name, g.Tonic(), mode, g.Score)
	}
}
