// Package analysis assembles the complexity metrics for one score.
package analysis

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/jsphweid/midicomplexity/entropy"
	"github.com/jsphweid/midicomplexity/feature"
	"github.com/jsphweid/midicomplexity/harmony"
	"github.com/jsphweid/midicomplexity/instrument"
	"github.com/jsphweid/midicomplexity/midi"
	"github.com/jsphweid/midicomplexity/model"
	"github.com/jsphweid/midicomplexity/polyphony"
	"github.com/jsphweid/midicomplexity/segment"
	"github.com/jsphweid/midicomplexity/tonality"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Options struct {
	// measures per segment, <= 0 means constants.DefaultSegmentSize
	SegmentSize int
	Policy      segment.Policy
	Load        midi.LoadOptions
}

func DefaultOptions() Options {
	return Options{Load: midi.DefaultLoadOptions()}
}

type Analyzer struct {
	Options Options
	// nil uses tonality.KrumhanslSchmuckler
	Key tonality.Analyzer
	// nil leaves atc_score empty
	Harmony harmony.Scorer
}

func New(opts Options) *Analyzer {
	return &Analyzer{Options: opts, Key: tonality.KrumhanslSchmuckler{}}
}

// AnalyzeFile never fails: load errors and panics end up in the error
// column of the returned record.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path, dataset string) (rec model.MetricsRecord) {
	start := time.Now()
	rec = model.MetricsRecord{
		Filename: filepath.Base(path),
		Dataset:  dataset,
		FilePath: path,
	}
	log := logrus.WithFields(logrus.Fields{"path": path, "dataset": dataset})

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("analysis panicked: %v", r)
			rec = model.MetricsRecord{
				Filename: rec.Filename,
				Dataset:  dataset,
				FilePath: path,
				Error:    fmt.Sprintf("panic: %v", r),
			}
		}
		rec.ProcessingTime = time.Since(start).Seconds()
	}()

	score, err := midi.Load(path, a.Options.Load)
	if err != nil {
		log.WithError(err).Debug("could not load score")
		rec.Error = err.Error()
		return rec
	}

	metrics := a.AnalyzeScore(score)
	metrics.Filename = rec.Filename
	metrics.Dataset = dataset
	metrics.FilePath = path
	rec = metrics

	if a.Harmony != nil {
		if v, err := a.Harmony.Score(ctx, path); err != nil {
			log.WithError(err).Debug("no ATC score")
		} else {
			rec.ATCScore = &v
		}
	}
	return rec
}

// AnalyzeScore computes every metric column for a loaded score. It does
// not touch identifier columns.
func (a *Analyzer) AnalyzeScore(score *model.Score) model.MetricsRecord {
	var rec model.MetricsRecord
	measures := score.MeasuresCount()
	rec.MeasuresCount = float64(measures)
	rec.TotalNotes = float64(score.NoteCount)
	rec.TotalDuration = score.Duration

	k := a.segments(score, measures, a.tonalCertainty)
	rec.TonalCertainty, rec.MeanTonalCertainty = k.Whole, k.Mean

	hpc := a.segments(score, measures, pitchClassEntropy)
	rec.PitchClassEntropy, rec.MeanPitchClassEntropy = hpc.Whole, hpc.Mean

	rec.MaxIntervalEntropy, rec.MeanMaxIntervalEntropy = a.MaxOverTracks(score, MelodicIntervalEntropy)
	rec.MaxIOIEntropy, rec.MeanMaxIOIEntropy = a.MaxOverTracks(score, IOIEntropy)

	poly := polyphony.Compute(feature.PolyphonySeries(tonalNotes(score)))
	rec.MaxPolyphony = poly.Weighted.Max
	rec.AvgPolyphony = poly.Weighted.Mean
	rec.PolyphonyDensity = poly.Weighted.Density
	rec.PolyphonyStd = poly.Weighted.StdDev
	rec.MonophonicRatio = poly.Weighted.MonophonicRatio
	rec.SilenceRatio = poly.Weighted.SilenceRatio
	rec.NaiveAvgPolyphony = poly.Naive.Mean
	rec.NaivePolyphonyDensity = poly.Naive.Density
	rec.NaivePolyphonyStd = poly.Naive.StdDev

	segMax := a.segments(score, measures, polyphonyStat(func(s polyphony.Stats) float64 { return s.Max }))
	segAvg := a.segments(score, measures, polyphonyStat(func(s polyphony.Stats) float64 { return s.Mean }))
	segDensity := a.segments(score, measures, polyphonyStat(func(s polyphony.Stats) float64 { return s.Density }))
	rec.SegMaxPoly, rec.SegMaxStd = segMax.Mean, segMax.StdDev
	rec.SegAvgPoly, rec.SegAvgStd = segAvg.Mean, segAvg.StdDev
	rec.SegDensity, rec.SegDensityStd = segDensity.Mean, segDensity.StdDev

	logrus.WithFields(logrus.Fields{
		"path":     score.Path,
		"measures": measures,
		"notes":    score.NoteCount,
	}).Debug("score analyzed")
	return rec
}

func (a *Analyzer) segments(score *model.Score, measures int, fn segment.AnalysisFunc) segment.Result {
	return segment.AnalyzePolicy(score, measures, fn, a.Options.SegmentSize, a.Options.Policy)
}

// tonalCertainty errors only so that failing segments are skipped; the
// whole piece value falls back to 0.
func (a *Analyzer) tonalCertainty(s *model.Score) (v float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = 0, errors.Errorf("key analysis panicked: %v", r)
		}
	}()
	key := a.Key
	if key == nil {
		key = tonality.KrumhanslSchmuckler{}
	}
	return key.TonalCertainty(tonalNotes(s))
}

// pitchClassEntropy and polyphonyStat report a segment holding only
// percussion as empty so it is skipped like any other empty segment.
func pitchClassEntropy(s *model.Score) (float64, error) {
	notes := tonalNotes(s)
	if len(notes) == 0 {
		return 0, errors.Wrap(segment.ErrEmptySegment, "no tonal notes")
	}
	return entropy.Shannon(feature.PitchClasses(instrument.TonalTracks(s.Tracks))), nil
}

func polyphonyStat(pick func(polyphony.Stats) float64) segment.AnalysisFunc {
	return func(s *model.Score) (float64, error) {
		notes := tonalNotes(s)
		if len(notes) == 0 {
			return 0, errors.Wrap(segment.ErrEmptySegment, "no tonal notes")
		}
		return pick(polyphony.Weighted(feature.PolyphonySeries(notes))), nil
	}
}

func tonalNotes(s *model.Score) []model.NoteEvent {
	return feature.Notes(instrument.TonalTracks(s.Tracks))
}
