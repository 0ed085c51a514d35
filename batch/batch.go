// Package batch analyzes many MIDI files on a pool of goroutines.
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jsphweid/midicomplexity/analysis"
	"github.com/jsphweid/midicomplexity/constants"
	"github.com/jsphweid/midicomplexity/model"
	"github.com/sirupsen/logrus"
)

// FileAnalyzer is satisfied by *analysis.Analyzer.
type FileAnalyzer interface {
	AnalyzeFile(ctx context.Context, path, dataset string) model.MetricsRecord
}

var _ FileAnalyzer = (*analysis.Analyzer)(nil)

type Runner struct {
	Analyzer FileAnalyzer
	// 0 means runtime.NumCPU()
	Workers int
	// log progress after this many files, 0 means constants.ProgressEvery
	ProgressEvery int
}

type Summary struct {
	RunID string
	// in job order; jobs never started because of cancellation are absent
	Records   []model.MetricsRecord
	Succeeded int
	Failed    int
	Skipped   int
	Elapsed   time.Duration
}

type result struct {
	index  int
	record model.MetricsRecord
}

// Run analyzes every job. Cancelling ctx stops handing out new jobs; files
// already being analyzed finish.
func (r *Runner) Run(ctx context.Context, jobs []model.Job) Summary {
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	every := r.ProgressEvery
	if every <= 0 {
		every = constants.ProgressEvery
	}

	summary := Summary{RunID: uuid.NewString()}
	log := logrus.WithField("run", summary.RunID)
	log.Infof("Analyzing %v midi files with %v workers", len(jobs), workers)
	start := time.Now()

	queue := make(chan int)
	results := make(chan result)

	go func() {
		defer close(queue)
		for i := range jobs {
			if ctx.Err() != nil {
				return
			}
			select {
			case <-ctx.Done():
				return
			case queue <- i:
			}
		}
	}()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range queue {
				results <- result{index: i, record: r.analyze(ctx, jobs[i])}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	records := make([]*model.MetricsRecord, len(jobs))
	var completed int
	for res := range results {
		rec := res.record
		records[res.index] = &rec
		completed++
		if rec.Failed() {
			summary.Failed++
			log.WithField("path", rec.FilePath).Warnf("Failed: %v", rec.Error)
		} else {
			summary.Succeeded++
		}
		if completed%every == 0 || completed == len(jobs) {
			logProgress(log, completed, len(jobs), time.Since(start))
		}
	}

	for _, rec := range records {
		if rec == nil {
			summary.Skipped++
			continue
		}
		summary.Records = append(summary.Records, *rec)
	}
	summary.Elapsed = time.Since(start)

	if summary.Skipped > 0 {
		log.Warnf("Cancelled: %v files not analyzed", summary.Skipped)
	}
	log.WithFields(logrus.Fields{
		"succeeded": summary.Succeeded,
		"failed":    summary.Failed,
		"elapsed":   summary.Elapsed.Round(time.Millisecond),
	}).Info("Batch finished")
	return summary
}

// analyze keeps a misbehaving analyzer from taking down the pool.
func (r *Runner) analyze(ctx context.Context, job model.Job) (rec model.MetricsRecord) {
	defer func() {
		if p := recover(); p != nil {
			rec = model.MetricsRecord{
				Filename: filepath.Base(job.Path),
				Dataset:  job.Dataset,
				FilePath: job.Path,
				Error:    fmt.Sprintf("panic: %v", p),
			}
		}
	}()
	return r.Analyzer.AnalyzeFile(ctx, job.Path, job.Dataset)
}

func logProgress(log *logrus.Entry, completed, total int, elapsed time.Duration) {
	rate := float64(completed) / elapsed.Seconds()
	var eta time.Duration
	if rate > 0 {
		eta = time.Duration(float64(total-completed) / rate * float64(time.Second))
	}
	log.WithFields(logrus.Fields{
		"completed": completed,
		"total":     total,
		"rate":      rate,
		"eta":       eta.Round(time.Second),
	}).Infof("Processed %v of %v midi files", completed, total)
}
