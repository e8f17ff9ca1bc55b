// Package report collects per-file outcomes into a run summary and renders
// it for humans and machines. Aggregation is order-independent: workers feed
// outcomes as they finish and the summary sorts before presentation, so the
// output is identical for any worker count.
package report

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"glint/internal/diag"
	"glint/internal/pipeline"
)

// Aggregator accumulates outcomes from concurrent pipelines.
type Aggregator struct {
	mu       sync.Mutex
	outcomes []pipeline.Outcome
	started  time.Time
}

func NewAggregator() *Aggregator {
	return &Aggregator{started: time.Now()}
}

// Add records one outcome. Safe for concurrent use.
func (a *Aggregator) Add(o pipeline.Outcome) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.outcomes = append(a.outcomes, o)
}

// Finalize validates completeness and builds the sorted summary. A finished
// run must have exactly one outcome per discovered file; an interrupted run
// may have fewer, never more.
func (a *Aggregator) Finalize(discovered int, discovery []diag.Diagnostic, interrupted bool) (*Summary, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.outcomes) > discovered {
		return nil, fmt.Errorf("report: %d outcomes for %d discovered files", len(a.outcomes), discovered)
	}
	if !interrupted && len(a.outcomes) != discovered {
		return nil, fmt.Errorf("report: run finished with %d of %d outcomes", len(a.outcomes), discovered)
	}

	s := &Summary{
		Discovered:  discovered,
		Discovery:   discovery,
		Outcomes:    a.outcomes,
		Interrupted: interrupted,
		Elapsed:     time.Since(a.started),
	}
	sort.SliceStable(s.Outcomes, func(i, j int) bool {
		return s.Outcomes[i].Entry.Rel < s.Outcomes[j].Entry.Rel
	})

	for i := range s.Outcomes {
		o := &s.Outcomes[i]
		if o.Failed() {
			s.Failed++
		} else {
			s.Processed++
		}
		if o.Bag != nil {
			e, w, n := o.Bag.CountBySeverity()
			s.Errors += e
			s.Warnings += w
			s.Infos += n
		}
		if o.Changed {
			s.FilesChanged++
		}
		if o.WouldChange {
			s.FilesPending++
		}
		s.FixesApplied += o.FixesApplied
		s.FixesSkipped += o.FixesSkipped
		if o.FromCache {
			s.CacheHits++
		}
	}
	for _, d := range discovery {
		switch d.Severity {
		case diag.SevError:
			s.Errors++
		case diag.SevWarning:
			s.Warnings++
		default:
			s.Infos++
		}
	}
	return s, nil
}

// Summary is the complete, deterministic result of one run.
type Summary struct {
	Discovered int
	Processed  int
	Failed     int

	Errors   int
	Warnings int
	Infos    int

	FilesChanged int // write mode
	FilesPending int // check mode
	FixesApplied int
	FixesSkipped int
	CacheHits    int

	Discovery   []diag.Diagnostic
	Outcomes    []pipeline.Outcome // sorted by relative path
	Interrupted bool
	Elapsed     time.Duration
}

// Failing reports whether the run should exit non-zero: any pipeline
// failure, any error-level diagnostic, an interrupted run, or pending
// changes in check mode.
func (s *Summary) Failing(checkMode bool) bool {
	if s.Interrupted || s.Failed > 0 || s.Errors > 0 {
		return true
	}
	return checkMode && s.FilesPending > 0
}
