// Package sched fans discovered entries out to a bounded pool of pipeline
// workers. At most jobs pipelines run at once regardless of how many files
// the walk produces.
package sched

import (
	"context"

	"golang.org/x/sync/errgroup"

	"glint/internal/pipeline"
	"glint/internal/workspace"
)

// RunFunc executes one file pipeline.
type RunFunc func(ctx context.Context, entry workspace.Entry) pipeline.Outcome

// Process consumes entries and runs up to jobs pipelines concurrently,
// streaming outcomes into the returned channel. The channel is closed once
// every admitted entry has an outcome. After cancellation no new entries are
// admitted; already running pipelines finish and their outcomes are still
// delivered, so a cancelled run yields a partial but uncorrupted result set.
func Process(ctx context.Context, entries <-chan workspace.Entry, jobs int, run RunFunc) <-chan pipeline.Outcome {
	if jobs < 1 {
		jobs = 1
	}
	out := make(chan pipeline.Outcome, jobs)

	go func() {
		defer close(out)

		g := new(errgroup.Group)
		g.SetLimit(jobs)

		seen := make(map[workspace.EntryID]bool)
		for entry := range entries {
			if ctx.Err() != nil {
				continue // drain so the producer can close the channel
			}
			if seen[entry.ID] {
				continue
			}
			seen[entry.ID] = true

			entry := entry
			g.Go(func() error {
				out <- run(ctx, entry)
				return nil
			})
		}
		_ = g.Wait()
	}()
	return out
}
