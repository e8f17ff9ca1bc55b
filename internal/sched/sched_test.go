package sched

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"glint/internal/pipeline"
	"glint/internal/workspace"
)

func feed(n int) <-chan workspace.Entry {
	ch := make(chan workspace.Entry, n)
	for i := 0; i < n; i++ {
		ch <- workspace.Entry{ID: workspace.EntryID(i), Rel: fmt.Sprintf("f%03d.txt", i)}
	}
	close(ch)
	return ch
}

func TestProcessAllEntriesGetOutcomes(t *testing.T) {
	const n = 50
	out := Process(context.Background(), feed(n), 8, func(_ context.Context, e workspace.Entry) pipeline.Outcome {
		return pipeline.Outcome{Entry: e}
	})

	seen := make(map[workspace.EntryID]int)
	for o := range out {
		seen[o.Entry.ID]++
	}
	if len(seen) != n {
		t.Fatalf("outcomes for %d entries, want %d", len(seen), n)
	}
	for id, count := range seen {
		if count != 1 {
			t.Fatalf("entry %d produced %d outcomes", id, count)
		}
	}
}

func TestProcessBoundsConcurrency(t *testing.T) {
	const jobs = 3
	var active, peak atomic.Int32

	out := Process(context.Background(), feed(30), jobs, func(_ context.Context, e workspace.Entry) pipeline.Outcome {
		cur := active.Add(1)
		for {
			p := peak.Load()
			if cur <= p || peak.CompareAndSwap(p, cur) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		active.Add(-1)
		return pipeline.Outcome{Entry: e}
	})
	for range out {
	}

	if got := peak.Load(); got > jobs {
		t.Fatalf("peak concurrency %d exceeds limit %d", got, jobs)
	}
}

func TestProcessDropsDuplicateIDs(t *testing.T) {
	ch := make(chan workspace.Entry, 4)
	ch <- workspace.Entry{ID: 7, Rel: "a.txt"}
	ch <- workspace.Entry{ID: 7, Rel: "a.txt"}
	ch <- workspace.Entry{ID: 8, Rel: "b.txt"}
	close(ch)

	out := Process(context.Background(), ch, 2, func(_ context.Context, e workspace.Entry) pipeline.Outcome {
		return pipeline.Outcome{Entry: e}
	})
	var n int
	for range out {
		n++
	}
	if n != 2 {
		t.Fatalf("outcomes = %d, want 2", n)
	}
}

func TestProcessStopsAdmittingOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	entries := make(chan workspace.Entry)
	go func() {
		defer close(entries)
		for i := 0; i < 100; i++ {
			entries <- workspace.Entry{ID: workspace.EntryID(i)}
		}
	}()

	var started atomic.Int32
	out := Process(ctx, entries, 2, func(_ context.Context, e workspace.Entry) pipeline.Outcome {
		if started.Add(1) == 3 {
			cancel()
		}
		time.Sleep(2 * time.Millisecond)
		return pipeline.Outcome{Entry: e}
	})

	var outcomes int
	for range out {
		outcomes++
	}
	if outcomes == 0 {
		t.Fatal("in-flight pipelines must still deliver outcomes")
	}
	if outcomes == 100 {
		t.Fatal("cancellation must stop admitting new entries")
	}
	cancel()
}
