package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"glint/internal/apply"
	"glint/internal/diag"
	"glint/internal/source"
	"glint/internal/workspace"
)

// DefaultMaxDiagnostics caps the per-file bag when Options leaves it unset.
const DefaultMaxDiagnostics = 256

// Options tunes one run's per-file behaviour.
type Options struct {
	FixEnabled     bool
	FormatEnabled  bool
	Timeout        time.Duration // 0 disables the per-file deadline
	MaxDiagnostics int
}

// Cache stores lint results keyed by file content and configuration, so an
// unchanged file skips parse/analyze/lint on the next run.
type Cache interface {
	Get(file *source.File) (*diag.Bag, bool)
	Put(file *source.File, bag *diag.Bag)
}

// Runner executes the stage sequence for single files. One Runner serves all
// workers of a run; all mutable state lives in the per-call Outcome.
type Runner struct {
	Files      *source.FileSet
	Tools      Toolchain
	Applicator *apply.Applicator // nil skips fix/format/write
	Cache      Cache             // nil disables caching
	Opts       Options
	Progress   ProgressSink
	Log        logrus.FieldLogger
}

// Process runs the full pipeline for one entry and always returns a usable
// Outcome: failures are captured as status, cause and diagnostics rather
// than propagated.
func (r *Runner) Process(ctx context.Context, entry workspace.Entry) Outcome {
	started := time.Now()
	maxDiag := r.Opts.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = DefaultMaxDiagnostics
	}
	out := Outcome{Entry: entry, Bag: diag.NewBag(maxDiag)}

	parent := ctx
	if r.Opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Opts.Timeout)
		defer cancel()
	}

	r.run(ctx, parent, &out)

	out.Bag.Sort()
	out.Elapsed = time.Since(started)
	if r.Log != nil {
		r.Log.WithFields(logrus.Fields{
			"file":    entry.Rel,
			"status":  out.Status.String(),
			"elapsed": out.Elapsed,
		}).Debug("pipeline finished")
	}
	return out
}

func (r *Runner) run(ctx, parent context.Context, out *Outcome) {
	rep := diag.BagReporter{Bag: out.Bag}
	rel := out.Entry.Rel

	if !r.readStage(ctx, out) {
		return
	}
	file := r.Files.Get(out.FileID)

	cached := r.lookupCache(file, out)
	if !cached {
		var tree Tree
		var facts Facts

		err := r.stage(ctx, StageParse, rel, func() error {
			var stageErr error
			tree, stageErr = r.Tools.Parser.Parse(ctx, file, rep)
			return stageErr
		})
		if err != nil {
			r.fail(out, err, CauseParse, parent)
			return
		}

		if r.Tools.Analyzer != nil {
			err = r.stage(ctx, StageAnalyze, rel, func() error {
				var stageErr error
				facts, stageErr = r.Tools.Analyzer.Analyze(ctx, file, tree, rep)
				return stageErr
			})
			if err != nil {
				r.fail(out, err, CauseInternal, parent)
				return
			}
		}

		if r.Tools.Linter != nil {
			err = r.stage(ctx, StageLint, rel, func() error {
				return r.Tools.Linter.Lint(ctx, file, tree, facts, rep)
			})
			if err != nil {
				r.fail(out, err, CauseInternal, parent)
				return
			}
		}

		if r.Cache != nil {
			// snapshot: the applicator may append conflict diagnostics later
			snapshot := diag.NewBag(out.Bag.Cap())
			snapshot.Merge(out.Bag)
			r.Cache.Put(file, snapshot)
		}
	}

	if r.Applicator == nil {
		return
	}

	applyStage := StageFormat
	if r.Opts.FixEnabled {
		applyStage = StageFix
	}
	var res apply.Result
	err := r.stage(ctx, applyStage, rel, func() error {
		var stageErr error
		res, stageErr = r.Applicator.Run(ctx, file, rel, out.Bag)
		return stageErr
	})
	if err != nil {
		var writeErr *apply.WriteError
		if errors.As(err, &writeErr) {
			out.Bag.Add(diag.NewError(diag.IOWriteFileError, source.Span{File: out.FileID},
				fmt.Sprintf("cannot write %s: %v", rel, writeErr.Err)))
			r.fail(out, err, CauseWrite, parent)
			return
		}
		r.fail(out, err, CauseInternal, parent)
		return
	}

	out.Changed = res.Changed
	out.WouldChange = res.Pending
	out.Diff = res.Diff
	out.FixesApplied = res.AppliedFixes
	out.FixesSkipped = res.SkippedFixes
	if res.Changed {
		r.emit(Event{File: rel, Stage: StageWrite, Status: StatusDone})
	}
}

// readStage loads the file into the shared set. Returns false when the
// pipeline cannot continue.
func (r *Runner) readStage(ctx context.Context, out *Outcome) bool {
	rel := out.Entry.Rel
	r.emit(Event{File: rel, Stage: StageRead, Status: StatusWorking})

	if err := ctx.Err(); err != nil {
		r.fail(out, err, CauseCancelled, ctx)
		return false
	}
	id, err := r.Files.Load(out.Entry.Path)
	if err != nil {
		out.Bag.Add(diag.NewError(diag.IOReadFileError, source.Span{},
			fmt.Sprintf("cannot read %s: %v", rel, err)))
		out.Status = OutcomeFailed
		out.Cause = CauseRead
		out.Err = err
		r.emit(Event{File: rel, Stage: StageRead, Status: StatusError, Err: err})
		return false
	}
	out.FileID = id
	r.emit(Event{File: rel, Stage: StageRead, Status: StatusDone})
	return true
}

func (r *Runner) lookupCache(file *source.File, out *Outcome) bool {
	if r.Cache == nil {
		return false
	}
	bag, ok := r.Cache.Get(file)
	if !ok {
		return false
	}
	out.Bag.Merge(bag)
	out.FromCache = true
	return true
}

// stage runs fn with progress events and panic isolation. A panicking stage
// becomes an error instead of killing the worker goroutine.
func (r *Runner) stage(ctx context.Context, st Stage, rel string, fn func() error) (err error) {
	start := time.Now()
	r.emit(Event{File: rel, Stage: st, Status: StatusWorking})
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w in %s stage: %v", errStagePanic, st, rec)
		}
		status := StatusDone
		if err != nil {
			status = StatusError
		}
		r.emit(Event{File: rel, Stage: st, Status: status, Err: err, Elapsed: time.Since(start)})
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn()
}

var errStagePanic = errors.New("stage panicked")

// fail records the failure on the outcome, reclassifying deadline and
// cancellation errors so a parent-cancelled run is never reported as a
// per-file timeout.
func (r *Runner) fail(out *Outcome, err error, cause FailCause, parent context.Context) {
	switch {
	case parent.Err() != nil:
		cause = CauseCancelled
		out.Bag.Add(diag.NewError(diag.RunCancelled, source.Span{File: out.FileID},
			"processing interrupted"))
	case errors.Is(err, context.DeadlineExceeded):
		cause = CauseTimeout
		out.Bag.Add(diag.NewError(diag.RunTimeout, source.Span{File: out.FileID},
			fmt.Sprintf("processing exceeded %s", r.Opts.Timeout)))
	case errors.Is(err, errStagePanic):
		cause = CauseInternal
		out.Bag.Add(diag.NewError(diag.RunPanic, source.Span{File: out.FileID}, err.Error()))
	case cause == CauseParse:
		// parse diagnostics were already reported by the parser
	case cause == CauseWrite:
		// write diagnostic added by the caller
	default:
		out.Bag.Add(diag.NewError(diag.RunPanic, source.Span{File: out.FileID},
			fmt.Sprintf("internal failure: %v", err)))
	}
	out.Status = OutcomeFailed
	out.Cause = cause
	out.Err = err
}

func (r *Runner) emit(evt Event) {
	if r.Progress == nil {
		return
	}
	r.Progress.OnEvent(evt)
}
