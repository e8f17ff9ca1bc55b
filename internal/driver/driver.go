// Package driver is the run controller: it wires discovery, the worker
// pool, per-file pipelines and aggregation into one operation the CLI
// commands call.
package driver

import (
	"context"
	"crypto/sha256"
	"fmt"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"

	"glint/internal/apply"
	"glint/internal/observ"
	"glint/internal/pipeline"
	"glint/internal/project"
	"glint/internal/report"
	"glint/internal/rescache"
	"glint/internal/sched"
	"glint/internal/source"
	"glint/internal/textlint"
	"glint/internal/workspace"
)

// Options configures one run.
type Options struct {
	Config project.Config
	Mode   apply.Mode

	LintEnabled   bool
	FixEnabled    bool
	FormatEnabled bool

	Jobs           int           // 0 means GOMAXPROCS
	Timeout        time.Duration // per-file, 0 disables
	MaxDiagnostics int

	CacheEnabled bool
	CacheDir     string // empty means the per-user default

	Progress pipeline.ProgressSink
	Log      logrus.FieldLogger
}

// Result carries everything a command needs to render a finished run.
type Result struct {
	Summary *report.Summary
	Files   *source.FileSet
	Timings observ.Report
}

// Run executes one full operation over the workspace. Cancelling ctx stops
// admission of new files; pipelines already running finish, and the partial
// summary is returned with Interrupted set rather than an error.
func Run(ctx context.Context, opts Options) (*Result, error) {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	cfg := opts.Config

	index, err := workspace.NewIndex(cfg.Root, cfg.Workspace)
	if err != nil {
		return nil, err
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	log.WithFields(logrus.Fields{
		"root": index.Root(),
		"mode": opts.Mode.String(),
		"jobs": jobs,
	}).Debug("run starting")

	files := source.NewFileSet(index.Root())
	strings := source.NewInterner()
	tools := textlint.New(cfg, strings)
	if !opts.LintEnabled {
		tools.Analyzer = nil
		tools.Linter = nil
	}

	applicator := &apply.Applicator{Mode: opts.Mode, Fix: opts.FixEnabled}
	if opts.FormatEnabled && tools.Formatter != nil {
		applicator.Format = tools.Formatter.Format
	}

	runner := &pipeline.Runner{
		Files:      files,
		Tools:      tools,
		Applicator: applicator,
		Cache:      openCache(opts, cfg, log),
		Opts: pipeline.Options{
			FixEnabled:     opts.FixEnabled,
			FormatEnabled:  opts.FormatEnabled,
			Timeout:        opts.Timeout,
			MaxDiagnostics: opts.MaxDiagnostics,
		},
		Progress: opts.Progress,
		Log:      log,
	}

	timer := observ.NewTimer()
	processPhase := timer.Begin("process")

	entries := make(chan workspace.Entry, jobs*2)
	walkedCh := make(chan workspace.Walked, 1)
	go func() {
		walkedCh <- index.Walk(ctx, entries)
	}()

	agg := report.NewAggregator()
	for outcome := range sched.Process(ctx, entries, jobs, runner.Process) {
		agg.Add(outcome)
	}
	walked := <-walkedCh
	timer.End(processPhase, fmt.Sprintf("%d files", walked.Discovered))

	reportPhase := timer.Begin("report")
	interrupted := ctx.Err() != nil
	summary, err := agg.Finalize(walked.Discovered, walked.Diagnostics, interrupted)
	timer.End(reportPhase, "")
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"processed": summary.Processed,
		"failed":    summary.Failed,
		"errors":    summary.Errors,
	}).Debug("run finished")

	return &Result{Summary: summary, Files: files, Timings: timer.Report()}, nil
}

// openCache returns the result cache or nil. Cache trouble never fails the
// run; it just costs recomputation.
func openCache(opts Options, cfg project.Config, log logrus.FieldLogger) pipeline.Cache {
	if !opts.CacheEnabled {
		return nil
	}
	dir := opts.CacheDir
	if dir == "" {
		var err error
		dir, err = rescache.DefaultDir()
		if err != nil {
			log.WithError(err).Warn("result cache disabled")
			return nil
		}
	}
	store, err := rescache.Open(dir, cacheDigest(opts, cfg), log)
	if err != nil {
		log.WithError(err).Warn("result cache disabled")
		return nil
	}
	return store
}

// cacheDigest keys the result cache. The enabled stages and the bag cap
// shape which diagnostics a run produces, so they invalidate entries just
// like the lint and formatter settings do: a format-only run must never
// satisfy a later lint run from cache.
func cacheDigest(opts Options, cfg project.Config) [32]byte {
	base := cfg.Digest()
	h := sha256.New()
	h.Write(base[:])
	fmt.Fprintf(h, "lint=%t;fix=%t;format=%t;maxdiag=%d;",
		opts.LintEnabled, opts.FixEnabled, opts.FormatEnabled, opts.MaxDiagnostics)
	var digest [32]byte
	copy(digest[:], h.Sum(nil))
	return digest
}
