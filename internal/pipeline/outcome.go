package pipeline

import (
	"time"

	"glint/internal/diag"
	"glint/internal/source"
	"glint/internal/workspace"
)

// OutcomeStatus says whether a file made it through its pipeline.
type OutcomeStatus uint8

const (
	// OutcomeProcessed means every stage ran to completion. The file may
	// still carry error-level diagnostics.
	OutcomeProcessed OutcomeStatus = iota
	// OutcomeFailed means a stage could not complete and later stages were
	// skipped for this file.
	OutcomeFailed
)

func (s OutcomeStatus) String() string {
	if s == OutcomeFailed {
		return "failed"
	}
	return "processed"
}

// FailCause names the stage-level reason a pipeline failed.
type FailCause uint8

const (
	CauseNone FailCause = iota
	CauseRead
	CauseParse
	CauseInternal
	CauseTimeout
	CauseCancelled
	CauseWrite
)

func (c FailCause) String() string {
	switch c {
	case CauseRead:
		return "read"
	case CauseParse:
		return "parse"
	case CauseInternal:
		return "internal"
	case CauseTimeout:
		return "timeout"
	case CauseCancelled:
		return "cancelled"
	case CauseWrite:
		return "write"
	default:
		return "none"
	}
}

// Outcome is the complete result of one file's pipeline. Exactly one Outcome
// exists per discovered entry; aggregation consumes them in any order and
// sorts for presentation.
type Outcome struct {
	Entry  workspace.Entry
	FileID source.FileID
	Status OutcomeStatus
	Cause  FailCause
	Err    error

	Bag *diag.Bag

	Changed      bool   // write mode: content persisted
	WouldChange  bool   // check mode: content differs
	Diff         string // unified diff, check mode only
	FixesApplied int
	FixesSkipped int
	FromCache    bool
	Elapsed      time.Duration
}

// Failed reports whether the pipeline stopped before completing.
func (o *Outcome) Failed() bool { return o.Status == OutcomeFailed }

// HasErrors reports whether the outcome contributes to a failing exit
// status: either the pipeline itself failed or error-level diagnostics were
// produced.
func (o *Outcome) HasErrors() bool {
	if o.Status == OutcomeFailed {
		return true
	}
	return o.Bag != nil && o.Bag.HasErrors()
}
