package pipeline

import "time"

// Stage describes a per-file pipeline phase.
type Stage string

const (
	// StageRead is the load-and-normalize stage.
	StageRead Stage = "read"
	// StageParse is the parsing stage.
	StageParse Stage = "parse"
	// StageAnalyze is the semantic analysis stage.
	StageAnalyze Stage = "analyze"
	// StageLint is the rule evaluation stage.
	StageLint Stage = "lint"
	// StageFix is the fix application stage.
	StageFix Stage = "fix"
	// StageFormat is the formatting stage.
	StageFormat Stage = "format"
	// StageWrite is the persistence stage.
	StageWrite Stage = "write"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the stage is currently running.
	StatusWorking Status = "working"
	// StatusDone indicates the stage finished.
	StatusDone Status = "done"
	// StatusError indicates the stage failed.
	StatusError Status = "error"
)

// Event reports progress for a file (or for the overall run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use: every worker reports through the same sink.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// NopSink drops every event.
type NopSink struct{}

func (NopSink) OnEvent(Event) {}
