// Package pipeline runs the per-file stage sequence: read, parse, analyze,
// lint, then fix/format/write through the applicator. Each file gets its own
// isolated run; one file failing, timing out or panicking never takes down
// the rest of the batch.
package pipeline

import (
	"context"

	"glint/internal/diag"
	"glint/internal/source"
)

// Tree is the parser's output, opaque to the pipeline. Stages downcast it to
// the concrete representation of their toolchain.
type Tree any

// Facts is the analyzer's output, opaque to the pipeline.
type Facts any

// Parser turns file content into a Tree. Content problems (encoding, syntax)
// go through the reporter; a returned error means the file cannot be
// processed further and fails the pipeline at the parse stage.
type Parser interface {
	Parse(ctx context.Context, file *source.File, rep diag.Reporter) (Tree, error)
}

// Analyzer derives Facts from a parsed Tree. Optional.
type Analyzer interface {
	Analyze(ctx context.Context, file *source.File, tree Tree, rep diag.Reporter) (Facts, error)
}

// Linter evaluates rules over the tree and facts, reporting findings with
// optional fixes. Optional.
type Linter interface {
	Lint(ctx context.Context, file *source.File, tree Tree, facts Facts, rep diag.Reporter) error
}

// Formatter rewrites content into canonical form. Must be idempotent.
type Formatter interface {
	Format(ctx context.Context, file *source.File, content []byte) ([]byte, error)
}

// Toolchain bundles the stage implementations for one source kind.
// Parser is required; nil Analyzer or Linter skips that stage.
type Toolchain struct {
	Parser    Parser
	Analyzer  Analyzer
	Linter    Linter
	Formatter Formatter
}
