// Package apply turns fix proposals and formatter output into final file
// content, and makes the result observable: written to disk in write mode,
// surfaced as a unified diff in check mode.
package apply

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/pmezard/go-difflib/difflib"

	"glint/internal/diag"
	"glint/internal/source"
)

// Mode selects what happens with computed content.
type Mode uint8

const (
	// ModeCheck computes diffs and never touches disk.
	ModeCheck Mode = iota
	// ModeWrite persists changed content in place.
	ModeWrite
)

func (m Mode) String() string {
	if m == ModeWrite {
		return "write"
	}
	return "check"
}

// WriteError marks a failed disk write so callers can classify it apart
// from format failures.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string { return fmt.Sprintf("write %s: %v", e.Path, e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }

// FormatFunc reformats content as the final pass over post-fix bytes.
type FormatFunc func(ctx context.Context, file *source.File, content []byte) ([]byte, error)

// Applicator composes fixes and formatting for one file.
type Applicator struct {
	Mode   Mode
	Fix    bool
	Format FormatFunc // nil disables the format pass
}

// Result reports what the applicator did for one file.
type Result struct {
	Content      []byte
	Changed      bool // write mode: file was rewritten on disk
	Pending      bool // check mode: file would change
	Diff         string
	AppliedFixes int
	SkippedFixes int
}

// Run applies the bag's fixes in diagnostic order, skipping any fix whose
// edits overlap a region already modified in this pass, then runs the format
// pass over the result. Skipped fixes become diagnostics and are retried on
// the next run against the rewritten content.
func (a *Applicator) Run(ctx context.Context, file *source.File, rel string, bag *diag.Bag) (Result, error) {
	var res Result
	if file == nil {
		return res, fmt.Errorf("apply: file is nil")
	}

	final := file.Content
	if a.Fix {
		final, res.AppliedFixes, res.SkippedFixes = a.applyFixes(file, bag)
	}

	if a.Format != nil {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		formatted, err := a.Format(ctx, file, final)
		if err != nil {
			return res, fmt.Errorf("format %s: %w", rel, err)
		}
		final = formatted
	}

	res.Content = final
	if bytes.Equal(final, file.Content) {
		return res, nil
	}

	switch a.Mode {
	case ModeWrite:
		if file.Flags&source.FileVirtual != 0 {
			res.Changed = true
			return res, nil
		}
		if err := writePreservingMode(file.Path, final); err != nil {
			return res, err
		}
		res.Changed = true
	case ModeCheck:
		diff, err := unifiedDiff(file.Content, final, rel)
		if err != nil {
			return res, fmt.Errorf("diff %s: %w", rel, err)
		}
		res.Pending = true
		res.Diff = diff
	}
	return res, nil
}

// applyFixes selects non-conflicting fixes in diagnostic order and applies
// their edits to a copy of the original content. All edit spans address
// original-content coordinates, so accepted edits are disjoint by
// construction and can be applied back-to-front without offset fixups.
func (a *Applicator) applyFixes(file *source.File, bag *diag.Bag) (content []byte, applied, skipped int) {
	bag.Sort()

	var accepted []diag.TextEdit
	for _, d := range bag.Items() {
		for _, fix := range d.Fixes {
			if len(fix.Edits) == 0 {
				continue
			}
			if reason, code := validateFix(file, fix, accepted); reason != "" {
				skipped++
				bag.Add(diag.NewWarning(code, d.Primary,
					fmt.Sprintf("fix %q skipped: %s", fix.Title, reason)))
				continue
			}
			accepted = append(accepted, fix.Edits...)
			applied++
		}
	}

	if len(accepted) == 0 {
		return file.Content, applied, skipped
	}

	// back-to-front keeps earlier offsets valid
	sort.SliceStable(accepted, func(i, j int) bool {
		if accepted[i].Span.Start == accepted[j].Span.Start {
			return accepted[i].Span.End > accepted[j].Span.End
		}
		return accepted[i].Span.Start > accepted[j].Span.Start
	})

	working := append([]byte(nil), file.Content...)
	for _, edit := range accepted {
		start, end := int(edit.Span.Start), int(edit.Span.End)
		suffix := append([]byte(nil), working[end:]...)
		working = append(append(working[:start], []byte(edit.NewText)...), suffix...)
	}
	return working, applied, skipped
}

// validateFix checks one fix against the original content and the edits
// accepted so far. It returns a human-readable skip reason, or "" when the
// fix can be applied.
func validateFix(file *source.File, fix diag.Fix, accepted []diag.TextEdit) (string, diag.Code) {
	for i, edit := range fix.Edits {
		if edit.Span.File != file.ID {
			return "edit targets another file", diag.FixOutOfRange
		}
		if int(edit.Span.End) > len(file.Content) || edit.Span.Start > edit.Span.End {
			return "edit span out of range", diag.FixOutOfRange
		}
		if edit.OldText != "" && string(file.Content[edit.Span.Start:edit.Span.End]) != edit.OldText {
			return "target text does not match expected content", diag.FixStaleContent
		}
		for _, prev := range accepted {
			if edit.Span.Overlaps(prev.Span) {
				return "overlaps an already applied fix; will retry on the next run", diag.FixConflict
			}
		}
		for j := 0; j < i; j++ {
			if edit.Span.Overlaps(fix.Edits[j].Span) {
				return "fix edits overlap each other", diag.FixConflict
			}
		}
	}
	return "", diag.UnknownCode
}

func writePreservingMode(path string, content []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(path, content, mode); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

func unifiedDiff(before, after []byte, rel string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: "a/" + rel,
		ToFile:   "b/" + rel,
		Context:  3,
	})
}
