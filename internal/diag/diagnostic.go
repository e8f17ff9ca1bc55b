package diag

import (
	"glint/internal/source"
)

// Note attaches secondary context to a diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// TextEdit replaces the span with NewText. OldText, when set, is a guard the
// fix engine validates against the original content before applying.
type TextEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

// Fix is a candidate localized rewrite tied to the diagnostic that produced
// it. Edits are expressed in original-content coordinates.
type Fix struct {
	Title string
	Edits []TextEdit
}

// Diagnostic is a single structured finding. Immutable once produced.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func NewWarning(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevWarning, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithFix(title string, edits ...TextEdit) Diagnostic {
	d.Fixes = append(d.Fixes, Fix{Title: title, Edits: edits})
	return d
}

// Fixable reports whether the diagnostic carries at least one fix with edits.
func (d Diagnostic) Fixable() bool {
	for _, f := range d.Fixes {
		if len(f.Edits) > 0 {
			return true
		}
	}
	return false
}
