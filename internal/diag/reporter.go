package diag

import "glint/internal/source"

// Reporter is the minimal contract stages use to emit diagnostics without
// coupling to storage. Implementations: BagReporter (collects into a Bag),
// NopReporter.
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter writes every reported diagnostic into a Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(d)
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(Diagnostic) {}

// ReportError is a shortcut for emitting a SevError diagnostic.
func ReportError(r Reporter, code Code, primary source.Span, msg string) {
	if r == nil {
		return
	}
	r.Report(NewError(code, primary, msg))
}

// ReportWarning is a shortcut for emitting a SevWarning diagnostic.
func ReportWarning(r Reporter, code Code, primary source.Span, msg string) {
	if r == nil {
		return
	}
	r.Report(NewWarning(code, primary, msg))
}

// ReportInfo is a shortcut for emitting a SevInfo diagnostic.
func ReportInfo(r Reporter, code Code, primary source.Span, msg string) {
	if r == nil {
		return
	}
	r.Report(New(SevInfo, code, primary, msg))
}
