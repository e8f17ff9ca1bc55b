package rescache

import (
	"glint/internal/diag"
	"glint/internal/source"
)

// Cached diagnostics carry byte offsets only. FileIDs are per-run and are
// rebound when an entry is read back.

type cachedEntry struct {
	Schema int          `msgpack:"schema"`
	Diags  []cachedDiag `msgpack:"diags"`
}

type cachedDiag struct {
	Severity uint8        `msgpack:"sev"`
	Code     uint16       `msgpack:"code"`
	Message  string       `msgpack:"msg"`
	Start    uint32       `msgpack:"start"`
	End      uint32       `msgpack:"end"`
	Notes    []cachedNote `msgpack:"notes,omitempty"`
	Fixes    []cachedFix  `msgpack:"fixes,omitempty"`
}

type cachedNote struct {
	Start uint32 `msgpack:"start"`
	End   uint32 `msgpack:"end"`
	Msg   string `msgpack:"msg"`
}

type cachedFix struct {
	Title string       `msgpack:"title"`
	Edits []cachedEdit `msgpack:"edits"`
}

type cachedEdit struct {
	Start   uint32 `msgpack:"start"`
	End     uint32 `msgpack:"end"`
	NewText string `msgpack:"new"`
	OldText string `msgpack:"old,omitempty"`
}

func fromDiagnostic(d diag.Diagnostic) cachedDiag {
	cd := cachedDiag{
		Severity: uint8(d.Severity),
		Code:     uint16(d.Code),
		Message:  d.Message,
		Start:    d.Primary.Start,
		End:      d.Primary.End,
	}
	for _, n := range d.Notes {
		cd.Notes = append(cd.Notes, cachedNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
	}
	for _, f := range d.Fixes {
		cf := cachedFix{Title: f.Title}
		for _, e := range f.Edits {
			cf.Edits = append(cf.Edits, cachedEdit{
				Start:   e.Span.Start,
				End:     e.Span.End,
				NewText: e.NewText,
				OldText: e.OldText,
			})
		}
		cd.Fixes = append(cd.Fixes, cf)
	}
	return cd
}

func (cd cachedDiag) toDiagnostic(id source.FileID) diag.Diagnostic {
	d := diag.New(diag.Severity(cd.Severity), diag.Code(cd.Code),
		source.Span{File: id, Start: cd.Start, End: cd.End}, cd.Message)
	for _, n := range cd.Notes {
		d = d.WithNote(source.Span{File: id, Start: n.Start, End: n.End}, n.Msg)
	}
	for _, f := range cd.Fixes {
		edits := make([]diag.TextEdit, 0, len(f.Edits))
		for _, e := range f.Edits {
			edits = append(edits, diag.TextEdit{
				Span:    source.Span{File: id, Start: e.Start, End: e.End},
				NewText: e.NewText,
				OldText: e.OldText,
			})
		}
		d = d.WithFix(f.Title, edits...)
	}
	return d
}
