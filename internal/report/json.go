package report

import (
	"encoding/json"
	"io"

	"glint/internal/pipeline"
	"glint/internal/source"
)

// jsonSummary is the machine-readable shape of a run.
type jsonSummary struct {
	Discovered   int           `json:"discovered"`
	Processed    int           `json:"processed"`
	Failed       int           `json:"failed"`
	Errors       int           `json:"errors"`
	Warnings     int           `json:"warnings"`
	Infos        int           `json:"infos"`
	FilesChanged int           `json:"files_changed,omitempty"`
	FilesPending int           `json:"files_pending,omitempty"`
	FixesApplied int           `json:"fixes_applied,omitempty"`
	FixesSkipped int           `json:"fixes_skipped,omitempty"`
	Interrupted  bool          `json:"interrupted,omitempty"`
	ElapsedMs    int64         `json:"elapsed_ms"`
	Files        []jsonFile    `json:"files"`
	Workspace    []jsonFinding `json:"workspace,omitempty"`
}

type jsonFile struct {
	Path     string        `json:"path"`
	Status   string        `json:"status"`
	Cause    string        `json:"cause,omitempty"`
	Changed  bool          `json:"changed,omitempty"`
	Pending  bool          `json:"pending,omitempty"`
	Findings []jsonFinding `json:"findings,omitempty"`
}

type jsonFinding struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Line     uint32 `json:"line,omitempty"`
	Col      uint32 `json:"col,omitempty"`
	Fixable  bool   `json:"fixable,omitempty"`
}

// WriteJSON renders the summary as a single JSON document.
func WriteJSON(out io.Writer, files *source.FileSet, s *Summary) error {
	doc := jsonSummary{
		Discovered:   s.Discovered,
		Processed:    s.Processed,
		Failed:       s.Failed,
		Errors:       s.Errors,
		Warnings:     s.Warnings,
		Infos:        s.Infos,
		FilesChanged: s.FilesChanged,
		FilesPending: s.FilesPending,
		FixesApplied: s.FixesApplied,
		FixesSkipped: s.FixesSkipped,
		Interrupted:  s.Interrupted,
		ElapsedMs:    s.Elapsed.Milliseconds(),
		Files:        make([]jsonFile, 0, len(s.Outcomes)),
	}
	for _, d := range s.Discovery {
		doc.Workspace = append(doc.Workspace, jsonFinding{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
		})
	}
	for i := range s.Outcomes {
		doc.Files = append(doc.Files, jsonOutcome(files, &s.Outcomes[i]))
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func jsonOutcome(files *source.FileSet, o *pipeline.Outcome) jsonFile {
	jf := jsonFile{
		Path:    o.Entry.Rel,
		Status:  o.Status.String(),
		Changed: o.Changed,
		Pending: o.WouldChange,
	}
	if o.Failed() {
		jf.Cause = o.Cause.String()
	}
	if o.Bag == nil {
		return jf
	}
	for _, d := range o.Bag.Items() {
		f := jsonFinding{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Fixable:  d.Fixable(),
		}
		if files != nil {
			start, _ := files.Resolve(d.Primary)
			f.Line, f.Col = start.Line, start.Col
		}
		jf.Findings = append(jf.Findings, f)
	}
	return jf
}
