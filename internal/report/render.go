package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"glint/internal/diag"
	"glint/internal/source"
)

// Renderer prints a summary as human-readable text.
type Renderer struct {
	Files     *source.FileSet
	Out       io.Writer
	Color     bool
	ShowDiffs bool
	Timings   bool

	errColor  *color.Color
	warnColor *color.Color
	infoColor *color.Color
	pathColor *color.Color
	dimColor  *color.Color
}

func NewRenderer(out io.Writer, files *source.FileSet, useColor bool) *Renderer {
	r := &Renderer{
		Files:     files,
		Out:       out,
		Color:     useColor,
		errColor:  color.New(color.FgRed, color.Bold),
		warnColor: color.New(color.FgYellow),
		infoColor: color.New(color.FgCyan),
		pathColor: color.New(color.Bold),
		dimColor:  color.New(color.Faint),
	}
	for _, c := range []*color.Color{r.errColor, r.warnColor, r.infoColor, r.pathColor, r.dimColor} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// Render writes diagnostics grouped by file, then diffs, then the footer.
func (r *Renderer) Render(s *Summary) error {
	for _, d := range s.Discovery {
		if err := r.renderDiagnostic("", d); err != nil {
			return err
		}
	}

	for i := range s.Outcomes {
		o := &s.Outcomes[i]
		if o.Bag != nil {
			for _, d := range o.Bag.Items() {
				if err := r.renderDiagnostic(o.Entry.Rel, d); err != nil {
					return err
				}
			}
		}
		if r.ShowDiffs && o.Diff != "" {
			if _, err := fmt.Fprintln(r.Out, o.Diff); err != nil {
				return err
			}
		}
	}
	return r.renderFooter(s)
}

func (r *Renderer) renderDiagnostic(rel string, d diag.Diagnostic) error {
	loc := r.location(rel, d.Primary)
	sev := r.severity(d.Severity)
	if _, err := fmt.Fprintf(r.Out, "%s %s [%s]: %s\n",
		r.pathColor.Sprint(loc+":"), sev, d.Code.ID(), d.Message); err != nil {
		return err
	}
	for _, note := range d.Notes {
		if _, err := fmt.Fprintf(r.Out, "  %s %s\n", r.dimColor.Sprint("note:"), note.Msg); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) location(rel string, span source.Span) string {
	if rel == "" {
		return "workspace"
	}
	if r.Files == nil {
		return rel
	}
	start, _ := r.Files.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", rel, start.Line, start.Col)
}

func (r *Renderer) severity(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return r.errColor.Sprint("error")
	case diag.SevWarning:
		return r.warnColor.Sprint("warning")
	default:
		return r.infoColor.Sprint("info")
	}
}

func (r *Renderer) renderFooter(s *Summary) error {
	var parts []string
	parts = append(parts, fmt.Sprintf("%d files", s.Discovered))
	if s.Failed > 0 {
		parts = append(parts, r.errColor.Sprintf("%d failed", s.Failed))
	}
	if s.Errors > 0 {
		parts = append(parts, r.errColor.Sprintf("%d errors", s.Errors))
	}
	if s.Warnings > 0 {
		parts = append(parts, r.warnColor.Sprintf("%d warnings", s.Warnings))
	}
	if s.Infos > 0 {
		parts = append(parts, fmt.Sprintf("%d infos", s.Infos))
	}
	if s.FilesChanged > 0 {
		parts = append(parts, fmt.Sprintf("%d files fixed", s.FilesChanged))
	}
	if s.FilesPending > 0 {
		parts = append(parts, r.warnColor.Sprintf("%d files would change", s.FilesPending))
	}
	if s.FixesSkipped > 0 {
		parts = append(parts, fmt.Sprintf("%d fixes deferred", s.FixesSkipped))
	}
	if s.CacheHits > 0 {
		parts = append(parts, r.dimColor.Sprintf("%d cached", s.CacheHits))
	}
	if s.Interrupted {
		parts = append(parts, r.errColor.Sprint("interrupted"))
	}

	line := strings.Join(parts, ", ")
	if r.Timings {
		line += r.dimColor.Sprintf(" (%s)", s.Elapsed.Round(time.Millisecond))
	}
	_, err := fmt.Fprintln(r.Out, line)
	return err
}
