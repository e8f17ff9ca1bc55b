package textlint

import (
	"context"
	"fmt"

	"glint/internal/diag"
	"glint/internal/pipeline"
	"glint/internal/project"
	"glint/internal/source"
)

// Rule names as they appear in the manifest's [linter] disabled list.
const (
	RuleTrailingWhitespace = "trailing-whitespace"
	RuleFinalNewline       = "final-newline"
	RuleBlankLines         = "blank-lines"
	RuleLineLength         = "line-length"
	RuleTodo               = "todo"
)

// Linter evaluates the text rules over a Document. Every finding is
// reported with a span; fixable findings carry edits in original-content
// coordinates.
type Linter struct {
	Cfg     project.LinterConfig
	Strings *source.Interner
}

func (l *Linter) Lint(_ context.Context, file *source.File, tree pipeline.Tree, facts pipeline.Facts, rep diag.Reporter) error {
	doc, ok := tree.(*Document)
	if !ok {
		return fmt.Errorf("lint: unexpected tree %T", tree)
	}
	ff, _ := facts.(*FileFacts)

	if !l.Cfg.RuleDisabled(RuleTrailingWhitespace) {
		l.checkTrailingWhitespace(file, doc, rep)
	}
	if !l.Cfg.RuleDisabled(RuleFinalNewline) {
		l.checkFinalNewline(file, doc, rep)
	}
	if !l.Cfg.RuleDisabled(RuleBlankLines) {
		l.checkBlankLines(file, doc, rep)
	}
	if ff != nil && !l.Cfg.RuleDisabled(RuleLineLength) {
		l.checkLineLength(doc, ff, rep)
	}
	if ff != nil && !l.Cfg.RuleDisabled(RuleTodo) {
		l.checkMarkers(ff, rep)
	}
	return nil
}

func (l *Linter) checkTrailingWhitespace(file *source.File, doc *Document, rep diag.Reporter) {
	for _, line := range doc.Lines {
		text := file.Content[line.Span.Start:line.Span.End]
		trimmed := len(text)
		for trimmed > 0 && (text[trimmed-1] == ' ' || text[trimmed-1] == '\t') {
			trimmed--
		}
		if trimmed == len(text) || trimmed == 0 {
			// blank-only lines belong to the blank-lines rule
			continue
		}
		span := source.Span{
			File:  file.ID,
			Start: line.Span.Start + mustU32(trimmed),
			End:   line.Span.End,
		}
		rep.Report(diag.NewWarning(diag.LintTrailingWhitespace, span, "trailing whitespace").
			WithFix("remove trailing whitespace",
				diag.TextEdit{Span: span, OldText: string(text[trimmed:])}))
	}
}

func (l *Linter) checkFinalNewline(file *source.File, doc *Document, rep diag.Reporter) {
	if len(file.Content) == 0 || doc.FinalNewline {
		return
	}
	end := mustU32(len(file.Content))
	span := source.Span{File: file.ID, Start: end, End: end}
	rep.Report(diag.NewWarning(diag.LintNoFinalNewline, span, "file does not end with a newline").
		WithFix("add final newline", diag.TextEdit{Span: span, NewText: "\n"}))
}

func (l *Linter) checkBlankLines(file *source.File, doc *Document, rep diag.Reporter) {
	maxBlank := l.Cfg.MaxBlankLines
	run := 0
	for i := 0; i <= len(doc.Lines); i++ {
		if i < len(doc.Lines) && doc.Lines[i].Blank {
			run++
			continue
		}
		if run > maxBlank {
			first := i - run // first blank line of the run
			start := doc.Lines[first+maxBlank].Span.Start
			end := doc.Lines[i-1].Span.End
			if int(end) < len(file.Content) && file.Content[end] == '\n' {
				end++
			}
			span := source.Span{File: file.ID, Start: start, End: end}
			rep.Report(diag.NewWarning(diag.LintBlankLines, span,
				fmt.Sprintf("%d consecutive blank lines (max %d)", run, maxBlank)).
				WithFix("remove extra blank lines", diag.TextEdit{Span: span}))
		}
		run = 0
	}
}

func (l *Linter) checkLineLength(doc *Document, ff *FileFacts, rep diag.Reporter) {
	limit := l.Cfg.MaxLineLength
	if limit <= 0 {
		return
	}
	for i, line := range doc.Lines {
		if ff.LineWidths[i] <= limit {
			continue
		}
		rep.Report(diag.NewWarning(diag.LintLineTooLong, line.Span,
			fmt.Sprintf("line is %d columns wide (max %d)", ff.LineWidths[i], limit)))
	}
}

func (l *Linter) checkMarkers(ff *FileFacts, rep diag.Reporter) {
	for _, m := range ff.Markers {
		word := l.Strings.MustLookup(m.Word)
		rep.Report(diag.New(diag.SevInfo, diag.LintTodoMarker, m.Span,
			fmt.Sprintf("%s marker", word)))
	}
}
