package textlint

import (
	"bytes"
	"context"
	"fmt"

	"github.com/mattn/go-runewidth"

	"glint/internal/diag"
	"glint/internal/pipeline"
	"glint/internal/source"
)

// markerWords are scanned verbatim; matches are interned once per run.
var markerWords = [][]byte{[]byte("TODO"), []byte("FIXME"), []byte("XXX")}

// Marker is one work-note occurrence found during analysis.
type Marker struct {
	Word source.StringID
	Span source.Span
}

// FileFacts carries the derived per-file data rules consume.
type FileFacts struct {
	Markers    []Marker
	LineWidths []int // display width per line, runewidth-based
}

// Analyzer derives facts from a parsed Document. The interner is shared
// across all pipelines of a run.
type Analyzer struct {
	Strings *source.Interner
}

func (a *Analyzer) Analyze(_ context.Context, file *source.File, tree pipeline.Tree, _ diag.Reporter) (pipeline.Facts, error) {
	doc, ok := tree.(*Document)
	if !ok {
		return nil, fmt.Errorf("analyze: unexpected tree %T", tree)
	}

	facts := &FileFacts{LineWidths: make([]int, len(doc.Lines))}
	for i, line := range doc.Lines {
		text := file.Content[line.Span.Start:line.Span.End]
		facts.LineWidths[i] = runewidth.StringWidth(string(text))
		if line.Blank {
			continue
		}
		a.scanMarkers(file, line, text, facts)
	}
	return facts, nil
}

func (a *Analyzer) scanMarkers(file *source.File, line Line, text []byte, facts *FileFacts) {
	for _, word := range markerWords {
		off := 0
		for {
			idx := bytes.Index(text[off:], word)
			if idx < 0 {
				break
			}
			start := line.Span.Start + mustU32(off+idx)
			facts.Markers = append(facts.Markers, Marker{
				Word: a.Strings.InternBytes(word),
				Span: source.Span{File: file.ID, Start: start, End: start + mustU32(len(word))},
			})
			off += idx + len(word)
		}
	}
}
