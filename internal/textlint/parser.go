// Package textlint is the built-in toolchain for plain text: a structural
// parser, a marker analyzer, whitespace and length rules with fixes, and a
// normalizing formatter.
package textlint

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"glint/internal/diag"
	"glint/internal/pipeline"
	"glint/internal/source"
)

// Document is the parsed form of a text file: line spans over the
// normalized content. Line spans exclude the trailing newline byte.
type Document struct {
	Lines        []Line
	FinalNewline bool
}

// Line is one physical line. Blank means empty or whitespace-only.
type Line struct {
	Span  source.Span
	Blank bool
}

// ErrUnsupportedContent marks input the toolchain refuses to process.
var ErrUnsupportedContent = errors.New("unsupported content")

// Parser validates encoding and splits content into lines. Binary input and
// invalid UTF-8 are fatal for the file: the parser reports a diagnostic and
// returns an error so later stages are skipped.
type Parser struct{}

func (Parser) Parse(_ context.Context, file *source.File, rep diag.Reporter) (pipeline.Tree, error) {
	content := file.Content

	if idx := bytes.IndexByte(content, 0); idx >= 0 {
		off := mustU32(idx)
		rep.Report(diag.NewError(diag.ParseBinaryInput,
			source.Span{File: file.ID, Start: off, End: off + 1},
			"file contains a NUL byte and looks binary"))
		return nil, fmt.Errorf("%w: NUL byte at offset %d", ErrUnsupportedContent, idx)
	}
	if !utf8.Valid(content) {
		off := invalidUTF8Offset(content)
		rep.Report(diag.NewError(diag.ParseInvalidUTF8,
			source.Span{File: file.ID, Start: off, End: off + 1},
			"file is not valid UTF-8"))
		return nil, fmt.Errorf("%w: invalid UTF-8 at offset %d", ErrUnsupportedContent, off)
	}

	return parseDocument(file), nil
}

func parseDocument(file *source.File) *Document {
	content := file.Content
	doc := &Document{
		FinalNewline: len(content) > 0 && content[len(content)-1] == '\n',
	}

	start := 0
	for i := 0; i <= len(content); i++ {
		if i < len(content) && content[i] != '\n' {
			continue
		}
		if i == len(content) && start == i {
			break // content ended exactly on a newline
		}
		span := source.Span{File: file.ID, Start: mustU32(start), End: mustU32(i)}
		doc.Lines = append(doc.Lines, Line{
			Span:  span,
			Blank: isBlank(content[start:i]),
		})
		start = i + 1
	}
	return doc
}

func isBlank(line []byte) bool {
	for _, b := range line {
		if b != ' ' && b != '\t' {
			return false
		}
	}
	return true
}

func invalidUTF8Offset(content []byte) uint32 {
	for i := 0; i < len(content); {
		r, size := utf8.DecodeRune(content[i:])
		if r == utf8.RuneError && size == 1 {
			return mustU32(i)
		}
		i += size
	}
	return 0
}

func mustU32(v int) uint32 {
	u, err := safecast.Conv[uint32](v)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	return u
}
