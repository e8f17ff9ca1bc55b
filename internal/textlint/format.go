package textlint

import (
	"bytes"
	"context"

	"glint/internal/project"
	"glint/internal/source"
)

// Formatter normalizes text content: strips trailing whitespace, collapses
// blank-line runs and ensures a final newline. Idempotent: formatting
// already-formatted content returns it unchanged.
type Formatter struct {
	Cfg project.FormatterConfig
}

func (f *Formatter) Format(_ context.Context, _ *source.File, content []byte) ([]byte, error) {
	if len(content) == 0 {
		return content, nil
	}

	lines := bytes.Split(content, []byte("\n"))
	hadFinalNewline := len(lines) > 0 && len(lines[len(lines)-1]) == 0
	if hadFinalNewline {
		lines = lines[:len(lines)-1]
	}

	out := make([][]byte, 0, len(lines))
	blanks := 0
	for _, line := range lines {
		line = bytes.TrimRight(line, " \t")
		if len(line) == 0 {
			blanks++
			if blanks > f.Cfg.MaxBlankLines {
				continue
			}
		} else {
			blanks = 0
		}
		out = append(out, line)
	}

	// drop blank lines hanging at EOF
	for len(out) > 0 && len(out[len(out)-1]) == 0 {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return []byte{}, nil
	}

	result := bytes.Join(out, []byte("\n"))
	if f.Cfg.FinalNewline || hadFinalNewline {
		result = append(result, '\n')
	}
	return result, nil
}
