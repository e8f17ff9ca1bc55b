package diag

import (
	"fmt"

	"fortio.org/safecast"
)

// Code is a compact, stable identifier for a diagnostic kind. The numeric
// ranges group codes by the pipeline stage that produces them, which also
// gives diagnostics their stage-then-location presentation order.
type Code uint16

const (
	UnknownCode Code = 0

	// I/O and discovery (1000-1999)
	IOReadFileError  Code = 1001
	IOWriteFileError Code = 1002
	DiscoverEntry    Code = 1101
	DiscoverSymlink  Code = 1102

	// Parse (2000-2999)
	ParseInvalidUTF8 Code = 2001
	ParseBinaryInput Code = 2002

	// Lint (3000-3999)
	LintTrailingWhitespace Code = 3001
	LintNoFinalNewline     Code = 3002
	LintBlankLines         Code = 3003
	LintLineTooLong        Code = 3004
	LintTodoMarker         Code = 3005

	// Fix application (4000-4999)
	FixConflict     Code = 4001
	FixOutOfRange   Code = 4002
	FixStaleContent Code = 4003

	// Run-level (5000-5999)
	RunTimeout   Code = 5001
	RunCancelled Code = 5002
	RunPanic     Code = 5003
)

var codeDescription = map[Code]string{
	UnknownCode:            "unknown diagnostic",
	IOReadFileError:        "failed to read file",
	IOWriteFileError:       "failed to write file",
	DiscoverEntry:          "failed to read directory entry",
	DiscoverSymlink:        "failed to resolve symlink",
	ParseInvalidUTF8:       "file is not valid UTF-8",
	ParseBinaryInput:       "file looks binary",
	LintTrailingWhitespace: "trailing whitespace",
	LintNoFinalNewline:     "missing final newline",
	LintBlankLines:         "too many consecutive blank lines",
	LintLineTooLong:        "line exceeds the configured length",
	LintTodoMarker:         "task marker left in source",
	FixConflict:            "fix overlaps an already applied fix",
	FixOutOfRange:          "fix edit span out of range",
	FixStaleContent:        "fix target text does not match",
	RunTimeout:             "file processing exceeded the time budget",
	RunCancelled:           "run was cancelled",
	RunPanic:               "internal pipeline failure",
}

// ID renders the stable string form, e.g. LNT3001.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("PAR%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("LNT%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("FIX%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("RUN%04d", ic)
	}
	return "E0000"
}

// Stage returns the coarse pipeline stage rank encoded in the code range.
// It is the leading key of the in-file presentation order.
func (c Code) Stage() uint8 {
	rank, err := safecast.Conv[uint8](uint16(c) / 1000)
	if err != nil {
		return 0
	}
	return rank
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
