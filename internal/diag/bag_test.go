package diag

import (
	"testing"

	"glint/internal/source"
)

func TestBagCap(t *testing.T) {
	b := NewBag(2)

	if !b.Add(New(SevWarning, LintLineTooLong, source.Span{}, "one")) {
		t.Fatal("first Add must succeed")
	}
	if !b.Add(New(SevWarning, LintLineTooLong, source.Span{}, "two")) {
		t.Fatal("second Add must succeed")
	}
	if b.Add(New(SevWarning, LintLineTooLong, source.Span{}, "three")) {
		t.Fatal("Add over cap must fail")
	}
	if b.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", b.Len())
	}
}

func TestBagLargeCap(t *testing.T) {
	b := NewBag(65536)
	if b.Cap() != 65536 {
		t.Fatalf("cap = %d, want 65536", b.Cap())
	}
	if !b.Add(New(SevError, ParseInvalidUTF8, source.Span{}, "kept")) {
		t.Fatal("Add under a large cap must succeed")
	}
	if b.Len() != 1 {
		t.Fatalf("expected 1 item, got %d", b.Len())
	}

	small := NewBag(1)
	small.Add(New(SevWarning, LintLineTooLong, source.Span{}, "w"))
	b.Merge(small)
	if b.Cap() != 65536 {
		t.Fatalf("merge shrank the cap to %d", b.Cap())
	}
}

func TestBagSortStageThenLocation(t *testing.T) {
	b := NewBag(10)
	// emitted out of order on purpose
	b.Add(New(SevWarning, LintTrailingWhitespace, source.Span{Start: 40, End: 42}, "lint late"))
	b.Add(New(SevError, ParseInvalidUTF8, source.Span{Start: 90, End: 91}, "parse"))
	b.Add(New(SevWarning, LintTrailingWhitespace, source.Span{Start: 10, End: 12}, "lint early"))
	b.Add(New(SevWarning, FixConflict, source.Span{Start: 5, End: 6}, "fix conflict"))

	b.Sort()

	got := make([]Code, 0, b.Len())
	for _, d := range b.Items() {
		got = append(got, d.Code)
	}
	want := []Code{ParseInvalidUTF8, LintTrailingWhitespace, LintTrailingWhitespace, FixConflict}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i].ID(), got[i].ID())
		}
	}
	// within the lint stage the earlier span comes first
	if b.Items()[1].Message != "lint early" {
		t.Errorf("expected location order inside a stage, got %q first", b.Items()[1].Message)
	}
}

func TestBagCounts(t *testing.T) {
	b := NewBag(10)
	b.Add(New(SevError, ParseInvalidUTF8, source.Span{}, "e"))
	b.Add(New(SevWarning, LintLineTooLong, source.Span{}, "w"))
	b.Add(New(SevWarning, LintBlankLines, source.Span{}, "w2"))
	b.Add(New(SevInfo, LintTodoMarker, source.Span{}, "i"))

	errs, warns, infos := b.CountBySeverity()
	if errs != 1 || warns != 2 || infos != 1 {
		t.Fatalf("counts = %d/%d/%d, want 1/2/1", errs, warns, infos)
	}
	if !b.HasErrors() {
		t.Error("HasErrors must be true")
	}
}

func TestCodeID(t *testing.T) {
	cases := []struct {
		code Code
		id   string
	}{
		{IOReadFileError, "IO1001"},
		{ParseInvalidUTF8, "PAR2001"},
		{LintTrailingWhitespace, "LNT3001"},
		{FixConflict, "FIX4001"},
		{RunTimeout, "RUN5001"},
		{UnknownCode, "E0000"},
	}
	for _, tc := range cases {
		if got := tc.code.ID(); got != tc.id {
			t.Errorf("%d.ID() = %q, want %q", tc.code, got, tc.id)
		}
	}
}
