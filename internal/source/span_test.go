package source

import "testing"

func TestSpanOverlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b Span
		want bool
	}{
		{"disjoint", Span{0, 0, 5}, Span{0, 5, 10}, false},
		{"touching ranges do not overlap", Span{0, 0, 5}, Span{0, 5, 8}, false},
		{"partial overlap", Span{0, 0, 6}, Span{0, 4, 10}, true},
		{"containment", Span{0, 0, 10}, Span{0, 3, 4}, true},
		{"two empty spans", Span{0, 3, 3}, Span{0, 3, 3}, false},
		{"empty inside range", Span{0, 2, 2}, Span{0, 0, 5}, true},
		{"empty at range end", Span{0, 5, 5}, Span{0, 0, 5}, false},
		{"different files", Span{0, 0, 5}, Span{1, 0, 5}, false},
	}
	for _, tc := range cases {
		if got := tc.a.Overlaps(tc.b); got != tc.want {
			t.Errorf("%s: Overlaps = %v, want %v", tc.name, got, tc.want)
		}
		if got := tc.b.Overlaps(tc.a); got != tc.want {
			t.Errorf("%s (reversed): Overlaps = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 0, Start: 4, End: 8}
	b := Span{File: 0, Start: 2, End: 6}
	c := a.Cover(b)
	if c.Start != 2 || c.End != 8 {
		t.Errorf("expected 2-8, got %d-%d", c.Start, c.End)
	}

	other := Span{File: 1, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Errorf("cover across files must be a no-op, got %v", got)
	}
}
