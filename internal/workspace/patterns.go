package workspace

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// matcher holds compiled include/exclude patterns. Patterns use '/' as the
// separator and match against root-relative paths; '**' crosses directory
// boundaries, '*' does not.
type matcher struct {
	include []glob.Glob
	exclude []glob.Glob
	// prune are directory prefixes derived from exclude patterns ending in
	// "/**", so excluded subtrees are skipped instead of walked and filtered.
	prune []glob.Glob
}

func newMatcher(include, exclude []string) (*matcher, error) {
	m := &matcher{}
	for _, pat := range include {
		g, err := glob.Compile(pat, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", pat, err)
		}
		m.include = append(m.include, g)
	}
	for _, pat := range exclude {
		g, err := glob.Compile(pat, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pat, err)
		}
		m.exclude = append(m.exclude, g)

		if prefix, ok := strings.CutSuffix(pat, "/**"); ok && prefix != "" {
			pg, err := glob.Compile(prefix, '/')
			if err != nil {
				return nil, fmt.Errorf("invalid exclude pattern %q: %w", pat, err)
			}
			m.prune = append(m.prune, pg)
		}
	}
	return m, nil
}

// match reports whether a file at rel should be processed.
func (m *matcher) match(rel string) bool {
	for _, g := range m.exclude {
		if g.Match(rel) {
			return false
		}
	}
	if len(m.include) == 0 {
		return true
	}
	for _, g := range m.include {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// pruneDir reports whether a directory subtree at rel can be skipped whole.
func (m *matcher) pruneDir(rel string) bool {
	for _, g := range m.prune {
		if g.Match(rel) {
			return true
		}
	}
	return false
}
