package project

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
)

// WorkspaceConfig controls file discovery.
type WorkspaceConfig struct {
	Include        []string `toml:"include"`
	Exclude        []string `toml:"exclude"`
	FollowSymlinks bool     `toml:"follow_symlinks"`
}

// LinterConfig controls the canonical lint rules.
type LinterConfig struct {
	MaxLineLength int      `toml:"max_line_length"`
	MaxBlankLines int      `toml:"max_blank_lines"`
	Disabled      []string `toml:"disabled"`
}

// FormatterConfig controls the canonical formatter.
type FormatterConfig struct {
	MaxBlankLines int  `toml:"max_blank_lines"`
	FinalNewline  bool `toml:"final_newline"`
}

// Config is the already-validated configuration the core runs with.
// The CLI builds it from glint.toml plus flags; the core never re-validates.
type Config struct {
	Root      string
	Workspace WorkspaceConfig `toml:"workspace"`
	Linter    LinterConfig    `toml:"linter"`
	Formatter FormatterConfig `toml:"formatter"`
}

// Default returns the configuration used when no glint.toml exists.
func Default(root string) Config {
	return Config{
		Root: root,
		Workspace: WorkspaceConfig{
			Include:        []string{"**"},
			Exclude:        []string{".git/**", "**/.git/**"},
			FollowSymlinks: false,
		},
		Linter: LinterConfig{
			MaxLineLength: 120,
			MaxBlankLines: 2,
		},
		Formatter: FormatterConfig{
			MaxBlankLines: 2,
			FinalNewline:  true,
		},
	}
}

// RuleDisabled reports whether the named lint rule is switched off.
func (c LinterConfig) RuleDisabled(name string) bool {
	for _, d := range c.Disabled {
		if d == name {
			return true
		}
	}
	return false
}

// Digest hashes the analysis-relevant parts of the configuration. It keys
// the result cache together with file content, so any change to lint or
// formatter settings invalidates cached diagnostics.
func (c Config) Digest() [32]byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "line=%d;blank=%d;fblank=%d;fnl=%t;",
		c.Linter.MaxLineLength, c.Linter.MaxBlankLines,
		c.Formatter.MaxBlankLines, c.Formatter.FinalNewline)
	disabled := append([]string(nil), c.Linter.Disabled...)
	sort.Strings(disabled)
	for _, d := range disabled {
		sb.WriteString("off=" + d + ";")
	}
	return sha256.Sum256([]byte(sb.String()))
}
