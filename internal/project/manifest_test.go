package project

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadManifestDefaults(t *testing.T) {
	dir := t.TempDir()

	m, found, err := LoadManifest(dir)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if found {
		t.Fatal("expected no manifest")
	}
	if m.Config.Linter.MaxLineLength != 120 {
		t.Errorf("default max_line_length = %d", m.Config.Linter.MaxLineLength)
	}
	if len(m.Config.Workspace.Include) == 0 {
		t.Error("default include patterns missing")
	}
	if !m.Config.Formatter.FinalNewline {
		t.Error("default final_newline must be true")
	}
}

func TestLoadManifestParsesTables(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[workspace]
include = ["src/**/*.txt"]
exclude = ["src/vendor/**"]
follow_symlinks = true

[linter]
max_line_length = 80
disabled = ["todo"]

[formatter]
max_blank_lines = 1
final_newline = true
`)

	m, found, err := LoadManifest(dir)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if !found {
		t.Fatal("expected manifest to be found")
	}
	if m.Root != dir {
		t.Errorf("root = %q, want %q", m.Root, dir)
	}
	if m.Config.Linter.MaxLineLength != 80 {
		t.Errorf("max_line_length = %d", m.Config.Linter.MaxLineLength)
	}
	if !m.Config.Workspace.FollowSymlinks {
		t.Error("follow_symlinks not decoded")
	}
	if !m.Config.Linter.RuleDisabled("todo") {
		t.Error("disabled rule not decoded")
	}
	if m.Config.Linter.RuleDisabled("line-length") {
		t.Error("rule wrongly reported disabled")
	}
}

func TestLoadManifestRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[linter]\nmax_line_len = 80\n")

	if _, _, err := LoadManifest(dir); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[linter]\nmax_line_length = 100\n")
	nested := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	root, ok, err := FindRoot(nested)
	if err != nil {
		t.Fatalf("FindRoot: %v", err)
	}
	if !ok || root != dir {
		t.Fatalf("FindRoot = %q, %v; want %q", root, ok, dir)
	}
}

func TestConfigDigestChangesWithSettings(t *testing.T) {
	a := Default("/ws")
	b := Default("/ws")
	if a.Digest() != b.Digest() {
		t.Fatal("identical configs must share a digest")
	}
	b.Linter.MaxLineLength = 100
	if a.Digest() == b.Digest() {
		t.Fatal("digest must change with linter settings")
	}
	c := Default("/ws")
	c.Linter.Disabled = []string{"todo", "blank-lines"}
	d := Default("/ws")
	d.Linter.Disabled = []string{"blank-lines", "todo"}
	if c.Digest() != d.Digest() {
		t.Fatal("disabled-rule order must not affect the digest")
	}
}
