package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"glint/internal/apply"
	"glint/internal/diag"
	"glint/internal/source"
	"glint/internal/workspace"
)

type fakeParser struct {
	fn func(ctx context.Context, file *source.File, rep diag.Reporter) (Tree, error)
}

func (p fakeParser) Parse(ctx context.Context, file *source.File, rep diag.Reporter) (Tree, error) {
	if p.fn == nil {
		return struct{}{}, nil
	}
	return p.fn(ctx, file, rep)
}

type fakeLinter struct {
	fn func(ctx context.Context, file *source.File, tree Tree, facts Facts, rep diag.Reporter) error
}

func (l fakeLinter) Lint(ctx context.Context, file *source.File, tree Tree, facts Facts, rep diag.Reporter) error {
	if l.fn == nil {
		return nil
	}
	return l.fn(ctx, file, tree, facts, rep)
}

func tempEntry(t *testing.T, content string) workspace.Entry {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return workspace.Entry{ID: 1, Path: path, Rel: "f.txt"}
}

func TestProcessCompletes(t *testing.T) {
	entry := tempEntry(t, "hello\n")
	r := &Runner{
		Files: source.NewFileSet(""),
		Tools: Toolchain{
			Parser: fakeParser{},
			Linter: fakeLinter{fn: func(_ context.Context, file *source.File, _ Tree, _ Facts, rep diag.Reporter) error {
				rep.Report(diag.NewWarning(diag.LintTodoMarker,
					source.Span{File: file.ID, Start: 0, End: 5}, "marker"))
				return nil
			}},
		},
	}

	out := r.Process(context.Background(), entry)
	if out.Failed() {
		t.Fatalf("unexpected failure: cause=%s err=%v", out.Cause, out.Err)
	}
	if out.Bag.Len() != 1 {
		t.Fatalf("bag len = %d, want 1", out.Bag.Len())
	}
	if out.HasErrors() {
		t.Fatal("warning-only outcome must not count as error")
	}
}

func TestProcessParseFailureIsolated(t *testing.T) {
	entry := tempEntry(t, "\x00binary")
	r := &Runner{
		Files: source.NewFileSet(""),
		Tools: Toolchain{
			Parser: fakeParser{fn: func(_ context.Context, file *source.File, rep diag.Reporter) (Tree, error) {
				rep.Report(diag.NewError(diag.ParseBinaryInput,
					source.Span{File: file.ID}, "NUL byte in input"))
				return nil, errors.New("unparseable input")
			}},
		},
	}

	out := r.Process(context.Background(), entry)
	if !out.Failed() || out.Cause != CauseParse {
		t.Fatalf("status=%s cause=%s, want failed/parse", out.Status, out.Cause)
	}
	if !out.Bag.HasErrors() {
		t.Fatal("parse failure must carry an error diagnostic")
	}
}

func TestProcessMissingFile(t *testing.T) {
	entry := workspace.Entry{ID: 1, Path: filepath.Join(t.TempDir(), "gone.txt"), Rel: "gone.txt"}
	r := &Runner{Files: source.NewFileSet(""), Tools: Toolchain{Parser: fakeParser{}}}

	out := r.Process(context.Background(), entry)
	if !out.Failed() || out.Cause != CauseRead {
		t.Fatalf("status=%s cause=%s, want failed/read", out.Status, out.Cause)
	}
	var found bool
	for _, d := range out.Bag.Items() {
		if d.Code == diag.IOReadFileError {
			found = true
		}
	}
	if !found {
		t.Fatal("read failure must produce an IO diagnostic")
	}
}

func TestProcessTimeout(t *testing.T) {
	entry := tempEntry(t, "slow\n")
	r := &Runner{
		Files: source.NewFileSet(""),
		Opts:  Options{Timeout: 20 * time.Millisecond},
		Tools: Toolchain{
			Parser: fakeParser{fn: func(ctx context.Context, _ *source.File, _ diag.Reporter) (Tree, error) {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(5 * time.Second):
					return struct{}{}, nil
				}
			}},
		},
	}

	out := r.Process(context.Background(), entry)
	if !out.Failed() || out.Cause != CauseTimeout {
		t.Fatalf("status=%s cause=%s, want failed/timeout", out.Status, out.Cause)
	}
	var found bool
	for _, d := range out.Bag.Items() {
		if d.Code == diag.RunTimeout {
			found = true
		}
	}
	if !found {
		t.Fatal("timeout must produce a RunTimeout diagnostic")
	}
}

func TestProcessPanicRecovered(t *testing.T) {
	entry := tempEntry(t, "boom\n")
	r := &Runner{
		Files: source.NewFileSet(""),
		Tools: Toolchain{
			Parser: fakeParser{},
			Linter: fakeLinter{fn: func(context.Context, *source.File, Tree, Facts, diag.Reporter) error {
				panic("rule blew up")
			}},
		},
	}

	out := r.Process(context.Background(), entry)
	if !out.Failed() || out.Cause != CauseInternal {
		t.Fatalf("status=%s cause=%s, want failed/internal", out.Status, out.Cause)
	}
	var found bool
	for _, d := range out.Bag.Items() {
		if d.Code == diag.RunPanic {
			found = true
		}
	}
	if !found {
		t.Fatal("panic must produce a RunPanic diagnostic")
	}
}

func TestProcessParentCancellation(t *testing.T) {
	entry := tempEntry(t, "x\n")
	r := &Runner{
		Files: source.NewFileSet(""),
		Opts:  Options{Timeout: time.Minute},
		Tools: Toolchain{Parser: fakeParser{}},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := r.Process(ctx, entry)
	if !out.Failed() || out.Cause != CauseCancelled {
		t.Fatalf("status=%s cause=%s, want failed/cancelled", out.Status, out.Cause)
	}
}

type mapCache struct {
	bags map[[32]byte]*diag.Bag
	gets int
}

func (c *mapCache) Get(file *source.File) (*diag.Bag, bool) {
	c.gets++
	bag, ok := c.bags[file.Hash]
	return bag, ok
}

func (c *mapCache) Put(file *source.File, bag *diag.Bag) {
	c.bags[file.Hash] = bag
}

func TestProcessCacheHitSkipsStages(t *testing.T) {
	entry := tempEntry(t, "cached\n")
	cache := &mapCache{bags: make(map[[32]byte]*diag.Bag)}

	var parses int
	r := &Runner{
		Files: source.NewFileSet(""),
		Cache: cache,
		Tools: Toolchain{
			Parser: fakeParser{fn: func(context.Context, *source.File, diag.Reporter) (Tree, error) {
				parses++
				return struct{}{}, nil
			}},
		},
	}

	first := r.Process(context.Background(), entry)
	if first.FromCache || parses != 1 {
		t.Fatalf("first run: fromCache=%v parses=%d", first.FromCache, parses)
	}
	second := r.Process(context.Background(), entry)
	if !second.FromCache {
		t.Fatal("second run must hit the cache")
	}
	if parses != 1 {
		t.Fatalf("parser ran %d times, want 1", parses)
	}
}

func TestProcessAppliesFixesAtTail(t *testing.T) {
	entry := tempEntry(t, "bad text\n")
	r := &Runner{
		Files: source.NewFileSet(""),
		Opts:  Options{FixEnabled: true},
		Tools: Toolchain{
			Parser: fakeParser{},
			Linter: fakeLinter{fn: func(_ context.Context, file *source.File, _ Tree, _ Facts, rep diag.Reporter) error {
				span := source.Span{File: file.ID, Start: 0, End: 3}
				rep.Report(diag.NewWarning(diag.LintTrailingWhitespace, span, "bad word").
					WithFix("replace", diag.TextEdit{Span: span, NewText: "ok!", OldText: "bad"}))
				return nil
			}},
		},
		Applicator: &apply.Applicator{Mode: apply.ModeCheck, Fix: true},
	}

	out := r.Process(context.Background(), entry)
	if out.Failed() {
		t.Fatalf("unexpected failure: %v", out.Err)
	}
	if !out.WouldChange {
		t.Fatal("check mode with an applied fix must report a pending change")
	}
	if out.FixesApplied != 1 {
		t.Fatalf("FixesApplied = %d, want 1", out.FixesApplied)
	}
	if out.Diff == "" {
		t.Fatal("check mode must carry a diff")
	}
	got, err := os.ReadFile(entry.Path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "bad text\n" {
		t.Fatal("check mode must not modify the file on disk")
	}
}
