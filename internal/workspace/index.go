// Package workspace discovers the set of source files a run processes.
//
// The index is a producer: it walks the root concurrently with processing
// and feeds discovered entries into a bounded channel, closing it when the
// walk is done. Unreadable entries become discovery diagnostics instead of
// aborting the walk; only a missing root is fatal.
package workspace

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"glint/internal/diag"
	"glint/internal/project"
	"glint/internal/source"
)

// EntryID is the stable per-run identity of one discovered file.
type EntryID uint32

// Entry identifies one discovered source file. Unique per run: two walk
// paths reaching the same physical file collapse into a single Entry.
type Entry struct {
	ID    EntryID
	Path  string // absolute path used for I/O
	Rel   string // slash-separated path relative to the root, for reports
	Canon string // symlink-resolved path used for dedup
}

// Walked summarises a finished walk.
type Walked struct {
	Discovered  int
	Diagnostics []diag.Diagnostic
}

// Index walks a workspace root and produces deduplicated file entries.
type Index struct {
	root     string
	matcher  *matcher
	follow   bool
	seen     map[string]EntryID
	nextID   EntryID
	walked   Walked
	maxDepth int
}

// symlink chains deeper than this are treated as cycles
const maxSymlinkDepth = 16

// NewIndex compiles the workspace patterns and prepares a walk of root.
func NewIndex(root string, cfg project.WorkspaceConfig) (*Index, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("workspace root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("workspace root %q is not a directory", abs)
	}
	m, err := newMatcher(cfg.Include, cfg.Exclude)
	if err != nil {
		return nil, err
	}
	return &Index{
		root:     abs,
		matcher:  m,
		follow:   cfg.FollowSymlinks,
		seen:     make(map[string]EntryID),
		maxDepth: maxSymlinkDepth,
	}, nil
}

// Root returns the absolute workspace root.
func (ix *Index) Root() string { return ix.root }

// Walk discovers files and sends them to out, which is closed before Walk
// returns. Discovery-level failures are collected as diagnostics in the
// returned Walked. Cancelling ctx stops the walk promptly.
func (ix *Index) Walk(ctx context.Context, out chan<- Entry) Walked {
	defer close(out)

	ix.walkDir(ctx, ix.root, "", 0, out)
	return ix.walked
}

func (ix *Index) walkDir(ctx context.Context, dir, relBase string, depth int, out chan<- Entry) {
	if depth > ix.maxDepth {
		ix.report(diag.DiscoverSymlink, fmt.Sprintf("%s: symlink nesting too deep, possible cycle", dir))
		return
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return fs.SkipAll
		}
		if err != nil {
			ix.report(diag.DiscoverEntry, fmt.Sprintf("%s: %v", path, err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel := ix.relPath(path, dir, relBase)
		switch {
		case d.IsDir():
			if rel != "" && ix.matcher.pruneDir(rel) {
				return fs.SkipDir
			}
			return nil
		case d.Type()&fs.ModeSymlink != 0:
			ix.visitSymlink(ctx, path, rel, depth, out)
			return nil
		case !d.Type().IsRegular():
			return nil
		default:
			ix.visitFile(ctx, path, rel, out)
			return nil
		}
	})
	if err != nil {
		ix.report(diag.DiscoverEntry, fmt.Sprintf("%s: %v", dir, err))
	}
}

func (ix *Index) visitSymlink(ctx context.Context, path, rel string, depth int, out chan<- Entry) {
	if !ix.follow {
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		ix.report(diag.DiscoverSymlink, fmt.Sprintf("%s: %v", path, err))
		return
	}
	if info.IsDir() {
		ix.walkDir(ctx, path, rel, depth+1, out)
		return
	}
	if info.Mode().IsRegular() {
		ix.visitFile(ctx, path, rel, out)
	}
}

func (ix *Index) visitFile(ctx context.Context, path, rel string, out chan<- Entry) {
	if !ix.matcher.match(rel) {
		return
	}

	canon, err := filepath.EvalSymlinks(path)
	if err != nil {
		ix.report(diag.DiscoverEntry, fmt.Sprintf("%s: %v", path, err))
		return
	}
	if _, dup := ix.seen[canon]; dup {
		return
	}
	id := ix.nextID
	ix.nextID++
	ix.seen[canon] = id

	entry := Entry{ID: id, Path: path, Rel: rel, Canon: canon}
	select {
	case out <- entry:
		ix.walked.Discovered++
	case <-ctx.Done():
	}
}

// relPath maps an absolute walk path onto the report-facing relative path.
// relBase carries the link-side prefix when the walk descended a symlink.
func (ix *Index) relPath(path, dir, relBase string) string {
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == "." {
		return relBase
	}
	rel = filepath.ToSlash(rel)
	if relBase == "" {
		return rel
	}
	return relBase + "/" + rel
}

func (ix *Index) report(code diag.Code, msg string) {
	ix.walked.Diagnostics = append(ix.walked.Diagnostics, diag.NewWarning(code, source.Span{}, msg))
}
