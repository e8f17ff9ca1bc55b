package source

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet("")

	id := fs.AddVirtual("a.txt", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("expected FileVirtual flag to be set")
	}
}

func TestLoadNormalizesCRLFAndBOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.txt")
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("one\r\ntwo\r\n")...)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet(dir)
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	file := fs.Get(id)

	if string(file.Content) != "one\ntwo\n" {
		t.Errorf("expected normalized content, got %q", string(file.Content))
	}
	if file.Flags&FileHadBOM == 0 {
		t.Error("expected FileHadBOM flag")
	}
	if file.Flags&FileNormalizedCRLF == 0 {
		t.Error("expected FileNormalizedCRLF flag")
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet("")
	id := fs.AddVirtual("b.txt", []byte("alpha\nbeta\ngamma\n"))

	cases := []struct {
		off  uint32
		line uint32
		col  uint32
	}{
		{0, 1, 1},
		{4, 1, 5},
		{6, 2, 1},
		{11, 3, 1},
		{13, 3, 3},
	}
	for _, tc := range cases {
		start, _ := fs.Resolve(Span{File: id, Start: tc.off, End: tc.off})
		if start.Line != tc.line || start.Col != tc.col {
			t.Errorf("offset %d: expected %d:%d, got %d:%d", tc.off, tc.line, tc.col, start.Line, start.Col)
		}
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet("")
	id := fs.AddVirtual("c.txt", []byte("first\nsecond\nthird"))
	file := fs.Get(id)

	if got := file.GetLine(1); got != "first" {
		t.Errorf("line 1: got %q", got)
	}
	if got := file.GetLine(2); got != "second" {
		t.Errorf("line 2: got %q", got)
	}
	if got := file.GetLine(3); got != "third" {
		t.Errorf("line 3: got %q", got)
	}
	if got := file.GetLine(4); got != "" {
		t.Errorf("line 4: expected empty, got %q", got)
	}
}

func TestConcurrentAdd(t *testing.T) {
	fs := NewFileSet("")

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			fs.AddVirtual("f.txt", []byte("content"))
		}(i)
	}
	wg.Wait()

	if fs.Len() != 32 {
		t.Fatalf("expected 32 files, got %d", fs.Len())
	}
}
