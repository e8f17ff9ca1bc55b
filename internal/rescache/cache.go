// Package rescache persists per-file lint results across runs. Entries are
// keyed by content hash plus configuration digest, so any edit to the file
// or to glint.toml invalidates them without explicit bookkeeping. A small
// in-memory LRU fronts the msgpack files on disk.
package rescache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"

	"glint/internal/diag"
	"glint/internal/source"
)

// schemaVersion invalidates every entry written by an incompatible build.
const schemaVersion = 1

// memEntries bounds the in-memory layer; disk is unbounded.
const memEntries = 4096

// Store is a two-level result cache. Safe for concurrent use: the LRU is
// internally locked and disk writes go through temp-and-rename.
type Store struct {
	dir    string
	digest [32]byte
	mem    *lru.Cache[string, []cachedDiag]
	log    logrus.FieldLogger
}

// DefaultDir returns the per-user cache directory.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache dir: %w", err)
	}
	return filepath.Join(base, "glint"), nil
}

// Open prepares a store rooted at dir for the given configuration digest.
func Open(dir string, digest [32]byte, log logrus.FieldLogger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	mem, err := lru.New[string, []cachedDiag](memEntries)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store{dir: dir, digest: digest, mem: mem, log: log}, nil
}

// Get returns the cached diagnostics for the file's current content, rebound
// to the file's ID in this run. Any read or decode problem is a miss.
func (s *Store) Get(file *source.File) (*diag.Bag, bool) {
	key := s.key(file.Hash)

	diags, ok := s.mem.Get(key)
	if !ok {
		data, err := os.ReadFile(s.path(key))
		if err != nil {
			return nil, false
		}
		var entry cachedEntry
		if err := msgpack.Unmarshal(data, &entry); err != nil || entry.Schema != schemaVersion {
			s.log.WithField("key", key).Debug("cache entry discarded")
			return nil, false
		}
		diags = entry.Diags
		s.mem.Add(key, diags)
	}

	bag := diag.NewBag(max(len(diags), 1))
	for _, cd := range diags {
		bag.Add(cd.toDiagnostic(file.ID))
	}
	return bag, true
}

// Put stores the bag for the file's current content. Failures are logged
// and swallowed: a broken cache only costs recomputation.
func (s *Store) Put(file *source.File, bag *diag.Bag) {
	key := s.key(file.Hash)
	entry := cachedEntry{Schema: schemaVersion}
	for _, d := range bag.Items() {
		entry.Diags = append(entry.Diags, fromDiagnostic(d))
	}

	s.mem.Add(key, entry.Diags)

	data, err := msgpack.Marshal(entry)
	if err != nil {
		s.log.WithError(err).Debug("cache encode failed")
		return
	}
	if err := s.writeAtomic(key, data); err != nil {
		s.log.WithError(err).Debug("cache write failed")
	}
}

func (s *Store) key(contentHash [32]byte) string {
	h := sha256.New()
	h.Write(contentHash[:])
	h.Write(s.digest[:])
	return hex.EncodeToString(h.Sum(nil))
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".msgpack")
}

// writeAtomic publishes via rename so a concurrent reader never observes a
// half-written entry.
func (s *Store) writeAtomic(key string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, key+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
