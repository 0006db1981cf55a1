package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store is a key-addressed file cache on disk. Keys look like
// "reciter/surah/ayah" and map directly to a file under the cache root.
//
// Writes go to a temp file first and are moved into place with an atomic
// rename, and each key carries its own lock, so two jobs populating the same
// verse concurrently cannot observe a half-written cache entry.
type Store struct {
	root string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewStore(root string) *Store {
	return &Store{
		root:  root,
		locks: make(map[string]*sync.Mutex),
	}
}

// keyLock returns the mutex guarding a single cache key.
func (s *Store) keyLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// path maps a key to its on-disk location. Keys use forward slashes; path
// separators inside a key become subdirectories.
func (s *Store) path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

// Has reports whether a cache entry exists for the key.
func (s *Store) Has(key string) bool {
	info, err := os.Stat(s.path(key))
	return err == nil && !info.IsDir()
}

// CopyTo copies the cache entry for key to dst. The cache copy itself is
// never handed out directly: per-run copies are deleted by job cleanup, cache
// copies must survive it.
func (s *Store) CopyTo(key, dst string) error {
	l := s.keyLock(key)
	l.Lock()
	defer l.Unlock()

	src, err := os.Open(s.path(key))
	if err != nil {
		return fmt.Errorf("failed to open cache entry %s: %w", key, err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("failed to copy cache entry %s: %w", key, err)
	}

	return out.Close()
}

// Put writes data under key with write-then-rename semantics.
func (s *Store) Put(key string, r io.Reader) error {
	l := s.keyLock(key)
	l.Lock()
	defer l.Unlock()

	final := s.path(key)
	if err := os.MkdirAll(filepath.Dir(final), 0755); err != nil {
		return fmt.Errorf("failed to create cache subdir for %s: %w", key, err)
	}

	// Temp file in the same directory so the rename stays on one filesystem
	tmp, err := os.CreateTemp(filepath.Dir(final), "."+sanitize(filepath.Base(final))+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache entry %s: %w", key, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp cache file: %w", err)
	}

	if err := os.Rename(tmp.Name(), final); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to publish cache entry %s: %w", key, err)
	}

	return nil
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return '_'
		}
		return r
	}, name)
}
