// Package file implements the spec-mandated default Module Cache backend:
// <workspace>/.chigraphcache/<escaped-fullName>.bc, grounded on the
// teacher's file-based checkpoint store (store/file) generalized from
// per-checkpoint JSON blobs to one bitcode blob per module, keyed by the
// file's own mtime rather than a field inside it.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chigraph/chigraph/cache"
	"github.com/chigraph/chigraph/mangle"
)

// Store persists one .bc file per module under dir.
type Store struct {
	dir string
}

// New creates a file-backed cache store rooted at dir, creating dir if it
// doesn't already exist.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache/file: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(fullName string) string {
	return filepath.Join(s.dir, mangle.EscapeModuleName(fullName)+".bc")
}

// Save writes entry.Bitcode to its on-disk path. The file's own mtime is
// the freshness timestamp: when entry.ModTime is set, Save stamps the file
// with it via os.Chtimes; when it is zero, the file keeps the time of the
// write.
func (s *Store) Save(ctx context.Context, entry *cache.Entry) error {
	path := s.path(entry.ModuleFullName)
	if err := os.WriteFile(path, entry.Bitcode, 0o644); err != nil {
		return fmt.Errorf("cache/file: save %s: %w", entry.ModuleFullName, err)
	}
	if !entry.ModTime.IsZero() {
		if err := os.Chtimes(path, entry.ModTime, entry.ModTime); err != nil {
			return fmt.Errorf("cache/file: chtimes %s: %w", entry.ModuleFullName, err)
		}
	}
	return nil
}

// Retrieve implements the spec §4.E freshness rule: a cache miss (whether
// because the file doesn't exist or because it isn't strictly newer than
// mustBeNewerThan) is reported as (nil, nil), never an error.
func (s *Store) Retrieve(ctx context.Context, fullName string, mustBeNewerThan time.Time) (*cache.Entry, error) {
	path := s.path(fullName)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache/file: stat %s: %w", fullName, err)
	}

	if !cache.IsFresh(info.ModTime(), mustBeNewerThan) {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cache/file: read %s: %w", fullName, err)
	}

	return &cache.Entry{ModuleFullName: fullName, Bitcode: data, ModTime: info.ModTime()}, nil
}

// Invalidate deletes the cache file, per spec §4.E ("invalidation deletes
// the file"). Deleting an already-absent file is not an error.
func (s *Store) Invalidate(ctx context.Context, fullName string) error {
	err := os.Remove(s.path(fullName))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("cache/file: invalidate %s: %w", fullName, err)
	}
	return nil
}

var _ cache.Store = (*Store)(nil)
