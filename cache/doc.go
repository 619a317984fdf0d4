// Package cache implements spec §4.E's Module Cache: content-timestamped
// persistence of compiled bitcode per module.
//
// Store is grounded directly on the teacher's store.CheckpointStore
// interface (store/checkpoint.go), narrowed to Save, Retrieve (load by key)
// and Invalidate (delete), and repurposed from "checkpoint of execution state" to "freshness-stamped
// blob of compiled bitcode". The spec mandates a file-based backend at
// <workspace>/.chigraphcache/<fullName>.bc; package cache/file implements
// that default, while cache/sqlite, cache/postgres, and cache/redis offer
// the same interface over the teacher's other three storage backends for
// workspaces that want a cache shared across machines.
package cache

import (
	"context"
	"time"
)

// Entry is one cached compilation artifact.
type Entry struct {
	ModuleFullName string
	Bitcode        []byte
	// ModTime is the timestamp used by the freshness rule in spec §4.E: a
	// cache entry is valid iff ModTime is strictly greater than the source
	// file's modification time and strictly greater than the freshness
	// timestamp of every transitive dependency.
	ModTime time.Time
}

// Store is the persistence boundary for compiled bitcode.
type Store interface {
	// Save persists entry, overwriting any existing entry for the same
	// module.
	Save(ctx context.Context, entry *Entry) error

	// Retrieve returns the cached entry for fullName iff its ModTime is
	// strictly greater than mustBeNewerThan; otherwise it returns
	// (nil, nil) — a cache miss is not an error.
	Retrieve(ctx context.Context, fullName string, mustBeNewerThan time.Time) (*Entry, error)

	// Invalidate deletes any cached entry for fullName.
	Invalidate(ctx context.Context, fullName string) error
}

// IsFresh applies spec §4.E's freshness rule given a candidate entry's mod
// time and the newest timestamp among the source file and every transitive
// dependency.
func IsFresh(entryModTime, mustBeNewerThan time.Time) bool {
	return entryModTime.After(mustBeNewerThan)
}
