// Package sqlite is an optional Module Cache backend over SQLite, adapted
// from the teacher's store/sqlite checkpoint store: same
// database/sql + github.com/mattn/go-sqlite3 driver pairing, same
// single-table schema shape, repurposed to key one row per module full name
// instead of one row per checkpoint ID.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/chigraph/chigraph/cache"
)

// Store persists cache entries in a SQLite database.
type Store struct {
	db        *sql.DB
	tableName string
}

// Options configures the SQLite cache backend.
type Options struct {
	Path      string
	TableName string // default "module_cache"
}

// New opens (creating if necessary) a SQLite-backed cache store.
func New(opts Options) (*Store, error) {
	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("cache/sqlite: open: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "module_cache"
	}

	s := &Store{db: db, tableName: tableName}
	if err := s.initSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			full_name TEXT PRIMARY KEY,
			bitcode BLOB NOT NULL,
			mod_time DATETIME NOT NULL
		)`, s.tableName)
	_, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("cache/sqlite: init schema: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Save upserts the cache entry for entry.ModuleFullName.
func (s *Store) Save(ctx context.Context, entry *cache.Entry) error {
	modTime := entry.ModTime
	if modTime.IsZero() {
		modTime = time.Now()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (full_name, bitcode, mod_time)
		VALUES (?, ?, ?)
		ON CONFLICT(full_name) DO UPDATE SET
			bitcode = excluded.bitcode,
			mod_time = excluded.mod_time
	`, s.tableName)

	_, err := s.db.ExecContext(ctx, query, entry.ModuleFullName, entry.Bitcode, modTime)
	if err != nil {
		return fmt.Errorf("cache/sqlite: save %s: %w", entry.ModuleFullName, err)
	}
	return nil
}

// Retrieve returns the entry for fullName iff it is strictly newer than
// mustBeNewerThan; a miss (absent or stale) is reported as (nil, nil).
func (s *Store) Retrieve(ctx context.Context, fullName string, mustBeNewerThan time.Time) (*cache.Entry, error) {
	query := fmt.Sprintf(`SELECT bitcode, mod_time FROM %s WHERE full_name = ?`, s.tableName)

	var bitcode []byte
	var modTime time.Time
	err := s.db.QueryRowContext(ctx, query, fullName).Scan(&bitcode, &modTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache/sqlite: retrieve %s: %w", fullName, err)
	}

	if !cache.IsFresh(modTime, mustBeNewerThan) {
		return nil, nil
	}

	return &cache.Entry{ModuleFullName: fullName, Bitcode: bitcode, ModTime: modTime}, nil
}

// Invalidate deletes the row for fullName, if any.
func (s *Store) Invalidate(ctx context.Context, fullName string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE full_name = ?`, s.tableName)
	_, err := s.db.ExecContext(ctx, query, fullName)
	if err != nil {
		return fmt.Errorf("cache/sqlite: invalidate %s: %w", fullName, err)
	}
	return nil
}

var _ cache.Store = (*Store)(nil)
