// Package postgres is an optional Module Cache backend over PostgreSQL,
// adapted from the teacher's store/postgres checkpoint store: the same
// DBPool seam (so tests can substitute github.com/pashagolub/pgxmock/v3)
// over github.com/jackc/pgx/v5, repurposed to one row per module.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chigraph/chigraph/cache"
)

// DBPool is the subset of *pgxpool.Pool this backend needs, seamed out so
// tests can substitute a pgxmock pool.
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Store persists cache entries in PostgreSQL.
type Store struct {
	pool      DBPool
	tableName string
}

// Options configures the PostgreSQL cache backend.
type Options struct {
	ConnString string
	TableName  string // default "module_cache"
}

// New creates a cache store backed by a fresh connection pool.
func New(ctx context.Context, opts Options) (*Store, error) {
	pool, err := pgxpool.New(ctx, opts.ConnString)
	if err != nil {
		return nil, fmt.Errorf("cache/postgres: connect: %w", err)
	}
	return NewWithPool(pool, opts.TableName), nil
}

// NewWithPool builds a cache store over an already-constructed pool, the
// seam tests use to inject a pgxmock pool.
func NewWithPool(pool DBPool, tableName string) *Store {
	if tableName == "" {
		tableName = "module_cache"
	}
	return &Store{pool: pool, tableName: tableName}
}

// InitSchema creates the backing table if it doesn't already exist.
func (s *Store) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			full_name TEXT PRIMARY KEY,
			bitcode BYTEA NOT NULL,
			mod_time TIMESTAMPTZ NOT NULL
		)`, s.tableName)
	_, err := s.pool.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("cache/postgres: init schema: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() { s.pool.Close() }

// Save upserts the cache entry for entry.ModuleFullName.
func (s *Store) Save(ctx context.Context, entry *cache.Entry) error {
	modTime := entry.ModTime
	if modTime.IsZero() {
		modTime = time.Now()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (full_name, bitcode, mod_time)
		VALUES ($1, $2, $3)
		ON CONFLICT (full_name) DO UPDATE SET
			bitcode = EXCLUDED.bitcode,
			mod_time = EXCLUDED.mod_time
	`, s.tableName)

	_, err := s.pool.Exec(ctx, query, entry.ModuleFullName, entry.Bitcode, modTime)
	if err != nil {
		return fmt.Errorf("cache/postgres: save %s: %w", entry.ModuleFullName, err)
	}
	return nil
}

// Retrieve returns the entry for fullName iff it is strictly newer than
// mustBeNewerThan; a miss is reported as (nil, nil).
func (s *Store) Retrieve(ctx context.Context, fullName string, mustBeNewerThan time.Time) (*cache.Entry, error) {
	query := fmt.Sprintf(`SELECT bitcode, mod_time FROM %s WHERE full_name = $1`, s.tableName)

	var bitcode []byte
	var modTime time.Time
	err := s.pool.QueryRow(ctx, query, fullName).Scan(&bitcode, &modTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache/postgres: retrieve %s: %w", fullName, err)
	}

	if !cache.IsFresh(modTime, mustBeNewerThan) {
		return nil, nil
	}

	return &cache.Entry{ModuleFullName: fullName, Bitcode: bitcode, ModTime: modTime}, nil
}

// Invalidate deletes the row for fullName, if any.
func (s *Store) Invalidate(ctx context.Context, fullName string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE full_name = $1`, s.tableName)
	_, err := s.pool.Exec(ctx, query, fullName)
	if err != nil {
		return fmt.Errorf("cache/postgres: invalidate %s: %w", fullName, err)
	}
	return nil
}

var _ cache.Store = (*Store)(nil)
