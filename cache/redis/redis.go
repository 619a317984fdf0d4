// Package redis is an optional Module Cache backend over Redis, adapted
// from the teacher's store/redis checkpoint store: the same
// github.com/redis/go-redis/v9 client, prefix/TTL options, and pipelined
// writes, repurposed from one hash per checkpoint to one hash per module
// (fields "bitcode" and "mod_time" instead of a single JSON blob), since
// the freshness check needs mod_time queryable without decoding bitcode.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chigraph/chigraph/cache"
)

// Store persists cache entries as Redis hashes.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// Options configures the Redis cache backend.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // key prefix, default "chigraph:cache:"
	TTL      time.Duration // expiration for entries, default 0 (no expiration)
}

// New creates a cache store backed by a fresh Redis client.
func New(opts Options) *Store {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "chigraph:cache:"
	}

	return &Store{client: client, prefix: prefix, ttl: opts.TTL}
}

// NewWithClient builds a cache store over an already-constructed client,
// the seam tests use to point at a github.com/alicebob/miniredis/v2 server.
func NewWithClient(client *redis.Client, prefix string, ttl time.Duration) *Store {
	if prefix == "" {
		prefix = "chigraph:cache:"
	}
	return &Store{client: client, prefix: prefix, ttl: ttl}
}

func (s *Store) key(fullName string) string {
	return fmt.Sprintf("%smodule:%s", s.prefix, fullName)
}

// Close closes the underlying Redis client.
func (s *Store) Close() error { return s.client.Close() }

// Save writes entry's bitcode and mod time to its hash key.
func (s *Store) Save(ctx context.Context, entry *cache.Entry) error {
	modTime := entry.ModTime
	if modTime.IsZero() {
		modTime = time.Now()
	}

	key := s.key(entry.ModuleFullName)
	pipe := s.client.Pipeline()
	pipe.HSet(ctx, key, "bitcode", entry.Bitcode, "mod_time", modTime.Format(time.RFC3339Nano))
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache/redis: save %s: %w", entry.ModuleFullName, err)
	}
	return nil
}

// Retrieve returns the entry for fullName iff it is strictly newer than
// mustBeNewerThan; a miss is reported as (nil, nil).
func (s *Store) Retrieve(ctx context.Context, fullName string, mustBeNewerThan time.Time) (*cache.Entry, error) {
	key := s.key(fullName)
	res, err := s.client.HGetAll(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("cache/redis: retrieve %s: %w", fullName, err)
	}
	if len(res) == 0 {
		return nil, nil
	}

	modTime, err := time.Parse(time.RFC3339Nano, res["mod_time"])
	if err != nil {
		return nil, fmt.Errorf("cache/redis: parse mod_time for %s: %w", fullName, err)
	}

	if !cache.IsFresh(modTime, mustBeNewerThan) {
		return nil, nil
	}

	return &cache.Entry{ModuleFullName: fullName, Bitcode: []byte(res["bitcode"]), ModTime: modTime}, nil
}

// Invalidate deletes the hash key for fullName, if any.
func (s *Store) Invalidate(ctx context.Context, fullName string) error {
	if err := s.client.Del(ctx, s.key(fullName)).Err(); err != nil {
		return fmt.Errorf("cache/redis: invalidate %s: %w", fullName, err)
	}
	return nil
}

var _ cache.Store = (*Store)(nil)
