package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/chigraph/chigraph/cache"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(Options{Path: ":memory:"})
	assert.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreSaveRetrieve(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Now().Round(time.Second)
	err := store.Save(ctx, &cache.Entry{
		ModuleFullName: "a/b.c",
		Bitcode:        []byte("fake-bitcode"),
		ModTime:        now,
	})
	assert.NoError(t, err)

	entry, err := store.Retrieve(ctx, "a/b.c", now.Add(-time.Minute))
	assert.NoError(t, err)
	assert.NotNil(t, entry)
	assert.Equal(t, []byte("fake-bitcode"), entry.Bitcode)
}

func TestStoreRetrieveStaleIsMiss(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Now().Round(time.Second)
	err := store.Save(ctx, &cache.Entry{ModuleFullName: "stale", Bitcode: []byte("x"), ModTime: now})
	assert.NoError(t, err)

	entry, err := store.Retrieve(ctx, "stale", now.Add(time.Minute))
	assert.NoError(t, err)
	assert.Nil(t, entry)
}

func TestStoreRetrieveAbsentIsMiss(t *testing.T) {
	store := newTestStore(t)
	entry, err := store.Retrieve(context.Background(), "never-saved", time.Time{})
	assert.NoError(t, err)
	assert.Nil(t, entry)
}

func TestStoreUpsertOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t1 := time.Now().Add(-time.Hour).Round(time.Second)
	t2 := time.Now().Round(time.Second)

	err := store.Save(ctx, &cache.Entry{ModuleFullName: "m", Bitcode: []byte("v1"), ModTime: t1})
	assert.NoError(t, err)
	err = store.Save(ctx, &cache.Entry{ModuleFullName: "m", Bitcode: []byte("v2"), ModTime: t2})
	assert.NoError(t, err)

	entry, err := store.Retrieve(ctx, "m", t1)
	assert.NoError(t, err)
	assert.Equal(t, []byte("v2"), entry.Bitcode)
}

func TestStoreInvalidate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Now().Round(time.Second)
	err := store.Save(ctx, &cache.Entry{ModuleFullName: "gone", Bitcode: []byte("x"), ModTime: now})
	assert.NoError(t, err)

	err = store.Invalidate(ctx, "gone")
	assert.NoError(t, err)

	entry, err := store.Retrieve(ctx, "gone", now.Add(-time.Minute))
	assert.NoError(t, err)
	assert.Nil(t, entry)

	err = store.Invalidate(ctx, "gone")
	assert.NoError(t, err)
}
