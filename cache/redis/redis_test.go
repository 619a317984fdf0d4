package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	goredis "github.com/redis/go-redis/v9"

	"github.com/chigraph/chigraph/cache"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	return NewWithClient(client, "", 0)
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
	assert.True(t, entry.ModTime.Equal(now))
}

func TestStoreRetrieveMissReasons(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entry, err := store.Retrieve(ctx, "never/saved", time.Time{})
	assert.NoError(t, err)
	assert.Nil(t, entry)

	now := time.Now()
	err = store.Save(ctx, &cache.Entry{ModuleFullName: "stale", Bitcode: []byte("x"), ModTime: now})
	assert.NoError(t, err)

	entry, err = store.Retrieve(ctx, "stale", now.Add(time.Minute))
	assert.NoError(t, err)
	assert.Nil(t, entry)
}

func TestStoreInvalidate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Now()
	err := store.Save(ctx, &cache.Entry{ModuleFullName: "gone", Bitcode: []byte("x"), ModTime: now})
	assert.NoError(t, err)

	err = store.Invalidate(ctx, "gone")
	assert.NoError(t, err)

	entry, err := store.Retrieve(ctx, "gone", now.Add(-time.Minute))
	assert.NoError(t, err)
	assert.Nil(t, entry)
}
