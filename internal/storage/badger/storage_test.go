package badger

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bookscraper/internal/interfaces"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	dir, err := os.MkdirTemp("", "badger-test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	db, err := Open(arbor.NewLogger(), Config{Path: dir})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestKVStorage_SetGetDelete(t *testing.T) {
	db := newTestDB(t)
	kv := NewKVStorage(db)
	ctx := context.Background()

	_, err := kv.Get(ctx, "missing")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)

	require.NoError(t, kv.Set(ctx, "proxyUrl", "http://proxy.local"))
	val, err := kv.Get(ctx, "proxyUrl")
	require.NoError(t, err)
	assert.Equal(t, "http://proxy.local", val)

	require.NoError(t, kv.Delete(ctx, "proxyUrl"))
	_, err = kv.Get(ctx, "proxyUrl")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)
}

func TestKVStorage_ListFiltersByPrefix(t *testing.T) {
	db := newTestDB(t)
	kv := NewKVStorage(db)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "source:a:token", "1"))
	require.NoError(t, kv.Set(ctx, "source:b:token", "2"))
	require.NoError(t, kv.Set(ctx, "other:key", "3"))

	all, err := kv.List(ctx, "source:")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "1", all["source:a:token"])
}

func TestCacheStorage_ExpiresAfterTTL(t *testing.T) {
	db := newTestDB(t)
	cache := NewCacheStorage(db)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "search:dragon", `[{"name":"x"}]`, 50*time.Millisecond))

	val, ok, err := cache.Get(ctx, "search:dragon")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[{"name":"x"}]`, val)

	time.Sleep(150 * time.Millisecond)
	_, ok, err = cache.Get(ctx, "search:dragon")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCompiledSourceStorage_RoundTrips(t *testing.T) {
	db := newTestDB(t)
	store := NewCompiledSourceStorage(db)

	_, ok, err := store.Get("deadbeef")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put("deadbeef", []byte("compiled-bytes")))
	data, ok, err := store.Get("deadbeef")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("compiled-bytes"), data)
}
