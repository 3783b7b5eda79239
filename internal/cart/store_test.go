package cart

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, time.Hour)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	c := &Cart{}
	require.NoError(t, c.Add(item(1, 12.5), 2))
	require.NoError(t, store.Save(ctx, "sess-1", c))

	loaded, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, loaded.Entries, 1)
	assert.Equal(t, int64(1), loaded.Entries[0].ID)
	assert.Equal(t, 2, loaded.Entries[0].Qty)
	assert.InDelta(t, 25.0, loaded.Total(), 1e-9)
}

func TestRedisStoreLoadMissingReturnsEmptyCart(t *testing.T) {
	store := newTestRedisStore(t)
	loaded, err := store.Load(context.Background(), "absent")
	require.NoError(t, err)
	assert.Empty(t, loaded.Entries)
}

func TestRedisStoreDelete(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	c := &Cart{}
	require.NoError(t, c.Add(item(1, 1.0), 1))
	require.NoError(t, store.Save(ctx, "sess-2", c))
	require.NoError(t, store.Delete(ctx, "sess-2"))

	loaded, err := store.Load(ctx, "sess-2")
	require.NoError(t, err)
	assert.Empty(t, loaded.Entries)
}

func TestRedisStoreCartsAreSessionScoped(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	a := &Cart{}
	require.NoError(t, a.Add(item(1, 1.0), 1))
	require.NoError(t, store.Save(ctx, "sess-a", a))

	b, err := store.Load(ctx, "sess-b")
	require.NoError(t, err)
	assert.Empty(t, b.Entries)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	c := &Cart{}
	require.NoError(t, c.Add(item(3, 2.0), 4))
	require.NoError(t, store.Save(ctx, "sess", c))

	loaded, err := store.Load(ctx, "sess")
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.Count())

	require.NoError(t, store.Delete(ctx, "sess"))
	loaded, err = store.Load(ctx, "sess")
	require.NoError(t, err)
	assert.Empty(t, loaded.Entries)
}
