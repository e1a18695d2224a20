package cache

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client), mr
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k1", []byte("v1"), time.Minute))

	got, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)
}

func TestRedisStore_MissOnAbsentKey(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisStore_MissAfterTTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k1", []byte("v1"), 10*time.Second))
	mr.FastForward(11 * time.Second)

	_, err := store.Get(ctx, "k1")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisStore_Del(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k1", []byte("v1"), time.Minute))
	require.NoError(t, store.Del(ctx, "k1"))

	_, err := store.Get(ctx, "k1")
	assert.ErrorIs(t, err, ErrMiss)

	// Deleting an absent key is not an error.
	assert.NoError(t, store.Del(ctx, "k1"))
}

func TestRedisStore_InvalidatePattern(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "products:1", []byte("a"), time.Minute))
	require.NoError(t, store.Set(ctx, "products:2", []byte("b"), time.Minute))
	require.NoError(t, store.Set(ctx, "vendors:1", []byte("c"), time.Minute))

	deleted, err := store.InvalidatePattern(ctx, "products:*")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	_, err = store.Get(ctx, "products:1")
	assert.ErrorIs(t, err, ErrMiss)
	_, err = store.Get(ctx, "products:2")
	assert.ErrorIs(t, err, ErrMiss)

	got, err := store.Get(ctx, "vendors:1")
	require.NoError(t, err)
	assert.Equal(t, []byte("c"), got)
}

func TestInvalidator_ProductChanged(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	inv := NewInvalidator(store, slog.Default())

	require.NoError(t, store.Set(ctx, "product:p1", []byte("a"), time.Minute))
	require.NoError(t, store.Set(ctx, "products:list:1", []byte("b"), time.Minute))
	require.NoError(t, store.Set(ctx, "similar:p1:v2", []byte("c"), time.Minute))
	require.NoError(t, store.Set(ctx, "product:p2", []byte("d"), time.Minute))

	inv.ProductChanged(ctx, "p1")

	for _, key := range []string{"product:p1", "products:list:1", "similar:p1:v2"} {
		_, err := store.Get(ctx, key)
		assert.ErrorIs(t, err, ErrMiss, "key %s should be invalidated", key)
	}

	_, err := store.Get(ctx, "product:p2")
	assert.NoError(t, err, "unrelated product entry must survive")
}

func TestInvalidator_CartChanged(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	inv := NewInvalidator(store, slog.Default())

	require.NoError(t, store.Set(ctx, "GET:/api/v1/cart:u1", []byte("a"), time.Minute))
	require.NoError(t, store.Set(ctx, "GET:/api/v1/cart:u2", []byte("b"), time.Minute))

	inv.CartChanged(ctx, "u1")

	_, err := store.Get(ctx, "GET:/api/v1/cart:u1")
	assert.ErrorIs(t, err, ErrMiss)

	_, err = store.Get(ctx, "GET:/api/v1/cart:u2")
	assert.NoError(t, err)
}
