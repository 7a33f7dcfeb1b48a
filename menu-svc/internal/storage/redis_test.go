package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client, 5*time.Minute), mr
}

func TestRedisCache_MenuJSON(t *testing.T) {
	cache, mr := setupRedisCache(t)
	ctx := context.Background()

	_, ok, err := cache.GetMenuJSON(ctx, "event-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.SetMenuJSON(ctx, "event-1", []byte(`{"currency":"EUR"}`)))
	assert.Equal(t, "menu:event-1:json", cache.MenuKey("event-1"))
	assert.Equal(t, 5*time.Minute, mr.TTL("menu:event-1:json"))

	cached, ok, err := cache.GetMenuJSON(ctx, "event-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"currency":"EUR"}`, string(cached))

	require.NoError(t, cache.Invalidate(ctx, "event-1"))
	assert.False(t, mr.Exists("menu:event-1:json"))
}

func TestRedisCache_MenuStaleInvalidates(t *testing.T) {
	cache, mr := setupRedisCache(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("menu:event-1:json", "{}"))
	require.NoError(t, cache.MenuStale(ctx, "event-1", "import"))
	assert.False(t, mr.Exists("menu:event-1:json"))
}

func TestRedisCache_ExpiresAfterTTL(t *testing.T) {
	cache, mr := setupRedisCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SetMenuJSON(ctx, "event-1", []byte(`{}`)))
	mr.FastForward(6 * time.Minute)

	_, ok, err := cache.GetMenuJSON(ctx, "event-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_ServerDown(t *testing.T) {
	cache, mr := setupRedisCache(t)
	mr.Close()

	_, ok, err := cache.GetMenuJSON(context.Background(), "event-1")
	assert.Error(t, err)
	assert.False(t, ok)
}
