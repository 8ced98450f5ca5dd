package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/docify/docify/internal/adapters/cache"
	redisclient "github.com/docify/docify/internal/infrastructure/clients/redis"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisAdapter(t *testing.T) (*miniredis.Miniredis, *cache.RedisAdapter) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	adapter := cache.NewRedisAdapter(redisclient.Wrap(rdb)).(*cache.RedisAdapter)
	return mr, adapter
}

func TestRedisAdapter_RoundTripUsesPrefixedKeys(t *testing.T) {
	ctx := context.Background()
	mr, adapter := newRedisAdapter(t)

	require.NoError(t, adapter.Set(ctx, "photo:ref", []byte("jpeg"), 120))

	assert.True(t, mr.Exists("docify:photo:ref"))
	assert.Equal(t, 120*time.Second, mr.TTL("docify:photo:ref"))

	value, err := adapter.Get(ctx, "photo:ref")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg"), value)

	exists, err := adapter.Exists(ctx, "photo:ref")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRedisAdapter_MissAndExpiry(t *testing.T) {
	ctx := context.Background()
	mr, adapter := newRedisAdapter(t)

	_, err := adapter.Get(ctx, "absent")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)

	require.NoError(t, adapter.Set(ctx, "short", []byte("x"), 5))
	mr.FastForward(6 * time.Second)

	_, err = adapter.Get(ctx, "short")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)

	require.NoError(t, adapter.Set(ctx, "gone", []byte("x"), 0))
	require.NoError(t, adapter.Delete(ctx, "gone"))
	exists, err := adapter.Exists(ctx, "gone")
	require.NoError(t, err)
	assert.False(t, exists)
}
