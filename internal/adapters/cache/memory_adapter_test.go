package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAdapter_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryAdapter()

	require.NoError(t, adapter.Set(ctx, "geocode:abc", []byte("payload"), 60))

	value, err := adapter.Get(ctx, "geocode:abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), value)

	exists, err := adapter.Exists(ctx, "geocode:abc")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, adapter.Delete(ctx, "geocode:abc"))
	_, err = adapter.Get(ctx, "geocode:abc")
	assert.True(t, errors.Is(err, ErrCacheMiss))
}

func TestMemoryAdapter_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	adapter := newMemoryAdapter(func() time.Time { return now })

	require.NoError(t, adapter.Set(ctx, "short", []byte("a"), 10))
	require.NoError(t, adapter.Set(ctx, "forever", []byte("b"), 0))

	now = now.Add(11 * time.Second)

	_, err := adapter.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrCacheMiss)
	exists, _ := adapter.Exists(ctx, "short")
	assert.False(t, exists)

	value, err := adapter.Get(ctx, "forever")
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), value)
}

func TestMemoryAdapter_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryAdapter()
	original := []byte("abc")

	require.NoError(t, adapter.Set(ctx, "k", original, 0))
	original[0] = 'z'

	value, err := adapter.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(value))
}
