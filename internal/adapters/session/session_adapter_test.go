package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/docify/docify/internal/adapters/cache"
	"github.com/docify/docify/internal/adapters/session"
	"github.com/docify/docify/internal/domain/entities"
	redisclient "github.com/docify/docify/internal/infrastructure/clients/redis"
	apperrors "github.com/docify/docify/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionAdapter_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo := session.NewSessionAdapter(cache.NewMemoryAdapter(), 60)

	now := time.Now().UTC().Truncate(time.Second)
	sess := entities.NewSession("sess-1", now)
	sess.StartSearch("search-1", entities.DiseaseCategoryCancer, entities.SpecialtyOncology, now)
	require.NoError(t, repo.Save(ctx, sess))

	loaded, err := repo.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, entities.DiseaseCategoryCancer, loaded.LastCategory)
	require.NotNil(t, loaded.Search)
	assert.Equal(t, "search-1", loaded.Search.ID)
	assert.Equal(t, entities.DoctorSearchStatusPending, loaded.Search.Status)
}

func TestSessionAdapter_UnknownSessionIsNotFound(t *testing.T) {
	repo := session.NewSessionAdapter(cache.NewMemoryAdapter(), 60)

	_, err := repo.Get(context.Background(), "missing")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestSessionAdapter_RedisExpiry(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	repo := session.NewSessionAdapter(cache.NewRedisAdapter(redisclient.Wrap(rdb)), 30)

	require.NoError(t, repo.Save(ctx, entities.NewSession("sess-2", time.Now())))
	_, err := repo.Get(ctx, "sess-2")
	require.NoError(t, err)

	mr.FastForward(31 * time.Second)

	_, err = repo.Get(ctx, "sess-2")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestSessionAdapter_Delete(t *testing.T) {
	ctx := context.Background()
	repo := session.NewSessionAdapter(cache.NewMemoryAdapter(), 60)
	require.NoError(t, repo.Save(ctx, entities.NewSession("sess-3", time.Now())))

	require.NoError(t, repo.Delete(ctx, "sess-3"))

	_, err := repo.Get(ctx, "sess-3")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}
