package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/docify/docify/internal/adapters/cache"
	"github.com/docify/docify/internal/domain/entities"
	"github.com/docify/docify/internal/domain/providers"
	"github.com/docify/docify/internal/domain/repositories"
	apperrors "github.com/docify/docify/pkg/errors"
)

// SessionAdapter stores sessions as JSON in a CacheProvider, so they expire
// with the cache TTL and never outlive it.
type SessionAdapter struct {
	cache      providers.CacheProvider
	ttlSeconds int
}

// NewSessionAdapter creates a session repository over a cache
func NewSessionAdapter(cache providers.CacheProvider, ttlSeconds int) repositories.SessionRepository {
	return &SessionAdapter{
		cache:      cache,
		ttlSeconds: ttlSeconds,
	}
}

func sessionCacheKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

// Get retrieves a session by ID
func (a *SessionAdapter) Get(ctx context.Context, id string) (*entities.Session, error) {
	data, err := a.cache.Get(ctx, sessionCacheKey(id))
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("session %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load session", err)
	}

	var session entities.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, apperrors.NewInternalError("failed to decode session", err)
	}
	return &session, nil
}

// Save stores a session and refreshes its TTL
func (a *SessionAdapter) Save(ctx context.Context, session *entities.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return apperrors.NewInternalError("failed to encode session", err)
	}
	if err := a.cache.Set(ctx, sessionCacheKey(session.ID), data, a.ttlSeconds); err != nil {
		return apperrors.NewInternalError("failed to store session", err)
	}
	return nil
}

// Delete removes a session
func (a *SessionAdapter) Delete(ctx context.Context, id string) error {
	if err := a.cache.Delete(ctx, sessionCacheKey(id)); err != nil {
		return apperrors.NewInternalError("failed to delete session", err)
	}
	return nil
}
