package repositories

import (
	"context"

	"github.com/docify/docify/internal/domain/entities"
)

// SessionRepository stores transient report sessions.
type SessionRepository interface {
	// Get returns a NOT_FOUND error for unknown or expired sessions.
	Get(ctx context.Context, id string) (*entities.Session, error)
	Save(ctx context.Context, session *entities.Session) error
	Delete(ctx context.Context, id string) error
}
