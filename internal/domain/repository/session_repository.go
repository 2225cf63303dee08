package repository

import (
	"context"
	"time"

	"github.com/Yathushan/coldsweat/internal/domain/entity"
)

// SessionRepository stores web sessions.
type SessionRepository interface {
	FindSession(ctx context.Context, key string) (*entity.Session, error)
	// SaveSession inserts or replaces the session with the same key
	SaveSession(ctx context.Context, session *entity.Session) error
	DeleteSession(ctx context.Context, key string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}
