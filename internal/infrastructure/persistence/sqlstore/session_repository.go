package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Yathushan/coldsweat/internal/domain/entity"
	"github.com/Yathushan/coldsweat/internal/domain/repository"
)

func (s *Store) FindSession(ctx context.Context, key string) (*entity.Session, error) {
	var session entity.Session
	err := s.queryRow(ctx, `
		SELECT session_key, value, expires_on FROM sessions WHERE session_key = ?`,
		key,
	).Scan(&session.Key, &session.Value, &session.ExpiresOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}
	session.ExpiresOn = session.ExpiresOn.UTC()
	return &session, nil
}

func (s *Store) SaveSession(ctx context.Context, session *entity.Session) error {
	_, err := s.exec(ctx, `
		INSERT INTO sessions (session_key, value, expires_on) VALUES (?, ?, ?)
		ON CONFLICT (session_key) DO UPDATE SET value = excluded.value, expires_on = excluded.expires_on`,
		session.Key, session.Value, utc(session.ExpiresOn),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *Store) DeleteSession(ctx context.Context, key string) error {
	if _, err := s.exec(ctx, `DELETE FROM sessions WHERE session_key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.exec(ctx, `DELETE FROM sessions WHERE expires_on <= ?`, utc(now))
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return res.RowsAffected()
}
