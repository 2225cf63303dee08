package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Yathushan/coldsweat/internal/domain/entity"
	"github.com/Yathushan/coldsweat/internal/domain/repository"
)

func (s *Store) CreateUser(ctx context.Context, user *entity.User) error {
	if user.CreatedOn.IsZero() {
		user.CreatedOn = s.now()
	}

	err := s.queryRow(ctx, `
		INSERT INTO users (username, password_hash, email, api_key, is_enabled, created_on)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`,
		user.Username,
		user.PasswordHash,
		nullString(user.Email),
		user.APIKey,
		user.IsEnabled,
		utc(user.CreatedOn),
	).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *Store) FindUserByID(ctx context.Context, id int64) (*entity.User, error) {
	return s.findUser(ctx, `WHERE id = ?`, id)
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (*entity.User, error) {
	return s.findUser(ctx, `WHERE username = ?`, username)
}

func (s *Store) FindUserByAPIKey(ctx context.Context, apiKey string) (*entity.User, error) {
	return s.findUser(ctx, `WHERE api_key = ? AND is_enabled = ?`, apiKey, true)
}

func (s *Store) findUser(ctx context.Context, where string, args ...interface{}) (*entity.User, error) {
	row := s.queryRow(ctx, `SELECT `+userColumns+` FROM users `+where, args...)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return user, nil
}
