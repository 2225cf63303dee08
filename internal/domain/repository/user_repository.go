package repository

import (
	"context"

	"github.com/Yathushan/coldsweat/internal/domain/entity"
)

// UserRepository stores Coldsweat accounts.
type UserRepository interface {
	// CreateUser inserts user and fills its ID
	CreateUser(ctx context.Context, user *entity.User) error

	FindUserByID(ctx context.Context, id int64) (*entity.User, error)
	FindUserByUsername(ctx context.Context, username string) (*entity.User, error)

	// FindUserByAPIKey matches enabled users only
	FindUserByAPIKey(ctx context.Context, apiKey string) (*entity.User, error)
}
