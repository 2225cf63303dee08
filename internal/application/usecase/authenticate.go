package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/Yathushan/coldsweat/internal/domain/entity"
	"github.com/Yathushan/coldsweat/internal/domain/repository"
	"github.com/Yathushan/coldsweat/internal/domain/service"
	"github.com/Yathushan/coldsweat/pkg/logger"
)

// AuthenticateUseCase resolves users from credentials, API keys or session
// user ids
type AuthenticateUseCase struct {
	users       repository.UserRepository
	credentials *service.Credentials
	logger      *logger.Logger
}

func NewAuthenticateUseCase(
	users repository.UserRepository,
	credentials *service.Credentials,
	logger *logger.Logger,
) *AuthenticateUseCase {
	return &AuthenticateUseCase{
		users:       users,
		credentials: credentials,
		logger:      logger,
	}
}

// Execute returns the enabled user matching username and password, or
// ErrInvalidCredentials.
func (uc *AuthenticateUseCase) Execute(ctx context.Context, username, password string) (*entity.User, error) {
	user, err := uc.users.FindUserByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.IsEnabled {
		uc.logger.Debug("Login refused for disabled user", "username", username)
		return nil, ErrInvalidCredentials
	}

	ok, err := uc.credentials.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// ByAPIKey returns the enabled user owning apiKey. Keys are matched
// case-insensitively.
func (uc *AuthenticateUseCase) ByAPIKey(ctx context.Context, apiKey string) (*entity.User, error) {
	user, err := uc.users.FindUserByAPIKey(ctx, uc.credentials.NormalizeAPIKey(apiKey))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by api key: %w", err)
	}
	return user, nil
}

// CurrentUser loads the user a session points at. A deleted or disabled
// user yields nil without error.
func (uc *AuthenticateUseCase) CurrentUser(ctx context.Context, userID int64) (*entity.User, error) {
	user, err := uc.users.FindUserByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user %d: %w", userID, err)
	}
	if !user.IsEnabled {
		return nil, nil
	}
	return user, nil
}
