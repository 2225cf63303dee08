package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Yathushan/coldsweat/internal/domain/entity"
	"github.com/Yathushan/coldsweat/internal/domain/repository"
	"github.com/Yathushan/coldsweat/internal/domain/service"
	"github.com/Yathushan/coldsweat/pkg/logger"
)

type CreateUserInput struct {
	Username string
	Password string
	Email    string
}

// CreateUserUseCase adds an enabled account
type CreateUserUseCase struct {
	users       repository.UserRepository
	credentials *service.Credentials
	logger      *logger.Logger
}

func NewCreateUserUseCase(
	users repository.UserRepository,
	credentials *service.Credentials,
	logger *logger.Logger,
) *CreateUserUseCase {
	return &CreateUserUseCase{
		users:       users,
		credentials: credentials,
		logger:      logger,
	}
}

func (uc *CreateUserUseCase) Execute(ctx context.Context, in CreateUserInput) (*entity.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if err := uc.credentials.ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	_, err := uc.users.FindUserByUsername(ctx, username)
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := uc.credentials.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Username:     username,
		PasswordHash: hash,
		Email:        strings.TrimSpace(in.Email),
		APIKey:       uc.credentials.MakeAPIKey(username, in.Password),
		IsEnabled:    true,
	}
	if err := uc.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	uc.logger.Info("User created", "username", username, "user_id", user.ID)
	return user, nil
}
