package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/Yathushan/coldsweat/internal/application/dto"
	"github.com/Yathushan/coldsweat/internal/domain/entity"
	"github.com/Yathushan/coldsweat/internal/domain/repository"
	"github.com/Yathushan/coldsweat/pkg/logger"
)

// SetupUseCase brings a database up to date and seeds the data every
// installation needs
type SetupUseCase struct {
	system     repository.SystemRepository
	createUser *CreateUserUseCase
	logger     *logger.Logger
}

func NewSetupUseCase(
	system repository.SystemRepository,
	createUser *CreateUserUseCase,
	logger *logger.Logger,
) *SetupUseCase {
	return &SetupUseCase{
		system:     system,
		createUser: createUser,
		logger:     logger,
	}
}

// Migrate applies pending migrations only
func (uc *SetupUseCase) Migrate(ctx context.Context) ([]string, error) {
	applied, err := uc.system.Migrate(ctx)
	if err != nil {
		return applied, fmt.Errorf("failed to migrate database: %w", err)
	}
	for _, name := range applied {
		uc.logger.Info("Migration applied", "name", name)
	}
	return applied, nil
}

// Execute migrates, bootstraps and, when asked, adds the default account.
// Running it twice changes nothing the second time.
func (uc *SetupUseCase) Execute(ctx context.Context, withDefaultUser bool) (*dto.SetupDTO, error) {
	applied, err := uc.Migrate(ctx)
	if err != nil {
		return nil, err
	}

	bootstrapped, err := uc.system.Bootstrap(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to bootstrap database: %w", err)
	}
	if !bootstrapped {
		uc.logger.Info("Database already set up, skipped bootstrap")
	}

	result := &dto.SetupDTO{
		Migrations:   applied,
		Bootstrapped: bootstrapped,
	}

	if !withDefaultUser {
		return result, nil
	}

	_, err = uc.createUser.Execute(ctx, CreateUserInput{
		Username: entity.DefaultUsername,
		Password: entity.DefaultPassword,
	})
	switch {
	case err == nil:
		result.DefaultUserAdded = true
	case errors.Is(err, ErrUserExists):
		uc.logger.Info("Default user already exists", "username", entity.DefaultUsername)
	default:
		return nil, err
	}

	return result, nil
}
