package repository

import (
	"context"

	"github.com/Yathushan/coldsweat/internal/domain/entity"
)

// SystemRepository covers schema setup and instance-wide data.
type SystemRepository interface {
	// Migrate applies pending schema migrations and returns their names
	Migrate(ctx context.Context) ([]string, error)
	// Bootstrap creates the default group and icon unless they exist. It
	// reports false when they did.
	Bootstrap(ctx context.Context) (bool, error)
	Stats(ctx context.Context) (*entity.Stats, error)
}
