package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Yathushan/coldsweat/internal/application/port"
	"github.com/Yathushan/coldsweat/internal/domain/repository"
	"github.com/Yathushan/coldsweat/pkg/logger"
)

// MarkAllReadUseCase marks as read every unread entry of feeds checked
// before the given time, i.e. everything the user had on screen
type MarkAllReadUseCase struct {
	entries repository.EntryRepository
	cache   port.Cache
	logger  *logger.Logger
	now     func() time.Time
}

func NewMarkAllReadUseCase(entries repository.EntryRepository, cache port.Cache, logger *logger.Logger) *MarkAllReadUseCase {
	return &MarkAllReadUseCase{
		entries: entries,
		cache:   cache,
		logger:  logger,
		now:     time.Now,
	}
}

func (uc *MarkAllReadUseCase) Execute(ctx context.Context, userID int64, before time.Time) (int64, error) {
	marked, err := uc.entries.MarkAllRead(ctx, userID, before, uc.now())
	if err != nil {
		return 0, fmt.Errorf("failed to mark all entries read: %w", err)
	}
	if marked > 0 {
		invalidateStats(ctx, uc.cache, uc.logger)
	}

	uc.logger.Info("Marked all entries read",
		"user_id", userID,
		"before", before.UTC().Format(time.RFC3339),
		"count", marked,
	)
	return marked, nil
}
