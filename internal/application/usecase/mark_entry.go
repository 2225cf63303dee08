package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Yathushan/coldsweat/internal/application/port"
	"github.com/Yathushan/coldsweat/internal/domain/repository"
	"github.com/Yathushan/coldsweat/internal/domain/valueobject"
	"github.com/Yathushan/coldsweat/pkg/logger"
)

// MarkEntryUseCase puts a read or saved mark on an entry, or takes it off
type MarkEntryUseCase struct {
	entries repository.EntryRepository
	cache   port.Cache
	logger  *logger.Logger
	now     func() time.Time
}

// NewMarkEntryUseCase creates the use case. cache may be nil.
func NewMarkEntryUseCase(entries repository.EntryRepository, cache port.Cache, logger *logger.Logger) *MarkEntryUseCase {
	return &MarkEntryUseCase{
		entries: entries,
		cache:   cache,
		logger:  logger,
		now:     time.Now,
	}
}

// Execute applies status to the entry. Marks already in place are ignored.
// An unknown entry yields repository.ErrNotFound.
func (uc *MarkEntryUseCase) Execute(ctx context.Context, userID, entryID int64, status valueobject.EntryStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}

	if err := uc.Check(ctx, entryID); err != nil {
		return err
	}

	return uc.apply(ctx, userID, entryID, status)
}

// Check reports repository.ErrNotFound when the entry does not exist.
func (uc *MarkEntryUseCase) Check(ctx context.Context, entryID int64) error {
	if _, err := uc.entries.FindEntryByID(ctx, entryID); err != nil {
		return fmt.Errorf("failed to find entry %d: %w", entryID, err)
	}
	return nil
}

func (uc *MarkEntryUseCase) apply(ctx context.Context, userID, entryID int64, status valueobject.EntryStatus) error {
	var (
		changed bool
		err     error
	)

	switch status {
	case valueobject.StatusRead:
		changed, err = uc.entries.MarkRead(ctx, userID, entryID, uc.now())
	case valueobject.StatusUnread:
		changed, err = uc.entries.UnmarkRead(ctx, userID, entryID)
	case valueobject.StatusSaved:
		changed, err = uc.entries.MarkSaved(ctx, userID, entryID, uc.now())
	case valueobject.StatusUnsaved:
		changed, err = uc.entries.UnmarkSaved(ctx, userID, entryID)
	}
	if err != nil {
		return fmt.Errorf("failed to mark entry %d as %s: %w", entryID, status, err)
	}

	if !changed {
		uc.logger.Debug("Entry already marked, ignored", "entry_id", entryID, "status", status.String())
		return nil
	}

	// Read marks move the unread counter.
	if status == valueobject.StatusRead || status == valueobject.StatusUnread {
		invalidateStats(ctx, uc.cache, uc.logger)
	}

	uc.logger.Debug("Entry marked", "entry_id", entryID, "status", status.String())
	return nil
}
