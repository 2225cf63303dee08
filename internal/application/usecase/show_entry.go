package usecase

import (
	"context"
	"fmt"

	"github.com/Yathushan/coldsweat/internal/application/dto"
	"github.com/Yathushan/coldsweat/internal/domain/repository"
	"github.com/Yathushan/coldsweat/internal/domain/valueobject"
)

// ShowEntryUseCase opens an entry: it marks it read and finds the next,
// older entry in the same filter
type ShowEntryUseCase struct {
	entries repository.EntryRepository
	feeds   repository.FeedRepository
	marker  *MarkEntryUseCase
}

func NewShowEntryUseCase(
	entries repository.EntryRepository,
	feeds repository.FeedRepository,
	marker *MarkEntryUseCase,
) *ShowEntryUseCase {
	return &ShowEntryUseCase{
		entries: entries,
		feeds:   feeds,
		marker:  marker,
	}
}

func (uc *ShowEntryUseCase) Execute(
	ctx context.Context,
	userID, entryID int64,
	filter valueobject.EntryFilter,
) (*dto.EntryDetailDTO, error) {
	entry, err := uc.entries.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %d: %w", entryID, err)
	}

	if err := uc.marker.apply(ctx, userID, entry.ID, valueobject.StatusRead); err != nil {
		return nil, err
	}

	listCtx, err := buildListContext(ctx, uc.feeds, userID, filter)
	if err != nil {
		return nil, err
	}
	listCtx.PageTitle = entry.Title

	feed, err := uc.feeds.FindFeedByID(ctx, entry.FeedID)
	if err != nil {
		return nil, fmt.Errorf("failed to find feed %d: %w", entry.FeedID, err)
	}

	// The filter still applies, so an unread list skips the entry just read.
	before := entry.LastUpdatedOn
	next, err := uc.entries.ListEntries(ctx, repository.EntryQuery{
		UserID: userID,
		Filter: filter,
		Before: &before,
		Limit:  1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find next entry: %w", err)
	}

	detail := &dto.EntryDetailDTO{
		ListContext: *listCtx,
		Entry:       entry,
		Feed:        feed,
	}
	if len(next) > 0 {
		detail.Next = next[0]
	}

	return detail, nil
}
