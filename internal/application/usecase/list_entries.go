package usecase

import (
	"context"
	"fmt"

	"github.com/Yathushan/coldsweat/internal/application/dto"
	"github.com/Yathushan/coldsweat/internal/domain/repository"
	"github.com/Yathushan/coldsweat/internal/domain/valueobject"
	"github.com/Yathushan/coldsweat/pkg/logger"
)

// EntriesPerPage is the size of an entry list page.
const EntriesPerPage = 30

// ListEntriesUseCase pages through a user's entries by filter
type ListEntriesUseCase struct {
	entries repository.EntryRepository
	feeds   repository.FeedRepository
	logger  *logger.Logger
}

func NewListEntriesUseCase(
	entries repository.EntryRepository,
	feeds repository.FeedRepository,
	logger *logger.Logger,
) *ListEntriesUseCase {
	return &ListEntriesUseCase{
		entries: entries,
		feeds:   feeds,
		logger:  logger,
	}
}

// Execute returns the page starting at offset, newest entries first
func (uc *ListEntriesUseCase) Execute(
	ctx context.Context,
	userID int64,
	filter valueobject.EntryFilter,
	offset int,
) (*dto.EntryListDTO, error) {
	if offset < 0 {
		offset = 0
	}

	listCtx, err := buildListContext(ctx, uc.feeds, userID, filter)
	if err != nil {
		return nil, err
	}

	query := repository.EntryQuery{
		UserID: userID,
		Filter: filter,
		Offset: offset,
		Limit:  EntriesPerPage,
	}

	count, err := uc.entries.CountEntries(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count entries: %w", err)
	}

	entries, err := uc.entries.ListEntries(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	uc.logger.Debug("Listed entries",
		"user_id", userID,
		"filter", filter.QueryString(),
		"offset", offset,
		"count", len(entries),
	)

	return &dto.EntryListDTO{
		ListContext: *listCtx,
		Entries:     entries,
		Count:       count,
		NextOffset:  offset + EntriesPerPage,
	}, nil
}

// buildListContext resolves the titles of the filter. An unknown group or
// feed yields repository.ErrNotFound.
func buildListContext(
	ctx context.Context,
	feeds repository.FeedRepository,
	userID int64,
	filter valueobject.EntryFilter,
) (*dto.ListContext, error) {
	groups, err := feeds.ListGroupsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	listCtx := &dto.ListContext{
		Filter: filter,
		Groups: groups,
	}

	switch filter.Kind {
	case valueobject.FilterSaved:
		listCtx.PageTitle = "Saved"
	case valueobject.FilterAll:
		listCtx.PageTitle = "All"
	case valueobject.FilterGroup:
		group, err := feeds.FindGroupByID(ctx, filter.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to find group %d: %w", filter.ID, err)
		}
		listCtx.PageTitle = group.Title
	case valueobject.FilterFeed:
		feed, err := feeds.FindFeedByID(ctx, filter.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to find feed %d: %w", filter.ID, err)
		}
		listCtx.PageTitle = feed.DisplayTitle()
	default:
		listCtx.PageTitle = "Unread"
	}
	listCtx.PanelTitle = listCtx.PageTitle

	return listCtx, nil
}
