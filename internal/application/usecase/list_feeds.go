package usecase

import (
	"context"
	"fmt"

	"github.com/Yathushan/coldsweat/internal/application/dto"
	"github.com/Yathushan/coldsweat/internal/domain/repository"
)

// FeedsPerPage is the size of a feed list page.
const FeedsPerPage = 60

// ListFeedsUseCase pages through a user's subscriptions by feed title
type ListFeedsUseCase struct {
	feeds repository.FeedRepository
}

func NewListFeedsUseCase(feeds repository.FeedRepository) *ListFeedsUseCase {
	return &ListFeedsUseCase{feeds: feeds}
}

func (uc *ListFeedsUseCase) Execute(ctx context.Context, userID int64, offset int) (*dto.FeedListDTO, error) {
	if offset < 0 {
		offset = 0
	}

	groups, err := uc.feeds.ListGroupsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	count, err := uc.feeds.CountFeedsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count feeds: %w", err)
	}

	feeds, err := uc.feeds.ListFeedsForUser(ctx, userID, offset, FeedsPerPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list feeds: %w", err)
	}

	return &dto.FeedListDTO{
		Feeds:      feeds,
		Groups:     groups,
		Count:      count,
		NextOffset: offset + FeedsPerPage,
	}, nil
}

// ShowFeedUseCase loads a feed with the user's groups for it
type ShowFeedUseCase struct {
	feeds repository.FeedRepository
}

func NewShowFeedUseCase(feeds repository.FeedRepository) *ShowFeedUseCase {
	return &ShowFeedUseCase{feeds: feeds}
}

func (uc *ShowFeedUseCase) Execute(ctx context.Context, userID, feedID int64) (*dto.FeedDetailDTO, error) {
	feed, err := uc.feeds.FindFeedByID(ctx, feedID)
	if err != nil {
		return nil, fmt.Errorf("failed to find feed %d: %w", feedID, err)
	}

	groups, err := uc.feeds.ListSubscriptionGroups(ctx, userID, feedID)
	if err != nil {
		return nil, fmt.Errorf("failed to list feed groups: %w", err)
	}

	return &dto.FeedDetailDTO{Feed: feed, Groups: groups}, nil
}
