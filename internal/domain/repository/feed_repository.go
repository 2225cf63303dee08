package repository

import (
	"context"

	"github.com/Yathushan/coldsweat/internal/domain/entity"
)

// FeedRepository stores feeds, groups and subscriptions.
type FeedRepository interface {
	// CreateFeed inserts feed and fills its ID
	CreateFeed(ctx context.Context, feed *entity.Feed) error
	FindFeedByID(ctx context.Context, id int64) (*entity.Feed, error)
	FindFeedBySelfLink(ctx context.Context, selfLink string) (*entity.Feed, error)

	// ListFeedsForUser returns subscribed feeds ordered by title
	ListFeedsForUser(ctx context.Context, userID int64, offset, limit int) ([]*entity.FeedView, error)
	CountFeedsForUser(ctx context.Context, userID int64) (int64, error)

	FindGroupByID(ctx context.Context, id int64) (*entity.Group, error)
	FindGroupByTitle(ctx context.Context, title string) (*entity.Group, error)
	// CreateGroup inserts group and fills its ID
	CreateGroup(ctx context.Context, group *entity.Group) error
	// ListGroupsForUser returns the distinct groups the user files feeds in, by title
	ListGroupsForUser(ctx context.Context, userID int64) ([]*entity.Group, error)
	// ListSubscriptionGroups returns the groups a feed is filed under for a user
	ListSubscriptionGroups(ctx context.Context, userID, feedID int64) ([]*entity.Group, error)

	// Subscribe files feed under group for user. It reports false when the
	// subscription already existed.
	Subscribe(ctx context.Context, sub *entity.Subscription) (bool, error)
}
