package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Yathushan/coldsweat/internal/application/dto"
	"github.com/Yathushan/coldsweat/internal/application/port"
	"github.com/Yathushan/coldsweat/internal/domain/entity"
	"github.com/Yathushan/coldsweat/internal/domain/repository"
	"github.com/Yathushan/coldsweat/internal/domain/service"
	"github.com/Yathushan/coldsweat/pkg/logger"
)

// AddFeedInput is a subscription request. GroupID 0 files the feed under
// the default group.
type AddFeedInput struct {
	UserID   int64
	SelfLink string
	GroupID  int64
}

// AddFeedUseCase subscribes a user to a feed. Fetching the feed itself is
// left to whoever listens on the feed-added subject.
type AddFeedUseCase struct {
	feeds     repository.FeedRepository
	checker   port.URLChecker
	publisher port.EventPublisher
	cache     port.Cache
	subject   string
	logger    *logger.Logger
	now       func() time.Time
}

func NewAddFeedUseCase(
	feeds repository.FeedRepository,
	checker port.URLChecker,
	publisher port.EventPublisher,
	cache port.Cache,
	subject string,
	logger *logger.Logger,
) *AddFeedUseCase {
	return &AddFeedUseCase{
		feeds:     feeds,
		checker:   checker,
		publisher: publisher,
		cache:     cache,
		subject:   subject,
		logger:    logger,
		now:       time.Now,
	}
}

// Execute validates and checks the URL, then files the feed. It returns
// ErrInvalidFeedURL, ErrFeedUnreachable or a *HostStatusError when the URL is
// unusable.
func (uc *AddFeedUseCase) Execute(ctx context.Context, in AddFeedInput) (*dto.AddFeedDTO, error) {
	selfLink := strings.TrimSpace(in.SelfLink)
	if !service.IsValidFeedURL(selfLink) {
		return nil, ErrInvalidFeedURL
	}

	status, err := uc.checker.Status(ctx, selfLink)
	if err != nil {
		uc.logger.Warn("Feed check failed", "url", selfLink, "error", err.Error())
		return nil, fmt.Errorf("%w: %v", ErrFeedUnreachable, err)
	}
	if service.IsRejectedCheckStatus(status) {
		return nil, &HostStatusError{Status: status}
	}

	group, err := uc.resolveGroup(ctx, in.GroupID)
	if err != nil {
		return nil, err
	}

	feed, created, err := uc.findOrCreateFeed(ctx, selfLink)
	if err != nil {
		return nil, err
	}

	subscribed, err := uc.feeds.Subscribe(ctx, &entity.Subscription{
		UserID:  in.UserID,
		GroupID: group.ID,
		FeedID:  feed.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	uc.logger.Info("Feed added",
		"user_id", in.UserID,
		"feed_id", feed.ID,
		"group", group.Title,
		"new_feed", created,
		"new_subscription", subscribed,
	)

	if subscribed {
		uc.notify(ctx, in.UserID, group, feed, created)
	}

	return &dto.AddFeedDTO{
		Feed:       feed,
		Group:      group,
		Subscribed: subscribed,
		Created:    created,
	}, nil
}

// Groups lists the groups a feed can be filed under: the user's groups and
// the default group.
func (uc *AddFeedUseCase) Groups(ctx context.Context, userID int64) ([]*entity.Group, error) {
	groups, err := uc.feeds.ListGroupsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	for _, g := range groups {
		if g.Title == entity.DefaultGroupTitle {
			return groups, nil
		}
	}

	def, err := uc.feeds.FindGroupByTitle(ctx, entity.DefaultGroupTitle)
	if errors.Is(err, repository.ErrNotFound) {
		return groups, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find default group: %w", err)
	}
	return append([]*entity.Group{def}, groups...), nil
}

func (uc *AddFeedUseCase) resolveGroup(ctx context.Context, groupID int64) (*entity.Group, error) {
	if groupID > 0 {
		group, err := uc.feeds.FindGroupByID(ctx, groupID)
		if err != nil {
			return nil, fmt.Errorf("failed to find group %d: %w", groupID, err)
		}
		return group, nil
	}

	group, err := uc.feeds.FindGroupByTitle(ctx, entity.DefaultGroupTitle)
	if err == nil {
		return group, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to find default group: %w", err)
	}

	group = &entity.Group{Title: entity.DefaultGroupTitle}
	if err := uc.feeds.CreateGroup(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (uc *AddFeedUseCase) findOrCreateFeed(ctx context.Context, selfLink string) (*entity.Feed, bool, error) {
	feed, err := uc.feeds.FindFeedBySelfLink(ctx, selfLink)
	if err == nil {
		return feed, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to find feed: %w", err)
	}

	feed = &entity.Feed{
		SelfLink:  selfLink,
		IsEnabled: true,
		IconID:    entity.DefaultIconID,
	}
	if err := uc.feeds.CreateFeed(ctx, feed); err != nil {
		return nil, false, err
	}
	return feed, true, nil
}

// notify is best effort: the subscription is already stored.
func (uc *AddFeedUseCase) notify(ctx context.Context, userID int64, group *entity.Group, feed *entity.Feed, created bool) {
	if created {
		invalidateStats(ctx, uc.cache, uc.logger)
	}

	if uc.publisher == nil {
		return
	}

	event := port.FeedAddedEvent{
		FeedID:   feed.ID,
		SelfLink: feed.SelfLink,
		UserID:   userID,
		GroupID:  group.ID,
		IsNew:    created,
		AddedOn:  uc.now().UTC(),
	}
	if err := uc.publisher.PublishEvent(ctx, uc.subject, event); err != nil {
		uc.logger.Warn("Failed to publish feed event", "feed_id", feed.ID, "error", err.Error())
	}
}
