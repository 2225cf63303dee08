package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Yathushan/coldsweat/internal/domain/entity"
	"github.com/Yathushan/coldsweat/internal/domain/repository"
)

func (s *Store) CreateFeed(ctx context.Context, feed *entity.Feed) error {
	if feed.IconID == 0 {
		feed.IconID = entity.DefaultIconID
	}

	err := s.queryRow(ctx, `
		INSERT INTO feeds (is_enabled, icon_id, self_link, error_count, title, alternate_link,
			etag, last_updated_on, last_checked_on, last_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		feed.IsEnabled,
		feed.IconID,
		feed.SelfLink,
		feed.ErrorCount,
		nullString(feed.Title),
		nullString(feed.AlternateLink),
		nullString(feed.ETag),
		nullTime(feed.LastUpdatedOn),
		nullTime(feed.LastCheckedOn),
		nullInt(feed.LastStatus),
	).Scan(&feed.ID)
	if err != nil {
		return fmt.Errorf("failed to insert feed: %w", err)
	}
	return nil
}

func (s *Store) FindFeedByID(ctx context.Context, id int64) (*entity.Feed, error) {
	return s.findFeed(ctx, `WHERE f.id = ?`, id)
}

func (s *Store) FindFeedBySelfLink(ctx context.Context, selfLink string) (*entity.Feed, error) {
	return s.findFeed(ctx, `WHERE f.self_link = ?`, selfLink)
}

func (s *Store) findFeed(ctx context.Context, where string, args ...interface{}) (*entity.Feed, error) {
	row := s.queryRow(ctx, `SELECT `+feedColumns+` FROM feeds f `+where, args...)
	feed, err := scanFeed(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan feed: %w", err)
	}
	return feed, nil
}

func (s *Store) ListFeedsForUser(ctx context.Context, userID int64, offset, limit int) ([]*entity.FeedView, error) {
	rows, err := s.query(ctx, `
		SELECT `+feedColumns+`, i.data
		FROM feeds f
		JOIN icons i ON i.id = f.icon_id
		WHERE f.id IN (SELECT sub.feed_id FROM subscriptions sub WHERE sub.user_id = ?)
		ORDER BY LOWER(COALESCE(f.title, f.self_link)), f.id
		LIMIT ? OFFSET ?`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query feeds: %w", err)
	}
	defer rows.Close()

	feeds := make([]*entity.FeedView, 0, limit)
	for rows.Next() {
		var iconData string
		feed, err := scanFeed(rows, &iconData)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feed: %w", err)
		}
		feeds = append(feeds, &entity.FeedView{Feed: *feed, IconData: iconData})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return feeds, nil
}

func (s *Store) CountFeedsForUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := s.queryRow(ctx, `
		SELECT COUNT(DISTINCT feed_id) FROM subscriptions WHERE user_id = ?`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count feeds: %w", err)
	}
	return count, nil
}

func (s *Store) FindGroupByID(ctx context.Context, id int64) (*entity.Group, error) {
	return s.findGroup(ctx, `WHERE id = ?`, id)
}

func (s *Store) FindGroupByTitle(ctx context.Context, title string) (*entity.Group, error) {
	return s.findGroup(ctx, `WHERE title = ?`, title)
}

func (s *Store) findGroup(ctx context.Context, where string, args ...interface{}) (*entity.Group, error) {
	group, err := scanGroup(s.queryRow(ctx, `SELECT id, title FROM feed_groups `+where, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan group: %w", err)
	}
	return group, nil
}

func (s *Store) CreateGroup(ctx context.Context, group *entity.Group) error {
	err := s.queryRow(ctx, `INSERT INTO feed_groups (title) VALUES (?) RETURNING id`, group.Title).Scan(&group.ID)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}
	return nil
}

func (s *Store) ListGroupsForUser(ctx context.Context, userID int64) ([]*entity.Group, error) {
	return s.listGroups(ctx, `
		SELECT g.id, g.title
		FROM feed_groups g
		WHERE g.id IN (SELECT sub.group_id FROM subscriptions sub WHERE sub.user_id = ?)
		ORDER BY g.title`,
		userID,
	)
}

func (s *Store) ListSubscriptionGroups(ctx context.Context, userID, feedID int64) ([]*entity.Group, error) {
	return s.listGroups(ctx, `
		SELECT g.id, g.title
		FROM feed_groups g
		JOIN subscriptions sub ON sub.group_id = g.id
		WHERE sub.user_id = ? AND sub.feed_id = ?
		ORDER BY g.title`,
		userID, feedID,
	)
}

func (s *Store) listGroups(ctx context.Context, query string, args ...interface{}) ([]*entity.Group, error) {
	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer rows.Close()

	var groups []*entity.Group
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return groups, nil
}

func (s *Store) Subscribe(ctx context.Context, sub *entity.Subscription) (bool, error) {
	err := s.queryRow(ctx, `
		INSERT INTO subscriptions (user_id, group_id, feed_id)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, group_id, feed_id) DO NOTHING
		RETURNING id`,
		sub.UserID, sub.GroupID, sub.FeedID,
	).Scan(&sub.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert subscription: %w", err)
	}
	return true, nil
}
