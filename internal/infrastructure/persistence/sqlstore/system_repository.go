package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Yathushan/coldsweat/internal/domain/entity"
)

// Bootstrap creates the default group and the default icon that new feeds
// point at.
func (s *Store) Bootstrap(ctx context.Context) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var groupID int64
	err = tx.QueryRowContext(ctx, s.rebind(`
		INSERT INTO feed_groups (title) VALUES (?)
		ON CONFLICT (title) DO NOTHING
		RETURNING id`),
		entity.DefaultGroupTitle,
	).Scan(&groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert default group: %w", err)
	}

	var iconID int64
	err = tx.QueryRowContext(ctx, s.rebind(`
		INSERT INTO icons (data) VALUES (?) RETURNING id`),
		entity.DefaultFavicon,
	).Scan(&iconID)
	if err != nil {
		return false, fmt.Errorf("failed to insert default icon: %w", err)
	}
	if iconID != entity.DefaultIconID {
		return false, fmt.Errorf("default icon got id %d, want %d", iconID, entity.DefaultIconID)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit bootstrap: %w", err)
	}
	return true, nil
}

func (s *Store) Stats(ctx context.Context) (*entity.Stats, error) {
	var stats entity.Stats

	var lastChecked sql.NullTime
	err := s.queryRow(ctx, `
		SELECT last_checked_on FROM feeds
		WHERE last_checked_on IS NOT NULL
		ORDER BY last_checked_on DESC
		LIMIT 1`,
	).Scan(&lastChecked)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to query last check: %w", err)
	}
	stats.LastCheckedOn = nullTimePtr(lastChecked)

	counters := []struct {
		query string
		args  []interface{}
		dest  *int64
	}{
		{query: `SELECT COUNT(*) FROM entries`, dest: &stats.EntryCount},
		{query: `SELECT COUNT(*) FROM entries e WHERE e.id NOT IN (SELECT r.entry_id FROM read_entries r)`, dest: &stats.UnreadCount},
		{query: `SELECT COUNT(*) FROM feeds`, dest: &stats.FeedCount},
		{query: `SELECT COUNT(*) FROM feeds WHERE is_enabled = ?`, args: []interface{}{true}, dest: &stats.ActiveFeedCount},
	}
	for _, c := range counters {
		if err := s.queryRow(ctx, c.query, c.args...).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("failed to count stats: %w", err)
		}
	}

	return &stats, nil
}
