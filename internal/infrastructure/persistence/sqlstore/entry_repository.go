package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Yathushan/coldsweat/internal/domain/entity"
	"github.com/Yathushan/coldsweat/internal/domain/repository"
	"github.com/Yathushan/coldsweat/internal/domain/valueobject"
)

func (s *Store) CreateEntry(ctx context.Context, entry *entity.Entry) error {
	if entry.ContentType == "" {
		entry.ContentType = entity.DefaultContentType
	}

	err := s.queryRow(ctx, `
		INSERT INTO entries (guid, feed_id, title, content_type, content, last_updated_on, is_local, author, link)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		entry.GUID,
		entry.FeedID,
		entry.Title,
		entry.ContentType,
		entry.Content,
		utc(entry.LastUpdatedOn),
		entry.IsLocal,
		nullString(entry.Author),
		nullString(entry.Link),
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

func (s *Store) FindEntryByID(ctx context.Context, id int64) (*entity.Entry, error) {
	entry, err := scanEntry(s.queryRow(ctx, `SELECT `+entryColumns+` FROM entries e WHERE e.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan entry: %w", err)
	}
	return entry, nil
}

// entryConditions builds the WHERE clause shared by ListEntries and
// CountEntries.
func entryConditions(q repository.EntryQuery) (string, []interface{}) {
	subscribed := `e.feed_id IN (SELECT sub.feed_id FROM subscriptions sub WHERE sub.user_id = ?`
	args := []interface{}{q.UserID}
	if q.Filter.Kind == valueobject.FilterGroup {
		subscribed += ` AND sub.group_id = ?`
		args = append(args, q.Filter.ID)
	}
	conditions := []string{subscribed + `)`}

	switch q.Filter.Kind {
	case valueobject.FilterSaved:
		conditions = append(conditions, `e.id IN (SELECT s.entry_id FROM saved_entries s WHERE s.user_id = ?)`)
		args = append(args, q.UserID)
	case valueobject.FilterFeed:
		conditions = append(conditions, `e.feed_id = ?`)
		args = append(args, q.Filter.ID)
	case valueobject.FilterAll, valueobject.FilterGroup:
	default:
		conditions = append(conditions, `e.id NOT IN (SELECT r.entry_id FROM read_entries r WHERE r.user_id = ?)`)
		args = append(args, q.UserID)
	}

	if q.Before != nil {
		conditions = append(conditions, `e.last_updated_on < ?`)
		args = append(args, utc(*q.Before))
	}

	return strings.Join(conditions, " AND "), args
}

func (s *Store) ListEntries(ctx context.Context, q repository.EntryQuery) ([]*entity.EntryView, error) {
	where, whereArgs := entryConditions(q)

	query := `
		SELECT ` + entryColumns + `,
			f.title, f.alternate_link, f.self_link, i.data,
			EXISTS (SELECT 1 FROM read_entries r WHERE r.entry_id = e.id AND r.user_id = ?),
			EXISTS (SELECT 1 FROM saved_entries s WHERE s.entry_id = e.id AND s.user_id = ?)
		FROM entries e
		JOIN feeds f ON f.id = e.feed_id
		JOIN icons i ON i.id = f.icon_id
		WHERE ` + where + `
		ORDER BY e.last_updated_on DESC, e.id DESC`
	args := append([]interface{}{q.UserID, q.UserID}, whereArgs...)

	if q.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, q.Limit, q.Offset)
	}

	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []*entity.EntryView
	for rows.Next() {
		var (
			view          entity.EntryView
			feedTitle     sql.NullString
			alternateLink sql.NullString
		)
		entry, err := scanEntry(rows,
			&feedTitle,
			&alternateLink,
			&view.FeedSelfLink,
			&view.IconData,
			&view.IsRead,
			&view.IsSaved,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		view.Entry = *entry
		view.FeedTitle = feedTitle.String
		view.FeedAlternateLink = alternateLink.String
		entries = append(entries, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return entries, nil
}

func (s *Store) CountEntries(ctx context.Context, q repository.EntryQuery) (int64, error) {
	where, args := entryConditions(q)

	var count int64
	if err := s.queryRow(ctx, `SELECT COUNT(*) FROM entries e WHERE `+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return count, nil
}

func (s *Store) MarkRead(ctx context.Context, userID, entryID int64, at time.Time) (bool, error) {
	return s.applyMark(ctx, `
		INSERT INTO read_entries (user_id, entry_id, read_on) VALUES (?, ?, ?)
		ON CONFLICT (user_id, entry_id) DO NOTHING`,
		userID, entryID, utc(at),
	)
}

func (s *Store) UnmarkRead(ctx context.Context, userID, entryID int64) (bool, error) {
	return s.applyMark(ctx, `DELETE FROM read_entries WHERE user_id = ? AND entry_id = ?`, userID, entryID)
}

func (s *Store) MarkSaved(ctx context.Context, userID, entryID int64, at time.Time) (bool, error) {
	return s.applyMark(ctx, `
		INSERT INTO saved_entries (user_id, entry_id, saved_on) VALUES (?, ?, ?)
		ON CONFLICT (user_id, entry_id) DO NOTHING`,
		userID, entryID, utc(at),
	)
}

func (s *Store) UnmarkSaved(ctx context.Context, userID, entryID int64) (bool, error) {
	return s.applyMark(ctx, `DELETE FROM saved_entries WHERE user_id = ? AND entry_id = ?`, userID, entryID)
}

// applyMark runs a mark statement and reports whether it changed a row.
func (s *Store) applyMark(ctx context.Context, query string, args ...interface{}) (bool, error) {
	res, err := s.exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update mark: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

func (s *Store) MarkAllRead(ctx context.Context, userID int64, before, at time.Time) (int64, error) {
	res, err := s.exec(ctx, `
		INSERT INTO read_entries (user_id, entry_id, read_on)
		SELECT `+s.typed("BIGINT")+`, e.id, `+s.typed("TIMESTAMP")+`
		FROM entries e
		JOIN feeds f ON f.id = e.feed_id
		WHERE e.feed_id IN (SELECT sub.feed_id FROM subscriptions sub WHERE sub.user_id = ?)
			AND f.last_checked_on < ?
			AND e.id NOT IN (SELECT r.entry_id FROM read_entries r WHERE r.user_id = ?)
		ON CONFLICT (user_id, entry_id) DO NOTHING`,
		userID, utc(at), userID, utc(before), userID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark entries read: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n, nil
}
