package sqlstore

import (
	"database/sql"
	"time"

	"github.com/Yathushan/coldsweat/internal/domain/entity"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

const userColumns = `id, username, password_hash, email, api_key, is_enabled, created_on`

func scanUser(row rowScanner) (*entity.User, error) {
	var (
		user  entity.User
		email sql.NullString
	)
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&email,
		&user.APIKey,
		&user.IsEnabled,
		&user.CreatedOn,
	); err != nil {
		return nil, err
	}
	user.Email = email.String
	return &user, nil
}

const feedColumns = `f.id, f.is_enabled, f.icon_id, f.self_link, f.error_count, f.title,
	f.alternate_link, f.etag, f.last_updated_on, f.last_checked_on, f.last_status`

func scanFeed(row rowScanner, extra ...interface{}) (*entity.Feed, error) {
	var (
		feed          entity.Feed
		title         sql.NullString
		alternateLink sql.NullString
		etag          sql.NullString
		lastUpdatedOn sql.NullTime
		lastCheckedOn sql.NullTime
		lastStatus    sql.NullInt64
	)
	dest := []interface{}{
		&feed.ID,
		&feed.IsEnabled,
		&feed.IconID,
		&feed.SelfLink,
		&feed.ErrorCount,
		&title,
		&alternateLink,
		&etag,
		&lastUpdatedOn,
		&lastCheckedOn,
		&lastStatus,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	feed.Title = title.String
	feed.AlternateLink = alternateLink.String
	feed.ETag = etag.String
	feed.LastUpdatedOn = nullTimePtr(lastUpdatedOn)
	feed.LastCheckedOn = nullTimePtr(lastCheckedOn)
	feed.LastStatus = int(lastStatus.Int64)
	return &feed, nil
}

const entryColumns = `e.id, e.guid, e.feed_id, e.title, e.content_type, e.content,
	e.last_updated_on, e.is_local, e.author, e.link`

func scanEntry(row rowScanner, extra ...interface{}) (*entity.Entry, error) {
	var (
		entry  entity.Entry
		author sql.NullString
		link   sql.NullString
	)
	dest := []interface{}{
		&entry.ID,
		&entry.GUID,
		&entry.FeedID,
		&entry.Title,
		&entry.ContentType,
		&entry.Content,
		&entry.LastUpdatedOn,
		&entry.IsLocal,
		&author,
		&link,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	entry.Author = author.String
	entry.Link = link.String
	return &entry, nil
}

func scanGroup(row rowScanner) (*entity.Group, error) {
	var group entity.Group
	if err := row.Scan(&group.ID, &group.Title); err != nil {
		return nil, err
	}
	return &group, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: utc(*t), Valid: true}
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}
