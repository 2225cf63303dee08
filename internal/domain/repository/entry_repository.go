package repository

import (
	"context"
	"time"

	"github.com/Yathushan/coldsweat/internal/domain/entity"
	"github.com/Yathushan/coldsweat/internal/domain/valueobject"
)

// EntryQuery selects a user's entries.
type EntryQuery struct {
	UserID int64
	Filter valueobject.EntryFilter
	// Before, when set, keeps entries updated strictly before it
	Before *time.Time
	Offset int
	Limit  int
}

// EntryRepository reads entries and stores per-user marks.
type EntryRepository interface {
	// CreateEntry inserts entry and fills its ID
	CreateEntry(ctx context.Context, entry *entity.Entry) error
	FindEntryByID(ctx context.Context, id int64) (*entity.Entry, error)

	// ListEntries returns entries newest first
	ListEntries(ctx context.Context, query EntryQuery) ([]*entity.EntryView, error)
	CountEntries(ctx context.Context, query EntryQuery) (int64, error)

	// Mark methods report false when the mark was already in the wanted state
	MarkRead(ctx context.Context, userID, entryID int64, at time.Time) (bool, error)
	UnmarkRead(ctx context.Context, userID, entryID int64) (bool, error)
	MarkSaved(ctx context.Context, userID, entryID int64, at time.Time) (bool, error)
	UnmarkSaved(ctx context.Context, userID, entryID int64) (bool, error)

	// MarkAllRead marks every unread entry of the user's subscriptions whose
	// feed was last checked before the given time, returning how many were marked
	MarkAllRead(ctx context.Context, userID int64, before, at time.Time) (int64, error)
}
