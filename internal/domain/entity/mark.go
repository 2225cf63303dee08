package entity

import "time"

// Read records that a user has read an entry.
type Read struct {
	UserID  int64
	EntryID int64
	ReadOn  time.Time
}

// Saved records that a user starred an entry.
type Saved struct {
	UserID  int64
	EntryID int64
	SavedOn time.Time
}
