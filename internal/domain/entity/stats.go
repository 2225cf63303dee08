package entity

import "time"

// Stats are user-agnostic counters shown on the login page.
type Stats struct {
	LastCheckedOn   *time.Time
	EntryCount      int64
	UnreadCount     int64
	FeedCount       int64
	ActiveFeedCount int64
}
