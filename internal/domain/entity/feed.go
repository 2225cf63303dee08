package entity

import "time"

// Feed is an Atom/RSS feed shared by all subscribers.
type Feed struct {
	ID         int64
	IsEnabled  bool
	IconID     int64
	SelfLink   string // rel=self
	ErrorCount int

	Title         string
	AlternateLink string // rel=alternate, the HTML page of the feed
	ETag          string
	LastUpdatedOn *time.Time // UTC
	LastCheckedOn *time.Time // UTC
	LastStatus    int        // last HTTP status, 0 when never fetched
}

// LastUpdatedOnEpoch returns the last update as Unix seconds, 0 if the feed
// was never updated.
func (f *Feed) LastUpdatedOnEpoch() int64 {
	if f.LastUpdatedOn == nil {
		return 0
	}
	return f.LastUpdatedOn.Unix()
}

// DisplayTitle falls back to the self link for feeds not fetched yet.
func (f *Feed) DisplayTitle() string {
	if f.Title != "" {
		return f.Title
	}
	return f.SelfLink
}

// FeedView is a feed joined with its icon, as listed to a subscriber.
type FeedView struct {
	Feed
	IconData string
}
