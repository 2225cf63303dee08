package entity

import "time"

const DefaultContentType = "text/html"

// Entry is an Atom/RSS entry. GUID is the Atom "id".
type Entry struct {
	ID            int64
	GUID          string
	FeedID        int64
	Title         string
	ContentType   string
	Content       string
	LastUpdatedOn time.Time // UTC
	IsLocal       bool      // Link points to the entry itself

	Author string
	Link   string
}

func (e *Entry) LastUpdatedOnEpoch() int64 {
	return e.LastUpdatedOn.Unix()
}

// EntryView is an entry as seen by one user: joined with its feed and icon,
// and flagged with that user's read and saved marks.
type EntryView struct {
	Entry
	FeedTitle         string
	FeedAlternateLink string
	FeedSelfLink      string
	IconData          string
	IsRead            bool
	IsSaved           bool
}

// FeedDisplayTitle mirrors Feed.DisplayTitle for joined rows.
func (e *EntryView) FeedDisplayTitle() string {
	if e.FeedTitle != "" {
		return e.FeedTitle
	}
	return e.FeedSelfLink
}
