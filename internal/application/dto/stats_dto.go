package dto

import (
	"time"

	"github.com/Yathushan/coldsweat/internal/domain/entity"
)

// StatsDTO carries instance counters. It is cached as JSON.
type StatsDTO struct {
	LastCheckedOn   *time.Time `json:"last_checked_on,omitempty"`
	EntryCount      int64      `json:"entry_count"`
	UnreadCount     int64      `json:"unread_count"`
	FeedCount       int64      `json:"feed_count"`
	ActiveFeedCount int64      `json:"active_feed_count"`
}

func StatsFromEntity(s *entity.Stats) *StatsDTO {
	return &StatsDTO{
		LastCheckedOn:   s.LastCheckedOn,
		EntryCount:      s.EntryCount,
		UnreadCount:     s.UnreadCount,
		FeedCount:       s.FeedCount,
		ActiveFeedCount: s.ActiveFeedCount,
	}
}
