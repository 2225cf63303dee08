package dto

import "github.com/Yathushan/coldsweat/internal/domain/entity"

// FeedListDTO is one page of subscribed feeds.
type FeedListDTO struct {
	Feeds      []*entity.FeedView
	Groups     []*entity.Group
	Count      int64
	NextOffset int
}

func (d *FeedListDTO) HasMore() bool {
	return int64(d.NextOffset) < d.Count
}

// FeedDetailDTO is a feed and the groups the user filed it under.
type FeedDetailDTO struct {
	Feed   *entity.Feed
	Groups []*entity.Group
}

// AddFeedDTO reports the outcome of a subscription request.
type AddFeedDTO struct {
	Feed  *entity.Feed
	Group *entity.Group
	// Subscribed is false when the feed already was in the group
	Subscribed bool
	// Created is true when nobody had subscribed to the feed before
	Created bool
}
