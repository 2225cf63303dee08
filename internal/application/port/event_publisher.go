package port

import (
	"context"
	"time"
)

// FeedAddedEvent is published when a user subscribes to a feed, so that an
// out-of-process fetcher can pick it up.
type FeedAddedEvent struct {
	FeedID   int64     `json:"feed_id"`
	SelfLink string    `json:"self_link"`
	UserID   int64     `json:"user_id"`
	GroupID  int64     `json:"group_id"`
	IsNew    bool      `json:"is_new"`
	AddedOn  time.Time `json:"added_on"`
}

// EventPublisher publishes events to a message broker
type EventPublisher interface {
	// PublishEvent publishes an event to the specified subject
	PublishEvent(ctx context.Context, subject string, event interface{}) error

	// Close flushes pending events and closes the connection
	Close() error
}
