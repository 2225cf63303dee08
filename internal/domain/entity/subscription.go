package entity

// Subscription files a feed under a group for a user.
type Subscription struct {
	ID      int64
	UserID  int64
	GroupID int64
	FeedID  int64
}
