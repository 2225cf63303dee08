package entity

// DefaultGroupTitle is created by setup and used when a subscription names
// no group.
const DefaultGroupTitle = "Default"

// Group is a feed folder.
type Group struct {
	ID    int64
	Title string
}
