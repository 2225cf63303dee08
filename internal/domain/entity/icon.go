package entity

// Icon is a feed favicon stored as a data URI.
type Icon struct {
	ID   int64
	Data string
}

// DefaultIconID is the icon created by setup; new feeds point to it until a
// fetcher finds a better one.
const DefaultIconID int64 = 1

// DefaultFavicon is a 1x1 transparent GIF.
const DefaultFavicon = "data:image/gif;base64,R0lGODlhAQABAIAAAAAAAP///yH5BAEAAAAALAAAAAABAAEAAAIBRAA7"
