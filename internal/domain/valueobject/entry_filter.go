package valueobject

import (
	"fmt"
	"net/url"
	"strconv"
)

// FilterKind selects which entries of a user's subscriptions are listed.
type FilterKind string

const (
	FilterUnread FilterKind = "unread"
	FilterSaved  FilterKind = "saved"
	FilterAll    FilterKind = "all"
	FilterGroup  FilterKind = "group"
	FilterFeed   FilterKind = "feed"
)

// EntryFilter is a FilterKind plus the group or feed id it applies to.
type EntryFilter struct {
	Kind FilterKind
	ID   int64
}

// ParseEntryFilter reads the filter from query parameters. Precedence is
// saved, group, feed, all; anything else means unread.
func ParseEntryFilter(q url.Values) (EntryFilter, error) {
	switch {
	case q.Has("saved"):
		return EntryFilter{Kind: FilterSaved}, nil
	case q.Has("group"):
		id, err := parseID(q.Get("group"))
		if err != nil {
			return EntryFilter{}, fmt.Errorf("invalid group: %w", err)
		}
		return EntryFilter{Kind: FilterGroup, ID: id}, nil
	case q.Has("feed"):
		id, err := parseID(q.Get("feed"))
		if err != nil {
			return EntryFilter{}, fmt.Errorf("invalid feed: %w", err)
		}
		return EntryFilter{Kind: FilterFeed, ID: id}, nil
	case q.Has("all"):
		return EntryFilter{Kind: FilterAll}, nil
	default:
		return EntryFilter{Kind: FilterUnread}, nil
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("id must be positive, got %d", id)
	}
	return id, nil
}

// QueryString renders the filter back into the form ParseEntryFilter reads.
func (f EntryFilter) QueryString() string {
	switch f.Kind {
	case FilterGroup, FilterFeed:
		return fmt.Sprintf("%s=%d", f.Kind, f.ID)
	default:
		return string(f.Kind)
	}
}

// CSSClass is the navigation item highlighted for the filter.
func (f EntryFilter) CSSClass() string {
	switch f.Kind {
	case FilterGroup:
		return ""
	case FilterFeed:
		return "feeds"
	default:
		return string(f.Kind)
	}
}

// PanelIcon is the Font Awesome icon shown next to the panel title.
func (f EntryFilter) PanelIcon() string {
	switch f.Kind {
	case FilterSaved:
		return "fa-star"
	case FilterGroup:
		return "fa-folder-open"
	case FilterFeed:
		return "fa-rss"
	case FilterAll:
		return "fa-archive"
	default:
		return "fa-circle"
	}
}
