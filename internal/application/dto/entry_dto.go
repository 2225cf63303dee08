package dto

import (
	"github.com/Yathushan/coldsweat/internal/domain/entity"
	"github.com/Yathushan/coldsweat/internal/domain/valueobject"
)

// ListContext is what every entry page shows around its content: the active
// filter, its panel and page titles and the sidebar groups.
type ListContext struct {
	Filter     valueobject.EntryFilter
	PanelTitle string
	PageTitle  string
	Groups     []*entity.Group
}

// EntryListDTO is one page of entries.
type EntryListDTO struct {
	ListContext
	Entries []*entity.EntryView
	Count   int64
	// NextOffset is the offset of the following page
	NextOffset int
}

// HasMore reports whether a page follows this one.
func (d *EntryListDTO) HasMore() bool {
	return int64(d.NextOffset) < d.Count
}

// EntryDetailDTO is a single entry with a link to the next, older one in the
// same filter.
type EntryDetailDTO struct {
	ListContext
	Entry *entity.Entry
	Feed  *entity.Feed
	Next  *entity.EntryView
}
