package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Yathushan/coldsweat/internal/domain/entity"
	"github.com/Yathushan/coldsweat/internal/domain/repository"
	"github.com/Yathushan/coldsweat/internal/domain/valueobject"
	"github.com/Yathushan/coldsweat/pkg/logger"
)

var baseTime = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

// seedEntries subscribes user 1 to one feed with n entries, one hour apart,
// the newest last.
func seedEntries(t *testing.T, store *memoryStore, n int) *entity.Feed {
	t.Helper()
	ctx := context.Background()

	checked := baseTime.Add(time.Duration(n) * time.Hour)
	feed := &entity.Feed{SelfLink: "https://example.com/feed", Title: "Example", IsEnabled: true, LastCheckedOn: &checked}
	_ = store.CreateFeed(ctx, feed)
	_, _ = store.Subscribe(ctx, &entity.Subscription{UserID: 1, GroupID: 1, FeedID: feed.ID})

	for i := 0; i < n; i++ {
		_ = store.CreateEntry(ctx, &entity.Entry{
			GUID:          fmt.Sprintf("urn:entry:%d", i),
			FeedID:        feed.ID,
			Title:         fmt.Sprintf("Entry %d", i),
			LastUpdatedOn: baseTime.Add(time.Duration(i) * time.Hour),
		})
	}
	return feed
}

func TestListEntriesUseCase_Paging(t *testing.T) {
	store := newMemoryStore()
	seedEntries(t, store, EntriesPerPage+5)
	uc := NewListEntriesUseCase(store, store, logger.Discard())

	first, err := uc.Execute(context.Background(), 1, valueobject.EntryFilter{Kind: valueobject.FilterUnread}, 0)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(first.Entries) != EntriesPerPage {
		t.Fatalf("first page has %d entries, want %d", len(first.Entries), EntriesPerPage)
	}
	if first.Count != EntriesPerPage+5 || !first.HasMore() {
		t.Fatalf("count = %d, has more = %v", first.Count, first.HasMore())
	}
	if first.Entries[0].Title != fmt.Sprintf("Entry %d", EntriesPerPage+4) {
		t.Fatalf("newest entry should come first, got %q", first.Entries[0].Title)
	}
	if first.PageTitle != "Unread" || len(first.Groups) != 1 {
		t.Fatalf("unexpected list context %+v", first.ListContext)
	}

	second, err := uc.Execute(context.Background(), 1, valueobject.EntryFilter{Kind: valueobject.FilterUnread}, first.NextOffset)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(second.Entries) != 5 || second.HasMore() {
		t.Fatalf("second page: %d entries, has more = %v", len(second.Entries), second.HasMore())
	}
}

func TestListEntriesUseCase_FilterTitles(t *testing.T) {
	store := newMemoryStore()
	feed := seedEntries(t, store, 2)
	uc := NewListEntriesUseCase(store, store, logger.Discard())

	tests := []struct {
		name   string
		filter valueobject.EntryFilter
		title  string
	}{
		{name: "saved", filter: valueobject.EntryFilter{Kind: valueobject.FilterSaved}, title: "Saved"},
		{name: "all", filter: valueobject.EntryFilter{Kind: valueobject.FilterAll}, title: "All"},
		{name: "group", filter: valueobject.EntryFilter{Kind: valueobject.FilterGroup, ID: 1}, title: entity.DefaultGroupTitle},
		{name: "feed", filter: valueobject.EntryFilter{Kind: valueobject.FilterFeed, ID: feed.ID}, title: "Example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := uc.Execute(context.Background(), 1, tt.filter, 0)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if list.PanelTitle != tt.title {
				t.Fatalf("panel title = %q, want %q", list.PanelTitle, tt.title)
			}
		})
	}

	_, err := uc.Execute(context.Background(), 1, valueobject.EntryFilter{Kind: valueobject.FilterGroup, ID: 99}, 0)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("unknown group error = %v, want ErrNotFound", err)
	}
}

func TestMarkEntryUseCase(t *testing.T) {
	store := newMemoryStore()
	seedEntries(t, store, 1)
	cache := newMemoryCache()
	uc := NewMarkEntryUseCase(store, cache, logger.Discard())
	ctx := context.Background()

	for _, status := range []valueobject.EntryStatus{
		valueobject.StatusRead,
		valueobject.StatusRead,
		valueobject.StatusSaved,
		valueobject.StatusUnread,
		valueobject.StatusUnread,
	} {
		if err := uc.Execute(ctx, 1, 1, status); err != nil {
			t.Fatalf("Execute(%s) error = %v", status, err)
		}
	}

	// Two read-state changes; the repeated marks and the save leave the counter alone.
	if len(cache.deleted) != 2 {
		t.Fatalf("stats cache invalidated %d times, want 2", len(cache.deleted))
	}

	key := markKey{1, 1}
	if _, ok := store.read[key]; ok {
		t.Fatal("entry should be unread")
	}
	if _, ok := store.saved[key]; !ok {
		t.Fatal("entry should be saved")
	}

	if err := uc.Execute(ctx, 1, 42, valueobject.StatusRead); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("unknown entry error = %v, want ErrNotFound", err)
	}
	if err := uc.Execute(ctx, 1, 1, valueobject.EntryStatus("starred")); err == nil {
		t.Fatal("expected an error for an unknown status")
	}
}

func TestShowEntryUseCase_MarksReadAndFindsNext(t *testing.T) {
	store := newMemoryStore()
	seedEntries(t, store, 3)
	marker := NewMarkEntryUseCase(store, nil, logger.Discard())
	uc := NewShowEntryUseCase(store, store, marker)

	detail, err := uc.Execute(context.Background(), 1, 3, valueobject.EntryFilter{Kind: valueobject.FilterUnread})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if _, ok := store.read[markKey{1, 3}]; !ok {
		t.Fatal("shown entry should be marked read")
	}
	if detail.PageTitle != "Entry 2" {
		t.Fatalf("page title = %q, want the entry title", detail.PageTitle)
	}
	if detail.Feed == nil || detail.Feed.Title != "Example" {
		t.Fatalf("feed not loaded: %+v", detail.Feed)
	}
	if detail.Next == nil || detail.Next.ID != 2 {
		t.Fatalf("next entry = %+v, want entry 2", detail.Next)
	}

	last, err := uc.Execute(context.Background(), 1, 1, valueobject.EntryFilter{Kind: valueobject.FilterUnread})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if last.Next != nil {
		t.Fatalf("oldest entry should have no next, got %d", last.Next.ID)
	}
}

func TestMarkAllReadUseCase(t *testing.T) {
	store := newMemoryStore()
	feed := seedEntries(t, store, 4)
	cache := newMemoryCache()
	uc := NewMarkAllReadUseCase(store, cache, logger.Discard())

	marked, err := uc.Execute(context.Background(), 1, feed.LastCheckedOn.Add(-time.Second))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if marked != 0 {
		t.Fatalf("feed checked after the cut-off should be skipped, marked %d", marked)
	}
	if len(cache.deleted) != 0 {
		t.Fatalf("nothing marked, yet stats cache invalidated: %v", cache.deleted)
	}

	marked, err = uc.Execute(context.Background(), 1, feed.LastCheckedOn.Add(time.Second))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if marked != 4 {
		t.Fatalf("marked %d entries, want 4", marked)
	}
	if len(cache.deleted) != 1 || cache.deleted[0] != StatsCacheKey {
		t.Fatalf("stats cache should be invalidated once, deleted %v", cache.deleted)
	}
}
