package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/Yathushan/coldsweat/internal/application/port"
	"github.com/Yathushan/coldsweat/internal/domain/entity"
	"github.com/Yathushan/coldsweat/internal/domain/repository"
	"github.com/Yathushan/coldsweat/internal/domain/valueobject"
)

type markKey struct{ user, entry int64 }

// memoryStore is an in-memory version of the SQL store, good enough for
// use case tests.
type memoryStore struct {
	mu sync.Mutex

	users   []*entity.User
	groups  []*entity.Group
	feeds   []*entity.Feed
	entries []*entity.Entry
	subs    []*entity.Subscription
	read    map[markKey]time.Time
	saved   map[markKey]time.Time

	stats          *entity.Stats
	statsCalls     int
	migrations     []string
	bootstrapCalls int
}

var (
	_ repository.UserRepository   = (*memoryStore)(nil)
	_ repository.FeedRepository   = (*memoryStore)(nil)
	_ repository.EntryRepository  = (*memoryStore)(nil)
	_ repository.SystemRepository = (*memoryStore)(nil)
)

func newMemoryStore() *memoryStore {
	return &memoryStore{
		groups: []*entity.Group{{ID: 1, Title: entity.DefaultGroupTitle}},
		read:   make(map[markKey]time.Time),
		saved:  make(map[markKey]time.Time),
		stats:  &entity.Stats{},
	}
}

func (m *memoryStore) CreateUser(_ context.Context, user *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = int64(len(m.users) + 1)
	m.users = append(m.users, user)
	return nil
}

func (m *memoryStore) findUser(match func(*entity.User) bool) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryStore) FindUserByID(_ context.Context, id int64) (*entity.User, error) {
	return m.findUser(func(u *entity.User) bool { return u.ID == id })
}

func (m *memoryStore) FindUserByUsername(_ context.Context, username string) (*entity.User, error) {
	return m.findUser(func(u *entity.User) bool { return u.Username == username })
}

func (m *memoryStore) FindUserByAPIKey(_ context.Context, apiKey string) (*entity.User, error) {
	return m.findUser(func(u *entity.User) bool { return u.APIKey == apiKey && u.IsEnabled })
}

func (m *memoryStore) CreateFeed(_ context.Context, feed *entity.Feed) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	feed.ID = int64(len(m.feeds) + 1)
	m.feeds = append(m.feeds, feed)
	return nil
}

func (m *memoryStore) FindFeedByID(_ context.Context, id int64) (*entity.Feed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.feeds {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryStore) FindFeedBySelfLink(_ context.Context, selfLink string) (*entity.Feed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.feeds {
		if f.SelfLink == selfLink {
			return f, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryStore) subscribedFeeds(userID, groupID int64) map[int64]bool {
	ids := make(map[int64]bool)
	for _, s := range m.subs {
		if s.UserID == userID && (groupID == 0 || s.GroupID == groupID) {
			ids[s.FeedID] = true
		}
	}
	return ids
}

func (m *memoryStore) ListFeedsForUser(_ context.Context, userID int64, offset, limit int) ([]*entity.FeedView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := m.subscribedFeeds(userID, 0)
	var views []*entity.FeedView
	for _, f := range m.feeds {
		if ids[f.ID] {
			views = append(views, &entity.FeedView{Feed: *f, IconData: entity.DefaultFavicon})
		}
	}
	sort.Slice(views, func(i, j int) bool { return views[i].DisplayTitle() < views[j].DisplayTitle() })
	return page(views, offset, limit), nil
}

func (m *memoryStore) CountFeedsForUser(_ context.Context, userID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.subscribedFeeds(userID, 0))), nil
}

func (m *memoryStore) FindGroupByID(_ context.Context, id int64) (*entity.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.groups {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryStore) FindGroupByTitle(_ context.Context, title string) (*entity.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.groups {
		if g.Title == title {
			return g, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryStore) CreateGroup(_ context.Context, group *entity.Group) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	group.ID = int64(len(m.groups) + 1)
	m.groups = append(m.groups, group)
	return nil
}

func (m *memoryStore) ListGroupsForUser(_ context.Context, userID int64) ([]*entity.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[int64]bool)
	var groups []*entity.Group
	for _, s := range m.subs {
		if s.UserID != userID || seen[s.GroupID] {
			continue
		}
		seen[s.GroupID] = true
		for _, g := range m.groups {
			if g.ID == s.GroupID {
				groups = append(groups, g)
			}
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Title < groups[j].Title })
	return groups, nil
}

func (m *memoryStore) ListSubscriptionGroups(_ context.Context, userID, feedID int64) ([]*entity.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var groups []*entity.Group
	for _, s := range m.subs {
		if s.UserID != userID || s.FeedID != feedID {
			continue
		}
		for _, g := range m.groups {
			if g.ID == s.GroupID {
				groups = append(groups, g)
			}
		}
	}
	return groups, nil
}

func (m *memoryStore) Subscribe(_ context.Context, sub *entity.Subscription) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.subs {
		if s.UserID == sub.UserID && s.GroupID == sub.GroupID && s.FeedID == sub.FeedID {
			return false, nil
		}
	}
	sub.ID = int64(len(m.subs) + 1)
	m.subs = append(m.subs, sub)
	return true, nil
}

func (m *memoryStore) CreateEntry(_ context.Context, entry *entity.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memoryStore) FindEntryByID(_ context.Context, id int64) (*entity.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryStore) matching(q repository.EntryQuery) []*entity.EntryView {
	var groupID int64
	if q.Filter.Kind == valueobject.FilterGroup {
		groupID = q.Filter.ID
	}
	feeds := m.subscribedFeeds(q.UserID, groupID)

	var views []*entity.EntryView
	for _, e := range m.entries {
		if !feeds[e.FeedID] {
			continue
		}
		key := markKey{q.UserID, e.ID}
		_, isRead := m.read[key]
		_, isSaved := m.saved[key]

		switch q.Filter.Kind {
		case valueobject.FilterSaved:
			if !isSaved {
				continue
			}
		case valueobject.FilterFeed:
			if e.FeedID != q.Filter.ID {
				continue
			}
		case valueobject.FilterAll, valueobject.FilterGroup:
		default:
			if isRead {
				continue
			}
		}
		if q.Before != nil && !e.LastUpdatedOn.Before(*q.Before) {
			continue
		}
		views = append(views, &entity.EntryView{Entry: *e, IsRead: isRead, IsSaved: isSaved})
	}

	sort.Slice(views, func(i, j int) bool {
		if views[i].LastUpdatedOn.Equal(views[j].LastUpdatedOn) {
			return views[i].ID > views[j].ID
		}
		return views[i].LastUpdatedOn.After(views[j].LastUpdatedOn)
	})
	return views
}

func (m *memoryStore) ListEntries(_ context.Context, q repository.EntryQuery) ([]*entity.EntryView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	views := m.matching(q)
	if q.Limit <= 0 {
		return views, nil
	}
	return page(views, q.Offset, q.Limit), nil
}

func (m *memoryStore) CountEntries(_ context.Context, q repository.EntryQuery) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.matching(q))), nil
}

func (m *memoryStore) setMark(marks map[markKey]time.Time, userID, entryID int64, at time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := markKey{userID, entryID}
	if _, ok := marks[key]; ok {
		return false
	}
	marks[key] = at
	return true
}

func (m *memoryStore) clearMark(marks map[markKey]time.Time, userID, entryID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := markKey{userID, entryID}
	if _, ok := marks[key]; !ok {
		return false
	}
	delete(marks, key)
	return true
}

func (m *memoryStore) MarkRead(_ context.Context, userID, entryID int64, at time.Time) (bool, error) {
	return m.setMark(m.read, userID, entryID, at), nil
}

func (m *memoryStore) UnmarkRead(_ context.Context, userID, entryID int64) (bool, error) {
	return m.clearMark(m.read, userID, entryID), nil
}

func (m *memoryStore) MarkSaved(_ context.Context, userID, entryID int64, at time.Time) (bool, error) {
	return m.setMark(m.saved, userID, entryID, at), nil
}

func (m *memoryStore) UnmarkSaved(_ context.Context, userID, entryID int64) (bool, error) {
	return m.clearMark(m.saved, userID, entryID), nil
}

func (m *memoryStore) MarkAllRead(_ context.Context, userID int64, before, at time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	feeds := m.subscribedFeeds(userID, 0)
	var n int64
	for _, e := range m.entries {
		if !feeds[e.FeedID] {
			continue
		}
		var feed *entity.Feed
		for _, f := range m.feeds {
			if f.ID == e.FeedID {
				feed = f
			}
		}
		if feed == nil || feed.LastCheckedOn == nil || !feed.LastCheckedOn.Before(before) {
			continue
		}
		key := markKey{userID, e.ID}
		if _, ok := m.read[key]; ok {
			continue
		}
		m.read[key] = at
		n++
	}
	return n, nil
}

func (m *memoryStore) Migrate(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	applied := m.migrations
	m.migrations = nil
	return applied, nil
}

func (m *memoryStore) Bootstrap(_ context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bootstrapCalls++
	return m.bootstrapCalls == 1, nil
}

func (m *memoryStore) Stats(_ context.Context) (*entity.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statsCalls++
	return m.stats, nil
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

type fakeChecker struct {
	status int
	err    error
	calls  int
}

func (c *fakeChecker) Status(_ context.Context, _ string) (int, error) {
	c.calls++
	return c.status, c.err
}

type publishedEvent struct {
	subject string
	event   interface{}
}

type fakePublisher struct {
	events []publishedEvent
	err    error
}

func (p *fakePublisher) PublishEvent(_ context.Context, subject string, event interface{}) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{subject: subject, event: event})
	return nil
}

func (p *fakePublisher) Close() error { return nil }

// memoryCache round-trips values through JSON like the Redis cache does.
type memoryCache struct {
	values  map[string]interface{}
	deleted []string
}

var _ port.Cache = (*memoryCache)(nil)

func newMemoryCache() *memoryCache {
	return &memoryCache{values: make(map[string]interface{})}
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	v, ok := c.values[key]
	if !ok {
		return port.ErrCacheMiss
	}
	return assign(dest, v)
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}) error {
	c.values[key] = value
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	delete(c.values, key)
	c.deleted = append(c.deleted, key)
	return nil
}

func assign(dest, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}
