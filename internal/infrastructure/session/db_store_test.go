package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Yathushan/coldsweat/internal/domain/entity"
	"github.com/Yathushan/coldsweat/internal/domain/repository"
	"github.com/Yathushan/coldsweat/internal/interfaces/http/middleware"
	"github.com/Yathushan/coldsweat/pkg/logger"
)

type memorySessions struct {
	mu   sync.Mutex
	rows map[string]entity.Session
}

func newMemorySessions() *memorySessions {
	return &memorySessions{rows: make(map[string]entity.Session)}
}

func (m *memorySessions) FindSession(_ context.Context, key string) (*entity.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (m *memorySessions) SaveSession(_ context.Context, s *entity.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[s.Key] = *s
	return nil
}

func (m *memorySessions) DeleteSession(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, key)
	return nil
}

func (m *memorySessions) DeleteExpiredSessions(_ context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", CookieName)
	return nil
}

func TestDBStoreRoundTrip(t *testing.T) {
	repo := newMemorySessions()
	store := NewDBStore(repo, time.Hour, []byte("0123456789abcdef0123456789abcdef"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := store.Get(req, CookieName)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !sess.IsNew {
		t.Fatal("session without cookie should be new")
	}
	sess.Values["user_id"] = int64(42)

	rec := httptest.NewRecorder()
	if err := sess.Save(req, rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if len(repo.rows) != 1 {
		t.Fatalf("stored %d sessions, want 1", len(repo.rows))
	}

	cookie := sessionCookie(t, rec)
	if cookie.Value == sess.ID {
		t.Fatal("cookie should carry a signed key, not the raw one")
	}
	if !cookie.HttpOnly {
		t.Fatal("session cookie should be HttpOnly")
	}

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookie)
	loaded, err := store.Get(next, CookieName)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if loaded.IsNew {
		t.Fatal("session should be loaded from the store")
	}
	if got := loaded.Values["user_id"]; got != int64(42) {
		t.Fatalf("user_id = %v, want 42", got)
	}
}

func TestDBStoreDelete(t *testing.T) {
	repo := newMemorySessions()
	store := NewDBStore(repo, time.Hour, []byte("0123456789abcdef0123456789abcdef"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, _ := store.Get(req, CookieName)
	sess.Values["user_id"] = int64(1)
	rec := httptest.NewRecorder()
	if err := sess.Save(req, rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	sess.Options.MaxAge = -1
	rec = httptest.NewRecorder()
	if err := sess.Save(req, rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if len(repo.rows) != 0 {
		t.Fatalf("session row should be deleted, have %d", len(repo.rows))
	}
	if c := sessionCookie(t, rec); c.MaxAge >= 0 {
		t.Fatalf("cookie MaxAge = %d, want negative", c.MaxAge)
	}
}

func TestDBStoreRejectsTamperedCookie(t *testing.T) {
	store := NewDBStore(newMemorySessions(), time.Hour, []byte("0123456789abcdef0123456789abcdef"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "forged"})

	sess, err := store.Get(req, CookieName)
	if err == nil {
		t.Fatal("expected a decode error for a forged cookie")
	}
	if sess == nil || !sess.IsNew || sess.ID != "" {
		t.Fatalf("forged cookie should yield a fresh session, got %+v", sess)
	}
}

func TestDBStoreIgnoresExpiredRows(t *testing.T) {
	repo := newMemorySessions()
	store := NewDBStore(repo, time.Hour, []byte("0123456789abcdef0123456789abcdef"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, _ := store.Get(req, CookieName)
	sess.Values["user_id"] = int64(7)
	rec := httptest.NewRecorder()
	if err := sess.Save(req, rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	store.now = func() time.Time { return time.Now().UTC().Add(2 * time.Hour) }

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(sessionCookie(t, rec))
	loaded, err := store.Get(next, CookieName)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !loaded.IsNew || len(loaded.Values) != 0 {
		t.Fatalf("expired session should not be restored: %+v", loaded.Values)
	}
}

func TestLogInReplacesStoredSession(t *testing.T) {
	repo := newMemorySessions()
	store := NewDBStore(repo, time.Hour, []byte("0123456789abcdef0123456789abcdef"))
	user := &entity.User{ID: 7, Username: "alice", IsEnabled: true}

	loadUser := func(context.Context, int64) (*entity.User, error) { return user, nil }
	h := middleware.Session(store, CookieName, loadUser, logger.Discard())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := middleware.LogIn(w, r, user); err != nil {
				t.Fatalf("LogIn() error = %v", err)
			}
		}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	first := sessionCookie(t, rec)
	if len(repo.rows) != 1 {
		t.Fatalf("rows after first log in = %d, want 1", len(repo.rows))
	}
	var firstKey string
	for key := range repo.rows {
		firstKey = key
	}

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.AddCookie(first)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if second := sessionCookie(t, rec); second.Value == first.Value {
		t.Fatal("log in should issue a new session key")
	}
	if len(repo.rows) != 1 {
		t.Fatalf("rows after second log in = %d, want 1", len(repo.rows))
	}
	if _, ok := repo.rows[firstKey]; ok {
		t.Fatal("previous session row should be deleted")
	}
}
