package session

import (
	"context"
	"encoding/base32"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"

	"github.com/Yathushan/coldsweat/internal/domain/entity"
	"github.com/Yathushan/coldsweat/internal/domain/repository"
)

// CookieName is the cookie carrying the signed session key.
const CookieName = "_SID_"

// DBStore is a sessions.Store keeping session values in the database. Only
// the signed session key is sent to the browser.
type DBStore struct {
	Codecs  []securecookie.Codec
	Options *sessions.Options

	repo repository.SessionRepository
	now  func() time.Time
}

var _ sessions.Store = (*DBStore)(nil)

// NewDBStore creates a store. keyPairs are passed to securecookie as in
// sessions.NewCookieStore.
func NewDBStore(repo repository.SessionRepository, maxAge time.Duration, keyPairs ...[]byte) *DBStore {
	st := &DBStore{
		Codecs: securecookie.CodecsFromPairs(keyPairs...),
		Options: &sessions.Options{
			Path:     "/",
			MaxAge:   int(maxAge.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
	st.MaxAge(st.Options.MaxAge)
	return st
}

// Get returns the session cached in the request registry, loading it on first use.
func (st *DBStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(st, name)
}

// New returns the stored session named by the request cookie, or a fresh
// one when the cookie is missing, tampered with or expired.
func (st *DBStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(st, name)
	opts := *st.Options
	session.Options = &opts
	session.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}

	if err := securecookie.DecodeMulti(name, c.Value, &session.ID, st.Codecs...); err != nil {
		session.ID = ""
		return session, err
	}

	err = st.load(r, session)
	switch {
	case err == nil:
		session.IsNew = false
	case errors.Is(err, repository.ErrNotFound):
		session.ID = ""
		err = nil
	}
	return session, err
}

// Save persists the session and sets the cookie. A negative MaxAge deletes
// both.
func (st *DBStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := st.repo.DeleteSession(r.Context(), session.ID); err != nil {
				return err
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = strings.TrimRight(
			base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)), "=")
	}

	if err := st.save(r, session); err != nil {
		return err
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, st.Codecs...)
	if err != nil {
		return err
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

// Discard deletes the stored session with the given key. The browser keeps
// its cookie, which now points nowhere.
func (st *DBStore) Discard(ctx context.Context, id string) error {
	return st.repo.DeleteSession(ctx, id)
}

// MaxAge sets the maximum age for the store and its codecs.
func (st *DBStore) MaxAge(age int) {
	st.Options.MaxAge = age
	for _, codec := range st.Codecs {
		if sc, ok := codec.(*securecookie.SecureCookie); ok {
			sc.MaxAge(age)
		}
	}
}

func (st *DBStore) load(r *http.Request, session *sessions.Session) error {
	stored, err := st.repo.FindSession(r.Context(), session.ID)
	if err != nil {
		return err
	}
	if stored.IsExpired(st.now()) {
		return repository.ErrNotFound
	}

	if err := securecookie.DecodeMulti(session.Name(), stored.Value, &session.Values, st.Codecs...); err != nil {
		return fmt.Errorf("failed to decode session values: %w", err)
	}
	return nil
}

func (st *DBStore) save(r *http.Request, session *sessions.Session) error {
	encoded, err := securecookie.EncodeMulti(session.Name(), session.Values, st.Codecs...)
	if err != nil {
		return fmt.Errorf("failed to encode session values: %w", err)
	}

	return st.repo.SaveSession(r.Context(), &entity.Session{
		Key:       session.ID,
		Value:     encoded,
		ExpiresOn: st.now().Add(time.Duration(session.Options.MaxAge) * time.Second),
	})
}
