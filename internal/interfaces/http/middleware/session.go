package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gorilla/sessions"

	"github.com/Yathushan/coldsweat/internal/domain/entity"
	"github.com/Yathushan/coldsweat/pkg/logger"
)

// SessionUserKey is the session value holding the logged in user id.
const SessionUserKey = "user_id"

var ErrNoSession = errors.New("no web session in request context")

// UserLoader resolves a session user id. A nil user means the session no
// longer points at a usable account.
type UserLoader func(ctx context.Context, userID int64) (*entity.User, error)

// Session loads the web session named cookieName and its user into the
// request context.
func Session(store sessions.Store, cookieName string, loadUser UserLoader, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := store.Get(r, cookieName)
			if err != nil {
				// Get still returns a fresh session.
				log.Debug("Discarded unreadable session", "error", err.Error())
			}

			ctx := context.WithValue(r.Context(), sessionKey, sess)

			if userID, ok := sess.Values[SessionUserKey].(int64); ok {
				user, err := loadUser(r.Context(), userID)
				if err != nil {
					log.Error("Failed to load session user", err, "user_id", userID)
				}
				if user != nil {
					ctx = context.WithValue(ctx, userKey, user)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireLogin sends anonymous visitors to the log in page, remembering
// where they were going.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CurrentUser(r) == nil {
			target := ApplicationURL(r) + "/login?from=" + url.QueryEscape(RequestURL(r))
			http.Redirect(w, r, target, http.StatusTemporaryRedirect)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// sessionDiscarder is implemented by stores keeping sessions server side.
type sessionDiscarder interface {
	Discard(ctx context.Context, id string) error
}

// LogIn stores user in the session under a fresh session key. The previous
// key, if any, is discarded.
func LogIn(w http.ResponseWriter, r *http.Request, user *entity.User) error {
	sess := CurrentSession(r)
	if sess == nil {
		return ErrNoSession
	}

	if sess.ID != "" {
		if store, ok := sess.Store().(sessionDiscarder); ok {
			if err := store.Discard(r.Context(), sess.ID); err != nil {
				return err
			}
		}
	}

	sess.ID = ""
	sess.Values[SessionUserKey] = user.ID
	return sess.Save(r, w)
}

// LogOut destroys the session and expires its cookie.
func LogOut(w http.ResponseWriter, r *http.Request) error {
	sess := CurrentSession(r)
	if sess == nil {
		return ErrNoSession
	}

	delete(sess.Values, SessionUserKey)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}
