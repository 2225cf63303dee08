package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"

	"github.com/Yathushan/coldsweat/internal/domain/entity"
)

type contextKey string

const (
	scriptNameKey contextKey = "script_name"
	requestIDKey  contextKey = "request_id"
	userKey       contextKey = "user"
	sessionKey    contextKey = "session"
)

// WithScriptName records the path the application is mounted under, e.g.
// "/cgi-bin/coldsweat.cgi". Request paths are relative to it.
func WithScriptName(ctx context.Context, scriptName string) context.Context {
	return context.WithValue(ctx, scriptNameKey, strings.TrimSuffix(scriptName, "/"))
}

func ScriptName(r *http.Request) string {
	name, _ := r.Context().Value(scriptNameKey).(string)
	return name
}

// ApplicationURL is the absolute URL of the application root, without a
// trailing slash.
func ApplicationURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host + ScriptName(r)
}

// RequestURL is the absolute URL of the current request.
func RequestURL(r *http.Request) string {
	return ApplicationURL(r) + r.URL.RequestURI()
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// CurrentUser returns the logged in user, or nil.
func CurrentUser(r *http.Request) *entity.User {
	user, _ := r.Context().Value(userKey).(*entity.User)
	return user
}

// CurrentSession returns the web session loaded by the Session middleware.
func CurrentSession(r *http.Request) *sessions.Session {
	sess, _ := r.Context().Value(sessionKey).(*sessions.Session)
	return sess
}
