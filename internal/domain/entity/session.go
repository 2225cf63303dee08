package entity

import "time"

// Session is a server-side web session. Value holds the encoded session
// values; only the session key travels in the cookie.
type Session struct {
	Key       string
	Value     string
	ExpiresOn time.Time
}

func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresOn)
}
