package service

import (
	"net/url"
	"strings"
)

// IsValidFeedURL accepts absolute http and https URLs with a host.
func IsValidFeedURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// IsRejectedCheckStatus lists the statuses that make a URL unusable as a
// feed when it is added.
func IsRejectedCheckStatus(status int) bool {
	switch status {
	case 300, 404, 410, 500:
		return true
	default:
		return false
	}
}
