package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserExists         = errors.New("username already taken")
	ErrInvalidFeedURL     = errors.New("please specify a valid web address")
	ErrFeedUnreachable    = errors.New("unable to reach the feed host")
)

// HostStatusError is returned by AddFeed when the feed host answers with a status
// that rules the URL out.
type HostStatusError struct {
	Status int
}

func (e *HostStatusError) Error() string {
	return fmt.Sprintf("feed host returned: %d %s", e.Status, http.StatusText(e.Status))
}
