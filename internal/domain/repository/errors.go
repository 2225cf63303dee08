package repository

import "errors"

// ErrNotFound is returned by Find* methods when no row matches.
var ErrNotFound = errors.New("not found")
