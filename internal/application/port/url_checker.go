package port

import "context"

// URLChecker checks a feed URL before it is subscribed to.
type URLChecker interface {
	// Status returns the HTTP status the URL answers with
	Status(ctx context.Context, url string) (int, error)
}
