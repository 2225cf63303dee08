package port

import (
	"context"
	"errors"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Cache stores JSON-encodable values for a bounded time
type Cache interface {
	// Get decodes the cached value into dest, or returns ErrCacheMiss
	Get(ctx context.Context, key string, dest interface{}) error

	// Set stores a value with the cache's TTL
	Set(ctx context.Context, key string, value interface{}) error

	Delete(ctx context.Context, key string) error
}
