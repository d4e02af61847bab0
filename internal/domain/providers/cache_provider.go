package providers

import (
	"context"
)

// CacheProvider is the caching interface shared by the response cache, the
// cached branch repository and the feedback rate limiter. Callers treat a
// missing provider as "cache disabled" and fall through to their source.
type CacheProvider interface {
	// Get retrieves a value from cache; an error means the key is absent
	// or the backend is unreachable
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache for expirationSeconds
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists without fetching it
	Exists(ctx context.Context, key string) (bool, error)
}
