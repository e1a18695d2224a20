// Package cache provides the shared key/value cache used by the search
// gateway and by write-path invalidation. Values are opaque serialized
// payloads; the underlying store is responsible for atomicity of individual
// key operations.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Store is the cache contract. Implementations must tolerate concurrent
// Get/Set/Del/InvalidatePattern without client-side locking.
type Store interface {
	// Get returns the value stored under key, or ErrMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Del removes a single key. Deleting an absent key is not an error.
	Del(ctx context.Context, key string) error

	// InvalidatePattern removes all keys matching a glob-style pattern and
	// returns the number of keys deleted.
	InvalidatePattern(ctx context.Context, pattern string) (int, error)
}
