// Package cache provides cache-key derivation, pluggable key-value store
// backends, and a fail-soft gateway used by the generation orchestrator.
// Implementations must be safe for concurrent use.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is the default time-to-live for cached generation results.
const DefaultTTL = time.Hour

// Store is the key-value contract a cache backend must satisfy.
// Get returns (nil, false, nil) on a miss; expired entries are misses.
type Store interface {
	// Get retrieves the raw value for key. The boolean reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key with the given expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Close releases any resources held by the store.
	Close() error
}
