// Package cache provides byte caches for rendered artifacts.
//
// The command line caches SVG renderings of dependency graphs, keyed by the
// hash of the DOT source they were rendered from, so repeated renders of an
// unchanged sheet skip Graphviz.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry below a directory (the default)
//   - [RedisCache]: a Redis server shared between machines
//   - [NullCache]: stores nothing, used with --no-cache
//
// Wrap any backend with [Instrumented] to emit observability cache hooks.
//
// # Keys
//
// [Keyer] builds keys from content hashes and render options. [Hash] and
// [Key] are the underlying helpers.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the cached value for key. A missing or expired entry is
	// reported as a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	// Clear removes all entries and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}
