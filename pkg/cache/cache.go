// Package cache stores computed layouts and rendered artifacts.
//
// A [Cache] is a byte store with per-entry expiry. Three backends are
// provided:
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the preview service
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// Keys are produced by a [Keyer] from a content hash of the gesture plus the
// options that influence the output, so an edited gesture never hits a stale
// entry.
package cache

import (
	"context"
	"time"
)

// Cache is a key-value byte store with optional expiry.
type Cache interface {
	// Get returns the stored bytes and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases any resources held by the cache.
	Close() error
}

// Default entry lifetimes.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
