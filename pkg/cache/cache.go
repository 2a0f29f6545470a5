// Package cache stores listings and rendered artifacts between runs.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance (server deployments)
//   - [NullCache]: stores nothing (--no-cache)
//
// # Keys
//
// Keys are produced by a [Keyer] so every layer agrees on them. Listing keys
// name a directory and limit; scene keys hash the listing together with the
// camera, viewport and layout; artifact keys add the output format. A
// [ScopedKeyer] prefixes every key, for example per server instance.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Default TTLs.
const (
	// ListingTTL is short: directories change under us.
	ListingTTL = 30 * time.Second

	// ArtifactTTL applies to rendered scenes, which are keyed by content.
	ArtifactTTL = 24 * time.Hour
)
