// Package cache provides the byte-level cache used for upstream explorer
// responses and rendered artifacts.
//
// # Backends
//
//   - [FileCache]: one JSON envelope per key under a directory (CLI default)
//   - [RedisCache]: shared cache for `walletgraph serve` deployments
//   - [MongoCache]: documents with a TTL index, for deployments that already run MongoDB
//   - [NullCache]: never stores anything (--no-cache)
//
// All backends store opaque bytes with a per-entry TTL. A TTL of 0 means the
// entry never expires.
//
// # Keys
//
// Build keys with a [Keyer] rather than by hand so every backend sees the
// same key space:
//
//	k := cache.NewDefaultKeyer()
//	key := k.PageKey("blockstream", addr, cache.PageKeyOpts{Limit: 10, Cursor: c})
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store for serialized data with per-entry expiry.
type Cache interface {
	// Get returns the data stored under key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
