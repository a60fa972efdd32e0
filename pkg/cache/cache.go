// Package cache stores placement results and rendered artifacts.
//
// Backends implement [Cache]: [NullCache] disables caching, [FileCache]
// serves the CLI, and [RedisCache] and [MongoCache] share results between
// API server instances. Keys come from a [Keyer] so that every backend sees
// the same key space.
package cache

import (
	"context"
	"time"
)

// Default TTLs by entry kind.
const (
	PlacementTTL = 24 * time.Hour
	ArtifactTTL  = 7 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was found. Expired
	// entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by backends that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Clear empties c if its backend supports it and reports whether it did.
func Clear(ctx context.Context, c Cache) (bool, error) {
	for c != nil {
		if cl, ok := c.(Clearer); ok {
			return true, cl.Clear(ctx)
		}
		u, ok := c.(interface{ Unwrap() Cache })
		if !ok {
			break
		}
		c = u.Unwrap()
	}
	return false, nil
}
