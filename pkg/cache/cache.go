// Package cache stores serialized unwrap results keyed by mesh content and
// parameters, so repeated runs over the same geometry skip the solve
// entirely. Backends: file (default for CLI usage), in-memory, Redis,
// MongoDB, and a null cache for when caching is disabled.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface shared by all backends. Implementations
// must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present; an absent key is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// UnwrapKey derives a cache key from mesh content and the parameters that
// influence the result. Two meshes with identical vertices and triangles
// unwrapped with identical parameters share a key regardless of where the
// data came from.
func UnwrapKey(vertices, triangles []byte, params any) string {
	return hashKey("unwrap", vertices, triangles, params)
}
