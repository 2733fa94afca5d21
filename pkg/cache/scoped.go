package cache

import (
	"context"
	"time"
)

// Scoped wraps a Cache with a key prefix so several consumers can share one
// backend without colliding, e.g. separate namespaces per batch job when
// many jobs write into the same Redis instance.
type Scoped struct {
	inner  Cache
	prefix string
}

// NewScoped wraps inner so every key is prefixed. A nil inner becomes a
// NullCache.
func NewScoped(inner Cache, prefix string) Cache {
	if inner == nil {
		inner = NewNullCache()
	}
	return &Scoped{inner: inner, prefix: prefix}
}

// Get retrieves a value under the prefixed key.
func (c *Scoped) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return c.inner.Get(ctx, c.prefix+key)
}

// Set stores a value under the prefixed key.
func (c *Scoped) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, c.prefix+key, data, ttl)
}

// Delete removes the prefixed key.
func (c *Scoped) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, c.prefix+key)
}

// Close closes the wrapped cache.
func (c *Scoped) Close() error {
	return c.inner.Close()
}

var _ Cache = (*Scoped)(nil)
