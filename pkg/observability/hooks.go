// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about unwrap execution, cache operations, and API serving.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetUnwrapHooks(&myUnwrapHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Unwrap().OnUnwrapStart(ctx, numVertices, numFaces)
//	// ... run the solve ...
//	observability.Unwrap().OnUnwrapComplete(ctx, numIslands, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Unwrap Hooks
// =============================================================================

// UnwrapHooks receives events from the unwrap pipeline.
type UnwrapHooks interface {
	// Whole-run events
	OnUnwrapStart(ctx context.Context, numVertices, numFaces int)
	OnUnwrapComplete(ctx context.Context, numIslands int, duration time.Duration, err error)

	// Per-island solve events
	OnIslandStart(ctx context.Context, island, numFaces int)
	OnIslandComplete(ctx context.Context, island int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Server Hooks
// =============================================================================

// ServerHooks receives events from the HTTP API.
type ServerHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a completed request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopUnwrapHooks is a no-op implementation of UnwrapHooks.
type NoopUnwrapHooks struct{}

func (NoopUnwrapHooks) OnUnwrapStart(context.Context, int, int)                     {}
func (NoopUnwrapHooks) OnUnwrapComplete(context.Context, int, time.Duration, error) {}
func (NoopUnwrapHooks) OnIslandStart(context.Context, int, int)                     {}
func (NoopUnwrapHooks) OnIslandComplete(context.Context, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopServerHooks is a no-op implementation of ServerHooks.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string)                      {}
func (NoopServerHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	unwrapHooks UnwrapHooks = NoopUnwrapHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	serverHooks ServerHooks = NoopServerHooks{}
	hooksMu     sync.RWMutex
)

// SetUnwrapHooks registers custom unwrap hooks.
// This should be called once at application startup before any unwrap runs.
func SetUnwrapHooks(h UnwrapHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		unwrapHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetServerHooks registers custom server hooks.
// This should be called once at application startup before the API starts serving.
func SetServerHooks(h ServerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		serverHooks = h
	}
}

// Unwrap returns the registered unwrap hooks.
func Unwrap() UnwrapHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return unwrapHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Server returns the registered server hooks.
func Server() ServerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return serverHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	unwrapHooks = NoopUnwrapHooks{}
	cacheHooks = NoopCacheHooks{}
	serverHooks = NoopServerHooks{}
}
