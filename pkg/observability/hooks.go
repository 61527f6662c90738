// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through package-level hook registries; main (or a
// test) registers implementations at startup. Defaults are no-ops, so the
// engine never depends on an observability backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetExplorerHooks(&myExplorerHooks{})
//	    observability.SetHTTPHooks(&myHTTPHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Explorer().OnFetchStart(ctx, address, limit, cursor)
//	// ... fetch page ...
//	observability.Explorer().OnFetchComplete(ctx, address, txCount, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Explorer Hooks
// =============================================================================

// ExplorerHooks receives events from the graph engine.
type ExplorerHooks interface {
	// Page fetch events
	OnFetchStart(ctx context.Context, address string, limit int, cursor string)
	OnFetchComplete(ctx context.Context, address string, txCount int, duration time.Duration, err error)

	// OnOperation records the outcome of initial load, expand or load more.
	// kind is the result kind ("ok", "skipped", "no_more_pages", ...).
	OnOperation(ctx context.Context, op, address, kind string, newNodes int)

	// OnLayout records a layout pass.
	OnLayout(ctx context.Context, strategy string, nodeCount int, duration time.Duration)
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
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopExplorerHooks is a no-op implementation of ExplorerHooks.
type NoopExplorerHooks struct{}

func (NoopExplorerHooks) OnFetchStart(context.Context, string, int, string)                 {}
func (NoopExplorerHooks) OnFetchComplete(context.Context, string, int, time.Duration, error) {}
func (NoopExplorerHooks) OnOperation(context.Context, string, string, string, int)          {}
func (NoopExplorerHooks) OnLayout(context.Context, string, int, time.Duration)              {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	explorerHooks ExplorerHooks = NoopExplorerHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetExplorerHooks registers custom graph engine hooks.
// Nil is ignored.
func SetExplorerHooks(h ExplorerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		explorerHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Explorer returns the registered graph engine hooks.
func Explorer() ExplorerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return explorerHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	explorerHooks = NoopExplorerHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
