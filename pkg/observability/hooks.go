// Package observability provides hooks for metrics and tracing.
//
// Libraries emit events through the package-level registry; binaries decide
// what receives them. The defaults are no-ops, so library code never depends
// on a metrics backend. [PrometheusHooks] is the bundled implementation.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    h := observability.NewPrometheusHooks(prometheus.DefaultRegisterer)
//	    observability.SetPipelineHooks(h)
//	    observability.SetCacheHooks(h)
//	    observability.SetHTTPHooks(h)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnGenerateStart(ctx, network, nodes)
//	// ... generate ...
//	observability.Pipeline().OnGenerateComplete(ctx, network, edges, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the generate → layout → normalize
// pipeline.
type PipelineHooks interface {
	// Generation events
	OnGenerateStart(ctx context.Context, network string, nodes int)
	OnGenerateComplete(ctx context.Context, network string, edges int, duration time.Duration, err error)

	// Layout events
	OnLayoutStart(ctx context.Context, layout string, nodes int)
	OnLayoutComplete(ctx context.Context, layout string, duration time.Duration, err error)

	// OnNormalizeComplete reports the normalize stage. degenerate is true
	// when at least one axis was collinear and the fallback was applied.
	OnNormalizeComplete(ctx context.Context, degenerate bool, duration time.Duration, err error)
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

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	// OnRequest records an incoming request. route is the matched pattern,
	// not the raw path.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records the response to a request.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnGenerateStart(context.Context, string, int) {}
func (NoopPipelineHooks) OnGenerateComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                        {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, time.Duration, error)    {}
func (NoopPipelineHooks) OnNormalizeComplete(context.Context, bool, time.Duration, error)   {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                         {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration)    {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
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
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
