// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through the registered hooks; main decides what
// receives them. The CLI registers hooks that write debug log lines, and
// other deployments can plug in a metrics backend without the core
// packages depending on it.
//
// # Usage
//
// Register hooks at application startup:
//
//	observability.SetTaskHooks(&myTaskHooks{})
//	observability.SetCacheHooks(&myCacheHooks{})
//
// Libraries call hooks to emit events:
//
//	observability.Tasks().OnAnalyzeStart(ctx, len(tasks))
//	// ... analyze ...
//	observability.Tasks().OnAnalyzeComplete(ctx, len(tasks), len(path), time.Since(start))
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Task Hooks
// =============================================================================

// TaskHooks receives events from the task service.
type TaskHooks interface {
	// OnAnalyzeStart records the start of a schedule analysis.
	OnAnalyzeStart(ctx context.Context, taskCount int)

	// OnAnalyzeComplete records a finished analysis.
	OnAnalyzeComplete(ctx context.Context, taskCount, criticalPathLen int, duration time.Duration)

	// OnDependenciesReplaced records an accepted dependency update.
	OnDependenciesReplaced(ctx context.Context, taskID int64, depCount int)

	// OnCycleRejected records a dependency update refused by the cycle check.
	OnCycleRejected(ctx context.Context, taskID int64, proposed []int64)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, namespace string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, namespace string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, namespace string, size int)
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

// NoopTaskHooks is a no-op implementation of TaskHooks.
type NoopTaskHooks struct{}

func (NoopTaskHooks) OnAnalyzeStart(context.Context, int)                        {}
func (NoopTaskHooks) OnAnalyzeComplete(context.Context, int, int, time.Duration) {}
func (NoopTaskHooks) OnDependenciesReplaced(context.Context, int64, int)         {}
func (NoopTaskHooks) OnCycleRejected(context.Context, int64, []int64)            {}

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
	taskHooks  TaskHooks  = NoopTaskHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetTaskHooks registers custom task hooks. Nil is ignored.
func SetTaskHooks(h TaskHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		taskHooks = h
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

// Tasks returns the registered task hooks.
func Tasks() TaskHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return taskHooks
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
	taskHooks = NoopTaskHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
