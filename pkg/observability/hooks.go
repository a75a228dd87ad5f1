// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries in this module emit events through the hooks registered here
// without depending on any observability backend. Consumers register hook
// implementations once at startup; the defaults are no-ops.
//
// # Hook Categories
//
//   - [SimplifyHooks]: candidate selection and per-node merge outcomes
//   - [PipelineHooks]: network load and write stages of a pipeline run
//   - [CacheHooks]: result cache hits, misses and writes
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSimplifyHooks(&mySimplifyHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Simplify().OnNodeSkipped(ctx, node, code)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Simplify Hooks
// =============================================================================

// SimplifyHooks receives events from a simplification run.
type SimplifyHooks interface {
	// OnCandidatesSelected records the outcome of candidate selection.
	OnCandidatesSelected(ctx context.Context, candidates int, duration time.Duration)

	// OnNodeMerged records a node that was removed.
	OnNodeMerged(ctx context.Context, node int)

	// OnNodeSkipped records a node that was kept, with the error code that
	// explains why.
	OnNodeSkipped(ctx context.Context, node int, code string)

	// OnRunComplete records the end of a run.
	OnRunComplete(ctx context.Context, deleted, skipped int, duration time.Duration, err error)
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the load → simplify → write pipeline.
type PipelineHooks interface {
	OnLoadStart(ctx context.Context, path string)
	OnLoadComplete(ctx context.Context, path string, nodeCount, linkCount int, duration time.Duration, err error)

	OnWriteStart(ctx context.Context, path string)
	OnWriteComplete(ctx context.Context, path string, duration time.Duration, err error)
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
// No-op Implementations
// =============================================================================

// NoopSimplifyHooks is a no-op implementation of SimplifyHooks.
type NoopSimplifyHooks struct{}

func (NoopSimplifyHooks) OnCandidatesSelected(context.Context, int, time.Duration)      {}
func (NoopSimplifyHooks) OnNodeMerged(context.Context, int)                             {}
func (NoopSimplifyHooks) OnNodeSkipped(context.Context, int, string)                    {}
func (NoopSimplifyHooks) OnRunComplete(context.Context, int, int, time.Duration, error) {}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string) {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnWriteStart(context.Context, string)                          {}
func (NoopPipelineHooks) OnWriteComplete(context.Context, string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	simplifyHooks SimplifyHooks = NoopSimplifyHooks{}
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetSimplifyHooks registers custom simplification hooks.
// This should be called once at application startup before any run.
func SetSimplifyHooks(h SimplifyHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		simplifyHooks = h
	}
}

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
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

// Simplify returns the registered simplification hooks.
func Simplify() SimplifyHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return simplifyHooks
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

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	simplifyHooks = NoopSimplifyHooks{}
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
}
