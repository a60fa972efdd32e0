// Package observability lets a host program observe overlay placement, the
// scene pipeline, cache traffic and the placement API.
//
// Each event category has a hook interface with a no-op default. A program
// installs its own implementations once at startup, typically from main, and
// the libraries read them back through [Placement], [Pipeline], [Cache] and
// [HTTP]:
//
//	observability.SetPlacementHooks(promPlacement{})
//
//	observability.Placement().OnPlaceStart(ctx, id, preferred)
//	res := solver.Place(anchor, overlay, side)
//	observability.Placement().OnPlaceComplete(ctx, id, res.Side.String(), res.Attempts, res.WidthCompressed, time.Since(start))
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Placement Hooks
// =============================================================================

// PlacementHooks receives events from overlay placement and visibility
// changes. Sides are passed as their CSS names.
type PlacementHooks interface {
	// OnPlaceStart fires before the solver runs for overlay id.
	OnPlaceStart(ctx context.Context, id, preferred string)

	// OnPlaceComplete fires with the chosen side and search statistics.
	OnPlaceComplete(ctx context.Context, id, side string, attempts int, compressed bool, duration time.Duration)

	// OnReveal fires when the visible class is applied.
	OnReveal(ctx context.Context, id string)

	// OnHide fires when an overlay is reset.
	OnHide(ctx context.Context, id string)
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the scene rendering pipeline.
type PipelineHooks interface {
	// Scene events
	OnSceneStart(ctx context.Context, name string)
	OnSceneComplete(ctx context.Context, name string, tooltips int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
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

// HTTPHooks receives events from the placement API server.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response status and latency.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)

	// OnError records a handler failure.
	OnError(ctx context.Context, method, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPlacementHooks is a no-op implementation of PlacementHooks.
type NoopPlacementHooks struct{}

func (NoopPlacementHooks) OnPlaceStart(context.Context, string, string) {}
func (NoopPlacementHooks) OnPlaceComplete(context.Context, string, string, int, bool, time.Duration) {
}
func (NoopPlacementHooks) OnReveal(context.Context, string) {}
func (NoopPlacementHooks) OnHide(context.Context, string)   {}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnSceneStart(context.Context, string)                                {}
func (NoopPipelineHooks) OnSceneComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                             {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)    {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

// slot holds one installed hook implementation.
type slot[T any] struct {
	mu   sync.RWMutex
	hook T
	zero T
}

func newSlot[T any](noop T) *slot[T] {
	return &slot[T]{hook: noop, zero: noop}
}

func (s *slot[T]) set(h T) {
	s.mu.Lock()
	s.hook = h
	s.mu.Unlock()
}

func (s *slot[T]) get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hook
}

func (s *slot[T]) reset() { s.set(s.zero) }

var (
	placementHooks = newSlot[PlacementHooks](NoopPlacementHooks{})
	pipelineHooks  = newSlot[PipelineHooks](NoopPipelineHooks{})
	cacheHooks     = newSlot[CacheHooks](NoopCacheHooks{})
	httpHooks      = newSlot[HTTPHooks](NoopHTTPHooks{})
)

// SetPlacementHooks installs h for solver and tooltip events. Nil is ignored.
func SetPlacementHooks(h PlacementHooks) {
	if h != nil {
		placementHooks.set(h)
	}
}

// SetPipelineHooks installs h for scene and render events. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		pipelineHooks.set(h)
	}
}

// SetCacheHooks installs h for cache events. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheHooks.set(h)
	}
}

// SetHTTPHooks installs h for API server events. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		httpHooks.set(h)
	}
}

// Placement returns the installed placement hooks.
func Placement() PlacementHooks { return placementHooks.get() }

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return pipelineHooks.get() }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return cacheHooks.get() }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return httpHooks.get() }

// Reset restores every category to its no-op default.
func Reset() {
	placementHooks.reset()
	pipelineHooks.reset()
	cacheHooks.reset()
	httpHooks.reset()
}
