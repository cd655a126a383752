// Package observability lets the command line attach logging and metrics to
// the libraries without the libraries depending on either.
//
// Each event category has a hook interface with a no-op default. Library
// packages never log; they emit hook events, and cmd/cellgraph registers
// hooks that write them to its logger or to Prometheus collectors.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSheetHooks(&mySheetHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	order, err := s.set(name, text)
//	observability.Sheet().OnSetContents(name, len(order), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Sheet Hooks
// =============================================================================

// SheetHooks receives events from the spreadsheet engine and its loaders.
// The engine has no context, so these events carry none.
type SheetHooks interface {
	// OnSetContents records one SetContentsOfCell call. affected is the
	// number of recalculated cells, zero when err is set.
	OnSetContents(name string, affected int, duration time.Duration, err error)

	// OnLoad records a sheet rebuilt from a snapshot.
	OnLoad(version string, cells int, duration time.Duration, err error)
}

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from dependency graph rendering.
type RenderHooks interface {
	OnRenderStart(ctx context.Context, format string, nodeCount int)
	OnRenderComplete(ctx context.Context, format string, duration time.Duration, err error)
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

// HTTPHooks receives events from the HTTP API server.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response written for a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSheetHooks is a no-op implementation of SheetHooks.
type NoopSheetHooks struct{}

func (NoopSheetHooks) OnSetContents(string, int, time.Duration, error) {}
func (NoopSheetHooks) OnLoad(string, int, time.Duration, error)        {}

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, string, int)                     {}
func (NoopRenderHooks) OnRenderComplete(context.Context, string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Registry
// =============================================================================

// slot holds one registered hook set. A nil registration is ignored.
type slot[T any] struct {
	mu  sync.RWMutex
	cur T
	def T
}

func newSlot[T any](def T) *slot[T] { return &slot[T]{cur: def, def: def} }

func (s *slot[T]) set(h T) {
	if any(h) == nil {
		return
	}
	s.mu.Lock()
	s.cur = h
	s.mu.Unlock()
}

func (s *slot[T]) get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

func (s *slot[T]) reset() {
	s.mu.Lock()
	s.cur = s.def
	s.mu.Unlock()
}

var (
	sheetHooks  = newSlot[SheetHooks](NoopSheetHooks{})
	renderHooks = newSlot[RenderHooks](NoopRenderHooks{})
	cacheHooks  = newSlot[CacheHooks](NoopCacheHooks{})
	httpHooks   = newSlot[HTTPHooks](NoopHTTPHooks{})
)

// SetSheetHooks registers sheet hooks. Call it at startup, before any sheet
// is edited.
func SetSheetHooks(h SheetHooks) { sheetHooks.set(h) }

func SetRenderHooks(h RenderHooks) { renderHooks.set(h) }
func SetCacheHooks(h CacheHooks)   { cacheHooks.set(h) }

// SetHTTPHooks registers HTTP hooks. Call it before the server starts.
func SetHTTPHooks(h HTTPHooks) { httpHooks.set(h) }

// Sheet returns the registered sheet hooks.
func Sheet() SheetHooks { return sheetHooks.get() }

// Render returns the registered render hooks.
func Render() RenderHooks { return renderHooks.get() }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return cacheHooks.get() }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return httpHooks.get() }

// Reset restores the no-op defaults. Tests call it in cleanup.
func Reset() {
	sheetHooks.reset()
	renderHooks.reset()
	cacheHooks.reset()
	httpHooks.reset()
}
