// Package observability lets applications observe design runs, cache traffic
// and API requests without the libraries depending on a metrics backend.
//
// Hooks are registered once by main and read by library code:
//
//	func main() {
//	    observability.Use(observability.NewLogHooks(logger))
//	    // ... run application
//	}
//
//	observability.Design().OnDesignStart(ctx, runID, flow, headloss)
//	rec, err := lfom.Design(...)
//	observability.Design().OnDesignComplete(ctx, runID, rows, time.Since(start), err)
//
// Every hook set defaults to a no-op implementation. [LogHooks] implements all
// three and is what `lfom --verbose` installs.
package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// =============================================================================
// Design Hooks
// =============================================================================

// DesignHooks receives events from the design pipeline.
type DesignHooks interface {
	OnDesignStart(ctx context.Context, runID string, flow, headloss float64)
	OnDesignComplete(ctx context.Context, runID string, rows int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations. keyType names the kind
// of entry, currently always "design".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the API server.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopDesignHooks is a no-op implementation of DesignHooks.
type NoopDesignHooks struct{}

func (NoopDesignHooks) OnDesignStart(context.Context, string, float64, float64)             {}
func (NoopDesignHooks) OnDesignComplete(context.Context, string, int, time.Duration, error) {}

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

// registry is replaced wholesale on every change so that readers on the
// design path never take a lock.
type registry struct {
	design DesignHooks
	cache  CacheHooks
	http   HTTPHooks
}

var (
	current atomic.Pointer[registry]
	writeMu sync.Mutex
)

func init() { Reset() }

func update(fn func(r *registry)) {
	writeMu.Lock()
	defer writeMu.Unlock()
	r := *current.Load()
	fn(&r)
	current.Store(&r)
}

// SetDesignHooks registers design hooks. A nil value is ignored.
func SetDesignHooks(h DesignHooks) {
	if h != nil {
		update(func(r *registry) { r.design = h })
	}
}

// SetCacheHooks registers cache hooks. A nil value is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(r *registry) { r.cache = h })
	}
}

// SetHTTPHooks registers HTTP hooks. A nil value is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(r *registry) { r.http = h })
	}
}

// Use registers h for every hook interface it implements and reports
// whether it implemented any.
func Use(h any) bool {
	var used bool
	update(func(r *registry) {
		if d, ok := h.(DesignHooks); ok {
			r.design, used = d, true
		}
		if c, ok := h.(CacheHooks); ok {
			r.cache, used = c, true
		}
		if x, ok := h.(HTTPHooks); ok {
			r.http, used = x, true
		}
	})
	return used
}

// Design returns the registered design hooks.
func Design() DesignHooks { return current.Load().design }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return current.Load().cache }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return current.Load().http }

// Reset restores the no-op hooks. Tests call it in cleanup.
func Reset() {
	writeMu.Lock()
	defer writeMu.Unlock()
	current.Store(&registry{
		design: NoopDesignHooks{},
		cache:  NoopCacheHooks{},
		http:   NoopHTTPHooks{},
	})
}
