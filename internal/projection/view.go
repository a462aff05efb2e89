// Package projection holds the in-memory state behind one screen and keeps it in step
// with the store.
//
// A View has two update paths. Mutate applies a local change immediately (optimistic).
// Reload discards the projection and rebuilds it from a fresh read (authoritative).
// Reloads are ticketed: a read that started before another one that has already been
// applied is thrown away, and nothing is applied once the view is closed.
package projection

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/thenoetrevino/studio/internal/realtime"
)

// reloadTimeout bounds a reload triggered by the change feed
const reloadTimeout = 10 * time.Second

// Loader reads a complete projection. Loaders never fail: a read error yields an
// empty projection (the gateway logs it).
type Loader[T any] func(ctx context.Context) T

// View holds the current projection of one screen
type View[T any] struct {
	mu      sync.Mutex
	scope   realtime.Scope
	load    Loader[T]
	value   T
	loaded  bool
	issued  uint64 // last ticket handed to a reload
	applied uint64 // ticket of the reload whose result is held
	closed  bool

	feed      *realtime.Feed
	sub       *realtime.Subscription
	listeners []func()
}

// NewView creates an empty view over load. scope names what the view depends on.
func NewView[T any](scope realtime.Scope, load Loader[T]) *View[T] {
	return &View[T]{scope: scope, load: load}
}

// Scope returns the scope the view currently follows
func (v *View[T]) Scope() realtime.Scope {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scope
}

// Reload re-reads the projection. It reports whether the result was applied.
func (v *View[T]) Reload(ctx context.Context) bool {
	if v == nil {
		return false
	}
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return false
	}
	v.issued++
	ticket := v.issued
	load := v.load
	scope := v.scope
	v.mu.Unlock()

	value := load(ctx)

	v.mu.Lock()
	if v.closed || ticket < v.applied {
		v.mu.Unlock()
		slog.Debug("discarding stale reload", "scope", scope.String(), "ticket", ticket)
		return false
	}
	v.value = value
	v.loaded = true
	v.applied = ticket
	listeners := v.listeners
	v.mu.Unlock()

	notify(listeners)
	return true
}

// Mutate applies fn to the loaded projection in place. It does nothing before the
// first load or after Close, and reports whether fn ran.
func (v *View[T]) Mutate(fn func(T)) bool {
	v.mu.Lock()
	if v.closed || !v.loaded {
		v.mu.Unlock()
		return false
	}
	fn(v.value)
	listeners := v.listeners
	v.mu.Unlock()

	notify(listeners)
	return true
}

// Read calls fn with the current projection under the view's lock. fn must not retain
// the value or call back into the view.
func (v *View[T]) Read(fn func(value T, loaded bool)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fn(v.value, v.loaded)
}

// Get returns the current projection. The value is shared with the view.
func (v *View[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.value
}

// Loaded reports whether a reload has been applied
func (v *View[T]) Loaded() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loaded
}

// OnUpdate registers fn to run after every applied reload or mutation
func (v *View[T]) OnUpdate(fn func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.listeners = append(v.listeners[:len(v.listeners):len(v.listeners)], fn)
}

func notify(listeners []func()) {
	for _, fn := range listeners {
		fn()
	}
}

// Bind subscribes the view to feed so that every matching change triggers a reload.
// A previous subscription is released first.
func (v *View[T]) Bind(feed *realtime.Feed) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	old := v.sub
	v.feed = feed
	v.sub = nil
	scope := v.scope
	v.mu.Unlock()

	old.Release()
	if feed == nil {
		return
	}

	sub := feed.Subscribe(scope, func() {
		ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
		defer cancel()
		v.Reload(ctx)
	})

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		sub.Release()
		return
	}
	v.sub = sub
	v.mu.Unlock()
}

// Mount binds the view to feed and performs the first load. With a degraded feed the
// view is loaded once and never refreshed.
func (v *View[T]) Mount(ctx context.Context, feed *realtime.Feed) {
	v.Bind(feed)
	v.Reload(ctx)
}

// Live reports whether the view is receiving change notifications
func (v *View[T]) Live() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sub.Live()
}

// Retarget switches the view to another scope and loader, as when navigating to a
// different folder. In-flight reads of the old scope are discarded, the subscription
// follows the new scope and the projection is reloaded.
func (v *View[T]) Retarget(ctx context.Context, scope realtime.Scope, load Loader[T]) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.scope = scope
	v.load = load
	v.issued++
	v.applied = v.issued
	feed := v.feed
	v.mu.Unlock()

	if feed != nil {
		v.Bind(feed)
	}
	v.Reload(ctx)
}

// Close stops the view. Reloads that complete afterwards are discarded.
func (v *View[T]) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	sub := v.sub
	v.sub = nil
	v.listeners = nil
	v.mu.Unlock()

	sub.Release()
}
