// Package realtime turns the change notification stream into per-view reload triggers.
//
// A notification is only a dirty flag: its payload is never applied. Every live
// subscription whose scope matches is marked dirty, and each subscription runs at most
// one callback at a time, so a burst of notifications collapses into one or two reloads.
package realtime

import (
	"context"
	"log/slog"
	"sync"

	"github.com/thenoetrevino/studio/internal/events"
)

// Source is the upstream change stream (a daemon client or an in-process bus endpoint)
type Source interface {
	events.Subscriber
}

// Feed fans change notifications out to subscriptions
type Feed struct {
	src    Source
	logger *slog.Logger

	mu     sync.Mutex
	subs   map[*Subscription]struct{}
	live   bool
	closed bool

	cancel context.CancelFunc
	wg     sync.WaitGroup // subscription workers
}

// Option configures a Feed
type Option func(*Feed)

// WithLogger sets the logger used for feed diagnostics
func WithLogger(l *slog.Logger) Option {
	return func(f *Feed) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFeed starts listening on src. A nil source or a failing Listen yields a degraded
// feed: subscriptions are accepted but never fire, so views behave as load-once.
func NewFeed(ctx context.Context, src Source, opts ...Option) *Feed {
	f := &Feed{
		src:    src,
		logger: slog.Default(),
		subs:   make(map[*Subscription]struct{}),
	}
	for _, opt := range opts {
		opt(f)
	}

	ctx, f.cancel = context.WithCancel(ctx)
	if src == nil {
		f.logger.Warn("realtime feed disabled: no change source")
		return f
	}

	ch, err := src.Listen(ctx)
	if err != nil {
		f.logger.Warn("realtime feed disabled: listen failed", "error", err)
		return f
	}
	// Nothing is live yet, so select nothing until the first subscription
	if err := src.Subscribe([]events.Filter{idleFilter}); err != nil {
		f.logger.Warn("realtime feed: initial subscribe failed", "error", err)
	}

	f.live = true
	go f.run(ch)
	return f
}

// Live reports whether notifications are being received
func (f *Feed) Live() bool {
	if f == nil {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.live
}

func (f *Feed) run(ch <-chan events.Event) {
	for event := range ch {
		if event.Type != "" && event.Type != events.EventChange {
			continue
		}
		f.mu.Lock()
		for sub := range f.subs {
			if sub.scope.Matches(event) {
				sub.signal(event)
			}
		}
		f.mu.Unlock()
	}

	f.mu.Lock()
	wasClosed := f.closed
	f.live = false
	f.mu.Unlock()
	if !wasClosed {
		f.logger.Warn("realtime feed: change stream ended, views will no longer refresh")
	}
}

// Subscribe registers onChange to run whenever a change in scope is observed. Calls
// for one subscription never overlap; notifications arriving while a call runs are
// coalesced into a single follow-up call.
func (f *Feed) Subscribe(scope Scope, onChange func()) *Subscription {
	return f.add(newSubscription(f, scope, onChange, nil))
}

// Watch registers onEvent to receive each matching notification. Unlike Subscribe the
// events are not coalesced; when the subscriber falls behind, events are dropped.
func (f *Feed) Watch(scope Scope, onEvent func(events.Event)) *Subscription {
	return f.add(newSubscription(f, scope, nil, onEvent))
}

func (f *Feed) add(sub *Subscription) *Subscription {
	if f == nil {
		sub.released = true
		return sub
	}

	f.mu.Lock()
	if f.closed || !f.live {
		f.mu.Unlock()
		sub.mu.Lock()
		sub.released = true
		sub.mu.Unlock()
		return sub
	}
	f.subs[sub] = struct{}{}
	sub.live = true
	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		sub.loop()
	}()
	f.resubscribeLocked()
	f.mu.Unlock()

	f.logger.Debug("realtime subscribe", "scope", sub.scope.String())
	return sub
}

func (f *Feed) remove(sub *Subscription) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.subs[sub]; !ok {
		return
	}
	delete(f.subs, sub)
	if !f.closed {
		f.resubscribeLocked()
	}
}

// resubscribeLocked sends the union of live scopes upstream. Caller holds f.mu.
func (f *Feed) resubscribeLocked() {
	scopes := make([]Scope, 0, len(f.subs))
	for sub := range f.subs {
		scopes = append(scopes, sub.scope)
	}
	if err := f.src.Subscribe(union(scopes)); err != nil {
		f.logger.Warn("realtime feed: subscribe failed", "error", err)
	}
}

// Close releases every subscription, waits for running callbacks and stops listening.
// It does not close the source.
func (f *Feed) Close() {
	if f == nil {
		return
	}
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	subs := make([]*Subscription, 0, len(f.subs))
	for sub := range f.subs {
		subs = append(subs, sub)
	}
	f.subs = make(map[*Subscription]struct{})
	f.mu.Unlock()

	for _, sub := range subs {
		sub.Release()
	}
	f.cancel()
	f.wg.Wait()
}
