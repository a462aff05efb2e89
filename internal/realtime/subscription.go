package realtime

import (
	"sync"

	"github.com/thenoetrevino/studio/internal/events"
)

const watchBuffer = 32

// Subscription is the handle returned by Feed.Subscribe and Feed.Watch
type Subscription struct {
	feed  *Feed
	scope Scope

	onChange func()
	onEvent  func(events.Event)

	dirty    chan struct{}
	queue    chan events.Event
	done     chan struct{}
	once     sync.Once
	mu       sync.Mutex
	live     bool
	released bool
}

func newSubscription(f *Feed, scope Scope, onChange func(), onEvent func(events.Event)) *Subscription {
	return &Subscription{
		feed:     f,
		scope:    scope,
		onChange: onChange,
		onEvent:  onEvent,
		dirty:    make(chan struct{}, 1),
		queue:    make(chan events.Event, watchBuffer),
		done:     make(chan struct{}),
	}
}

// Scope returns the scope the subscription covers
func (s *Subscription) Scope() Scope { return s.scope }

// Live reports whether the subscription can still fire. Subscriptions taken on a
// degraded feed are never live.
func (s *Subscription) Live() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live && !s.released
}

// signal marks the subscription dirty. Called with the feed lock held; never blocks.
func (s *Subscription) signal(e events.Event) {
	if s.onEvent != nil {
		select {
		case s.queue <- e:
		default:
		}
		return
	}
	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

func (s *Subscription) loop() {
	for {
		select {
		case <-s.done:
			return
		case <-s.dirty:
			if s.isReleased() {
				return
			}
			if s.onChange != nil {
				s.onChange()
			}
		case e := <-s.queue:
			if s.isReleased() {
				return
			}
			s.onEvent(e)
		}
	}
}

func (s *Subscription) isReleased() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released
}

// Release stops the subscription. Notifications published after Release returns never
// reach the callback. Safe to call more than once and from inside the callback.
func (s *Subscription) Release() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.mu.Lock()
		s.released = true
		s.mu.Unlock()
		close(s.done)
		if s.feed != nil {
			s.feed.remove(s)
		}
	})
}
