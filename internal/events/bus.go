package events

import (
	"context"
	"log/slog"
	"sync"
)

// Bus is an in-process hub with the daemon's semantics: publishers send change
// notifications, each Endpoint receives the ones matching its filter set. It is used
// when the whole workspace runs in one process (studio serve, tests).
type Bus struct {
	mu        sync.Mutex
	seq       int64
	endpoints map[*Endpoint]struct{}
	dropped   int64
	buffer    int
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{
		endpoints: make(map[*Endpoint]struct{}),
		buffer:    64,
	}
}

// SendEvent stamps a sequence number on the event and delivers it to every matching
// listener. Delivery never blocks: a listener whose buffer is full misses the event.
func (b *Bus) SendEvent(event Event) error {
	if b == nil {
		return ErrNotConnected
	}
	if event.Type == "" {
		event.Type = EventChange
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	event.SequenceID = b.seq

	for ep := range b.endpoints {
		if !MatchAny(ep.filters, event) {
			continue
		}
		for _, ch := range ep.listeners {
			select {
			case ch <- event:
			default:
				b.dropped++
				slog.Warn("bus listener queue full, event dropped", "table", event.Table, "seq", event.SequenceID)
			}
		}
	}
	return nil
}

// Dropped returns how many deliveries were skipped because a listener was full
func (b *Bus) Dropped() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// Endpoint attaches a new subscriber to the bus. Each endpoint has its own filter
// set, like one daemon connection.
func (b *Bus) Endpoint() *Endpoint {
	ep := &Endpoint{bus: b}
	b.mu.Lock()
	b.endpoints[ep] = struct{}{}
	b.mu.Unlock()
	return ep
}

// Endpoint is one subscriber of a Bus. Guarded by the bus mutex.
type Endpoint struct {
	bus       *Bus
	filters   []Filter
	listeners []chan Event
	closed    bool
}

// SendEvent publishes through the owning bus
func (e *Endpoint) SendEvent(event Event) error {
	return e.bus.SendEvent(event)
}

// Subscribe replaces the endpoint's filter set
func (e *Endpoint) Subscribe(filters []Filter) error {
	e.bus.mu.Lock()
	defer e.bus.mu.Unlock()
	if e.closed {
		return ErrNotConnected
	}
	e.filters = append([]Filter(nil), filters...)
	return nil
}

// Listen returns a channel of matching events that is closed when ctx is done or the
// endpoint is closed.
func (e *Endpoint) Listen(ctx context.Context) (<-chan Event, error) {
	b := e.bus
	b.mu.Lock()
	if e.closed {
		b.mu.Unlock()
		return nil, ErrNotConnected
	}
	ch := make(chan Event, b.buffer)
	e.listeners = append(e.listeners, ch)
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, l := range e.listeners {
			if l == ch {
				e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
				close(ch)
				return
			}
		}
	}()
	return ch, nil
}

// Close detaches the endpoint and closes its listener channels
func (e *Endpoint) Close() error {
	b := e.bus
	b.mu.Lock()
	defer b.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	delete(b.endpoints, e)
	for _, ch := range e.listeners {
		close(ch)
	}
	e.listeners = nil
	return nil
}
