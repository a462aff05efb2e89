package events

import "context"

// Publisher sends change notifications. Writes publish through it after they commit.
type Publisher interface {
	SendEvent(event Event) error
}

// Subscriber delivers change notifications matching the current filter set.
type Subscriber interface {
	// Listen starts delivering events on the returned channel until ctx is done
	Listen(ctx context.Context) (<-chan Event, error)

	// Subscribe replaces the filter set; an empty set selects every change
	Subscribe(filters []Filter) error
}

// EventPublisher is the full daemon client surface.
type EventPublisher interface {
	Publisher
	Subscriber

	// Connect establishes a connection to the daemon socket
	Connect(ctx context.Context) error

	// Close closes the connection to the daemon and stops all goroutines
	Close() error
}

// Compile-time verification
var (
	_ EventPublisher = (*Client)(nil)
	_ Publisher      = (*Bus)(nil)
	_ Publisher      = (*Endpoint)(nil)
	_ Subscriber     = (*Endpoint)(nil)
)
