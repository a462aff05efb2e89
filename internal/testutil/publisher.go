package testutil

import (
	"errors"
	"sync"

	"github.com/thenoetrevino/studio/internal/events"
)

// ErrPublishFailed is returned by a RecordingPublisher set to fail
var ErrPublishFailed = errors.New("publish failed")

// RecordingPublisher keeps every event sent through it
type RecordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	Fail   bool
}

// SendEvent records the event, or returns ErrPublishFailed when Fail is set
func (p *RecordingPublisher) SendEvent(event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Fail {
		return ErrPublishFailed
	}
	p.events = append(p.events, event)
	return nil
}

// Events returns a copy of the recorded events
func (p *RecordingPublisher) Events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

// Tables returns the table of every recorded event, in order
func (p *RecordingPublisher) Tables() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Table
	}
	return out
}

// Reset forgets recorded events
func (p *RecordingPublisher) Reset() {
	p.mu.Lock()
	p.events = nil
	p.mu.Unlock()
}
