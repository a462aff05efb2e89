package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/thenoetrevino/studio/internal/gateway"
	"github.com/thenoetrevino/studio/internal/models"
)

// DefaultAutosaveDelay is how long typing must pause before a save
const DefaultAutosaveDelay = 1500 * time.Millisecond

// autosaveTimeout bounds a save started by the timer or by Close
const autosaveTimeout = 10 * time.Second

// DocumentWriter saves document content
type DocumentWriter interface {
	UpdateDocument(ctx context.Context, id int, upd gateway.DocumentUpdate) (*models.Document, error)
}

// Autosaver writes a document's content once edits pause. Only the latest content
// is written; saves never overlap and are not retried.
type Autosaver struct {
	w     DocumentWriter
	docID int
	delay time.Duration

	onError func(error)
	onSaved func(*models.Document)

	mu      sync.Mutex
	timer   *time.Timer
	pending *string
	closed  bool

	saveMu sync.Mutex
}

// AutosaveOption configures an Autosaver
type AutosaveOption func(*Autosaver)

// WithDelay sets the debounce delay
func WithDelay(d time.Duration) AutosaveOption {
	return func(a *Autosaver) {
		if d > 0 {
			a.delay = d
		}
	}
}

// OnError sets the callback for failed saves started by the timer
func OnError(fn func(error)) AutosaveOption {
	return func(a *Autosaver) { a.onError = fn }
}

// OnSaved sets the callback run with the stored document after each save
func OnSaved(fn func(*models.Document)) AutosaveOption {
	return func(a *Autosaver) { a.onSaved = fn }
}

// NewAutosaver creates an autosaver for one document
func NewAutosaver(w DocumentWriter, docID int, opts ...AutosaveOption) *Autosaver {
	a := &Autosaver{w: w, docID: docID, delay: DefaultAutosaveDelay}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Autosave creates an autosaver writing through the dispatcher's gateway
func (d *Dispatcher) Autosave(docID int, opts ...AutosaveOption) *Autosaver {
	opts = append([]AutosaveOption{OnError(func(err error) { _ = d.failed("autosave document", err) })}, opts...)
	return NewAutosaver(d.gw, docID, opts...)
}

// Update records new content and restarts the debounce timer
func (a *Autosaver) Update(content string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.pending = &content
	if a.timer == nil {
		a.timer = time.AfterFunc(a.delay, a.onTimer)
		return
	}
	a.timer.Reset(a.delay)
}

// Pending reports whether content is waiting to be saved
func (a *Autosaver) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending != nil
}

func (a *Autosaver) onTimer() {
	ctx, cancel := context.WithTimeout(context.Background(), autosaveTimeout)
	defer cancel()
	if err := a.save(ctx); err != nil && a.onError != nil {
		a.onError(err)
	}
}

// Flush saves pending content now
func (a *Autosaver) Flush(ctx context.Context) error {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
	}
	a.mu.Unlock()
	return a.save(ctx)
}

// Close saves pending content and stops accepting updates
func (a *Autosaver) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	if a.timer != nil {
		a.timer.Stop()
	}
	a.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), autosaveTimeout)
	defer cancel()
	return a.save(ctx)
}

func (a *Autosaver) save(ctx context.Context) error {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	a.mu.Lock()
	content := a.pending
	a.pending = nil
	a.mu.Unlock()
	if content == nil {
		return nil
	}

	doc, err := a.w.UpdateDocument(ctx, a.docID, gateway.DocumentUpdate{Content: content})
	if err != nil {
		return err
	}
	if a.onSaved != nil {
		a.onSaved(doc)
	}
	return nil
}
