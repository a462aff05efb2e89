// Package gateway is the only path from the workspace to the store.
//
// Reads never fail: an error is logged and an empty result returned. Writes return
// the stored record or a *WriteError. After a successful write the gateway publishes
// a change notification and invalidates cached renderings of the affected paths;
// neither side effect can fail the write.
package gateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/thenoetrevino/studio/internal/database"
	"github.com/thenoetrevino/studio/internal/events"
)

// publishRetries bounds attempts to queue one change notification
const publishRetries = 3

// TaskUpdate carries the task fields to change; nil fields are left untouched
type TaskUpdate = database.TaskUpdate

// DocumentUpdate carries the document fields to change; nil fields are left untouched
type DocumentUpdate = database.DocumentUpdate

// Revalidator drops cached renderings of paths
type Revalidator interface {
	Invalidate(paths ...string)
}

// BlobStore persists uploaded files and returns a durable reference
type BlobStore interface {
	Put(ctx context.Context, name string, r io.Reader) (url string, size int64, err error)
}

// Gateway wraps the store with validation, error classification and write side effects
type Gateway struct {
	store  database.DataStore
	pub    events.Publisher
	reval  Revalidator
	blobs  BlobStore
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Gateway
type Option func(*Gateway)

// WithPublisher sets where change notifications go
func WithPublisher(p events.Publisher) Option {
	return func(g *Gateway) { g.pub = p }
}

// WithRevalidator sets the render cache to invalidate after writes
func WithRevalidator(r Revalidator) Option {
	return func(g *Gateway) { g.reval = r }
}

// WithBlobStore sets the store used for attachment uploads
func WithBlobStore(b BlobStore) Option {
	return func(g *Gateway) { g.blobs = b }
}

// WithLogger sets the logger for read failures and side effect errors
func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithClock overrides the time source (dashboard month, default time entry day)
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) {
		if now != nil {
			g.now = now
		}
	}
}

// New creates a gateway over store
func New(store database.DataStore, opts ...Option) *Gateway {
	g := &Gateway{
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// list turns a failed or nil listing into an empty one
func list[T any](g *Gateway, op string, items []T, err error) []T {
	if err != nil {
		g.logger.Error("read failed", "op", op, "error", err)
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}

// one turns a failed lookup into nil. A missing row is not worth an error log.
func one[T any](g *Gateway, op string, item *T, err error) *T {
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			g.logger.Debug("read found nothing", "op", op, "error", err)
		} else {
			g.logger.Error("read failed", "op", op, "error", err)
		}
		return nil
	}
	return item
}

// fail classifies and logs a write failure
func (g *Gateway) fail(op string, err error, fkMessage string) error {
	we := writeError(op, err, fkMessage)
	if we.Code == CodeInternal {
		g.logger.Error("write failed", "op", op, "error", err)
	} else {
		g.logger.Warn("write rejected", "op", op, "code", we.Code, "error", err)
	}
	return we
}

// changed runs the side effects of a committed write
func (g *Gateway) changed(changes []events.Event, paths ...string) {
	if g.pub != nil {
		for _, ev := range changes {
			if err := events.PublishWithRetry(g.pub, ev, publishRetries); err != nil {
				g.logger.Warn("failed to publish change", "table", ev.Table, "op", ev.Op, "error", err)
			}
		}
	}
	if g.reval != nil && len(paths) > 0 {
		g.reval.Invalidate(paths...)
	}
}

// keys builds a notification key set from column/value pairs, skipping zero ids
func keys(pairs ...any) map[string]string {
	out := make(map[string]string, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		col, _ := pairs[i].(string)
		switch v := pairs[i+1].(type) {
		case int:
			if v != 0 {
				out[col] = events.ID(v)
			}
		case *int:
			if v != nil {
				out[col] = events.ID(*v)
			}
		case string:
			if v != "" {
				out[col] = v
			}
		}
	}
	return out
}
