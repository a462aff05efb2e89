// Package dispatch turns user intents into writes.
//
// Small, frequent edits (moving a card, ticking a checklist item, adding a comment)
// are applied to the open view first and written afterwards. A failed write is logged
// and returned to the caller once; the local change is not rolled back and the next
// reload brings the view back in line with the store. Structural edits (containers,
// documents, statuses, tasks) are written first and then the affected views reload.
package dispatch

import (
	"context"
	"io"
	"log/slog"

	"github.com/thenoetrevino/studio/internal/gateway"
	"github.com/thenoetrevino/studio/internal/models"
	"github.com/thenoetrevino/studio/internal/projection"
)

// Gateway is the write surface the dispatcher needs
type Gateway interface {
	MoveWorkItem(ctx context.Context, id, statusID int) (*models.Task, error)
	CreateWorkItem(ctx context.Context, t *models.Task) (*models.Task, error)
	UpdateWorkItem(ctx context.Context, id int, upd gateway.TaskUpdate) (*models.Task, error)
	DeleteWorkItem(ctx context.Context, id int) error

	AddChecklistItem(ctx context.Context, taskID int, content string) (*models.ChecklistItem, error)
	SetChecklistItemDone(ctx context.Context, taskID, itemID int, done bool) error
	DeleteChecklistItem(ctx context.Context, taskID, itemID int) error
	AddComment(ctx context.Context, c *models.Comment) (*models.Comment, error)
	AddTimeEntry(ctx context.Context, e *models.TimeEntry) (*models.TimeEntry, error)
	AddAssignee(ctx context.Context, taskID, userID int) error
	RemoveAssignee(ctx context.Context, taskID, userID int) error
	AddTag(ctx context.Context, taskID, tagID int) error
	RemoveTag(ctx context.Context, taskID, tagID int) error
	AddAttachment(ctx context.Context, taskID int, name string, r io.Reader) (*models.Attachment, error)

	CreateStatus(ctx context.Context, projectID int, name, color string) (*models.Status, error)
	RenameStatus(ctx context.Context, id int, name string) error
	SetDefaultStatus(ctx context.Context, id int) error
	DeleteStatus(ctx context.Context, id int) error

	CreateContainer(ctx context.Context, parent *int, scope models.Scope, name string) (*models.Folder, error)
	RenameContainer(ctx context.Context, id int, name string) error
	DeleteContainer(ctx context.Context, id int) error
	CreateDocument(ctx context.Context, d *models.Document) (*models.Document, error)
	UpdateDocument(ctx context.Context, id int, upd gateway.DocumentUpdate) (*models.Document, error)
	DeleteDocument(ctx context.Context, id int) error
}

var _ Gateway = (*gateway.Gateway)(nil)

// Reloader is a view that can re-read itself from the store
type Reloader interface {
	Reload(ctx context.Context) bool
}

// BoardView is the open kanban board, if any
type BoardView = *projection.View[*projection.Board]

// TaskView is the open task page, if any
type TaskView = *projection.View[*projection.TaskAggregate]

// Dispatcher applies mutations to views and the store
type Dispatcher struct {
	gw     Gateway
	logger *slog.Logger
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithLogger sets the logger for failed writes
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates a dispatcher writing through gw
func New(gw Gateway, opts ...Option) *Dispatcher {
	d := &Dispatcher{gw: gw, logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// failed logs a write error and hands it back for the caller
func (d *Dispatcher) failed(op string, err error) error {
	d.logger.Warn("mutation failed", "op", op, "error", err)
	return err
}

// mutate applies fn to a view that may be nil
func mutate[T any](v *projection.View[T], fn func(T)) bool {
	if v == nil {
		return false
	}
	return v.Mutate(fn)
}

// reload re-reads every non-nil view
func reload(ctx context.Context, views []Reloader) {
	for _, v := range views {
		if v != nil {
			v.Reload(ctx)
		}
	}
}
