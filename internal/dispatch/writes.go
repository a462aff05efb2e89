package dispatch

import (
	"context"
	"io"

	"github.com/thenoetrevino/studio/internal/gateway"
	"github.com/thenoetrevino/studio/internal/models"
)

// Structural writes. Each one waits for the store and then reloads the given views;
// nothing is shown before the write succeeds.

// CreateContainer adds a folder
func (d *Dispatcher) CreateContainer(ctx context.Context, parent *int, scope models.Scope, name string, views ...Reloader) (*models.Folder, error) {
	f, err := d.gw.CreateContainer(ctx, parent, scope, name)
	if err != nil {
		return nil, d.failed("create container", err)
	}
	reload(ctx, views)
	return f, nil
}

// RenameContainer renames a folder
func (d *Dispatcher) RenameContainer(ctx context.Context, id int, name string, views ...Reloader) error {
	if err := d.gw.RenameContainer(ctx, id, name); err != nil {
		return d.failed("rename container", err)
	}
	reload(ctx, views)
	return nil
}

// DeleteContainer removes a folder with its content
func (d *Dispatcher) DeleteContainer(ctx context.Context, id int, views ...Reloader) error {
	if err := d.gw.DeleteContainer(ctx, id); err != nil {
		return d.failed("delete container", err)
	}
	reload(ctx, views)
	return nil
}

// CreateDocument adds a document
func (d *Dispatcher) CreateDocument(ctx context.Context, doc *models.Document, views ...Reloader) (*models.Document, error) {
	created, err := d.gw.CreateDocument(ctx, doc)
	if err != nil {
		return nil, d.failed("create document", err)
	}
	reload(ctx, views)
	return created, nil
}

// RenameDocument changes a document title
func (d *Dispatcher) RenameDocument(ctx context.Context, id int, title string, views ...Reloader) (*models.Document, error) {
	doc, err := d.gw.UpdateDocument(ctx, id, gateway.DocumentUpdate{Title: &title})
	if err != nil {
		return nil, d.failed("rename document", err)
	}
	reload(ctx, views)
	return doc, nil
}

// DeleteDocument removes a document
func (d *Dispatcher) DeleteDocument(ctx context.Context, id int, views ...Reloader) error {
	if err := d.gw.DeleteDocument(ctx, id); err != nil {
		return d.failed("delete document", err)
	}
	reload(ctx, views)
	return nil
}

// CreateStatus appends a column to a project's board
func (d *Dispatcher) CreateStatus(ctx context.Context, projectID int, name, color string, views ...Reloader) (*models.Status, error) {
	s, err := d.gw.CreateStatus(ctx, projectID, name, color)
	if err != nil {
		return nil, d.failed("create status", err)
	}
	reload(ctx, views)
	return s, nil
}

// RenameStatus renames a column
func (d *Dispatcher) RenameStatus(ctx context.Context, id int, name string, views ...Reloader) error {
	if err := d.gw.RenameStatus(ctx, id, name); err != nil {
		return d.failed("rename status", err)
	}
	reload(ctx, views)
	return nil
}

// SetDefaultStatus picks the column new tasks land in
func (d *Dispatcher) SetDefaultStatus(ctx context.Context, id int, views ...Reloader) error {
	if err := d.gw.SetDefaultStatus(ctx, id); err != nil {
		return d.failed("set default status", err)
	}
	reload(ctx, views)
	return nil
}

// DeleteStatus removes a column. A column that still holds tasks is refused with a
// conflict and the views are left as they are.
func (d *Dispatcher) DeleteStatus(ctx context.Context, id int, views ...Reloader) error {
	if err := d.gw.DeleteStatus(ctx, id); err != nil {
		return d.failed("delete status", err)
	}
	reload(ctx, views)
	return nil
}

// CreateTask adds a task
func (d *Dispatcher) CreateTask(ctx context.Context, t *models.Task, views ...Reloader) (*models.Task, error) {
	created, err := d.gw.CreateWorkItem(ctx, t)
	if err != nil {
		return nil, d.failed("create task", err)
	}
	reload(ctx, views)
	return created, nil
}

// UpdateTask changes task fields
func (d *Dispatcher) UpdateTask(ctx context.Context, id int, upd gateway.TaskUpdate, views ...Reloader) (*models.Task, error) {
	t, err := d.gw.UpdateWorkItem(ctx, id, upd)
	if err != nil {
		return nil, d.failed("update task", err)
	}
	reload(ctx, views)
	return t, nil
}

// DeleteTask removes a task
func (d *Dispatcher) DeleteTask(ctx context.Context, id int, views ...Reloader) error {
	if err := d.gw.DeleteWorkItem(ctx, id); err != nil {
		return d.failed("delete task", err)
	}
	reload(ctx, views)
	return nil
}

// AddAttachment uploads a file and links it to a task
func (d *Dispatcher) AddAttachment(ctx context.Context, taskID int, name string, r io.Reader, views ...Reloader) (*models.Attachment, error) {
	a, err := d.gw.AddAttachment(ctx, taskID, name, r)
	if err != nil {
		return nil, d.failed("add attachment", err)
	}
	reload(ctx, views)
	return a, nil
}
