package gateway

import (
	"context"
	"strings"

	"github.com/thenoetrevino/studio/internal/events"
	"github.com/thenoetrevino/studio/internal/models"
	"github.com/thenoetrevino/studio/internal/revalidate"
)

func (g *Gateway) taskChanged(op events.Op, t *models.Task) {
	g.changed(
		[]events.Event{events.NewChange("tasks", op, keys("id", t.ID, "project_id", t.ProjectID, "status_id", t.StatusID))},
		revalidate.BoardPath(t.ProjectID), revalidate.TaskPath(t.ID), revalidate.DashboardPath,
	)
}

// taskRef loads the task a write addresses
func (g *Gateway) taskRef(ctx context.Context, op string, id int) (*models.Task, error) {
	if err := validateIDs(id); err != nil {
		return nil, g.fail(op, err, "")
	}
	t, err := g.store.GetTask(ctx, id)
	if err != nil {
		return nil, g.fail(op, err, "")
	}
	return t, nil
}

// CreateWorkItem adds a task. Without a status the task lands in the project's
// default status; the given status must belong to the project.
func (g *Gateway) CreateWorkItem(ctx context.Context, in *models.Task) (*models.Task, error) {
	const op = "create work item"
	title, err := validateTitle(in.Title)
	if err != nil {
		return nil, g.fail(op, err, "")
	}
	if err := validateIDs(in.ProjectID); err != nil {
		return nil, g.fail(op, err, "")
	}
	if in.Priority != "" && !in.Priority.Valid() {
		return nil, g.fail(op, ErrInvalidPrio, "")
	}

	t := *in
	t.Title = title
	t.Description = strings.TrimSpace(in.Description)

	created, err := g.store.CreateTask(ctx, &t)
	if err != nil {
		return nil, g.fail(op, err, "project or status does not exist")
	}

	g.taskChanged(events.OpInsert, created)
	return created, nil
}

// UpdateWorkItem changes task fields
func (g *Gateway) UpdateWorkItem(ctx context.Context, id int, upd TaskUpdate) (*models.Task, error) {
	const op = "update work item"
	if upd.Empty() {
		return nil, g.fail(op, ErrEmptyUpdate, "")
	}
	if upd.Title != nil {
		title, err := validateTitle(*upd.Title)
		if err != nil {
			return nil, g.fail(op, err, "")
		}
		upd.Title = &title
	}
	upd.Description = trimmed(upd.Description)
	if upd.Priority != nil && !upd.Priority.Valid() {
		return nil, g.fail(op, ErrInvalidPrio, "")
	}
	if _, err := g.taskRef(ctx, op, id); err != nil {
		return nil, err
	}

	if err := g.store.UpdateTask(ctx, id, upd); err != nil {
		return nil, g.fail(op, err, "")
	}
	t, err := g.store.GetTask(ctx, id)
	if err != nil {
		return nil, g.fail(op, err, "")
	}

	g.taskChanged(events.OpUpdate, t)
	return t, nil
}

// MoveWorkItem puts a task in another status of the same project
func (g *Gateway) MoveWorkItem(ctx context.Context, id, statusID int) (*models.Task, error) {
	const op = "move work item"
	if err := validateIDs(statusID); err != nil {
		return nil, g.fail(op, err, "")
	}
	if _, err := g.taskRef(ctx, op, id); err != nil {
		return nil, err
	}

	if err := g.store.MoveTask(ctx, id, statusID); err != nil {
		return nil, g.fail(op, err, "status does not exist")
	}
	t, err := g.store.GetTask(ctx, id)
	if err != nil {
		return nil, g.fail(op, err, "")
	}

	g.taskChanged(events.OpUpdate, t)
	return t, nil
}

// DeleteWorkItem removes a task and its sub-resources
func (g *Gateway) DeleteWorkItem(ctx context.Context, id int) error {
	const op = "delete work item"
	t, err := g.taskRef(ctx, op, id)
	if err != nil {
		return err
	}

	if err := g.store.DeleteTask(ctx, id); err != nil {
		return g.fail(op, err, "")
	}

	g.taskChanged(events.OpDelete, t)
	return nil
}
