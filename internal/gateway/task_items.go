package gateway

import (
	"context"
	"io"
	"strings"

	"github.com/thenoetrevino/studio/internal/events"
	"github.com/thenoetrevino/studio/internal/models"
	"github.com/thenoetrevino/studio/internal/revalidate"
)

// itemChanged publishes a change to a task sub-resource. The project key lets
// boards pick up card changes (assignees, tags) without a task-level filter.
func (g *Gateway) itemChanged(table string, op events.Op, t *models.Task, id int, extra ...string) {
	paths := append([]string{revalidate.TaskPath(t.ID), revalidate.BoardPath(t.ProjectID)}, extra...)
	g.changed(
		[]events.Event{events.NewChange(table, op, keys("id", id, "task_id", t.ID, "project_id", t.ProjectID))},
		paths...,
	)
}

// AddChecklistItem appends an item to a task's checklist
func (g *Gateway) AddChecklistItem(ctx context.Context, taskID int, content string) (*models.ChecklistItem, error) {
	const op = "add checklist item"
	content, err := validateTitle(content)
	if err != nil {
		return nil, g.fail(op, err, "")
	}
	t, err := g.taskRef(ctx, op, taskID)
	if err != nil {
		return nil, err
	}

	item, err := g.store.AddChecklistItem(ctx, taskID, content)
	if err != nil {
		return nil, g.fail(op, err, "")
	}

	g.itemChanged("checklist_items", events.OpInsert, t, item.ID)
	return item, nil
}

// SetChecklistItemDone sets the done flag of a checklist item
func (g *Gateway) SetChecklistItemDone(ctx context.Context, taskID, itemID int, done bool) error {
	const op = "set checklist item"
	if err := validateIDs(itemID); err != nil {
		return g.fail(op, err, "")
	}
	t, err := g.taskRef(ctx, op, taskID)
	if err != nil {
		return err
	}

	if err := g.store.SetChecklistItemDone(ctx, taskID, itemID, done); err != nil {
		return g.fail(op, err, "")
	}

	g.itemChanged("checklist_items", events.OpUpdate, t, itemID)
	return nil
}

// DeleteChecklistItem removes a checklist item
func (g *Gateway) DeleteChecklistItem(ctx context.Context, taskID, itemID int) error {
	const op = "delete checklist item"
	if err := validateIDs(itemID); err != nil {
		return g.fail(op, err, "")
	}
	t, err := g.taskRef(ctx, op, taskID)
	if err != nil {
		return err
	}

	if err := g.store.DeleteChecklistItem(ctx, taskID, itemID); err != nil {
		return g.fail(op, err, "")
	}

	g.itemChanged("checklist_items", events.OpDelete, t, itemID)
	return nil
}

// AddComment posts a comment on a task
func (g *Gateway) AddComment(ctx context.Context, in *models.Comment) (*models.Comment, error) {
	const op = "add comment"
	body, err := validateBody(in.Body)
	if err != nil {
		return nil, g.fail(op, err, "")
	}
	t, err := g.taskRef(ctx, op, in.TaskID)
	if err != nil {
		return nil, err
	}

	c := *in
	c.Body = body
	c.TempID = ""
	created, err := g.store.AddComment(ctx, &c)
	if err != nil {
		return nil, g.fail(op, err, "author does not exist")
	}

	g.itemChanged("comments", events.OpInsert, t, created.ID)
	return created, nil
}

// AddTimeEntry logs minutes on a task. A zero SpentOn means today.
func (g *Gateway) AddTimeEntry(ctx context.Context, in *models.TimeEntry) (*models.TimeEntry, error) {
	const op = "add time entry"
	if in.Minutes <= 0 {
		return nil, g.fail(op, ErrInvalidMinute, "")
	}
	t, err := g.taskRef(ctx, op, in.TaskID)
	if err != nil {
		return nil, err
	}

	e := *in
	e.Note = strings.TrimSpace(in.Note)
	e.TempID = ""
	if e.SpentOn.IsZero() {
		e.SpentOn = g.now()
	}
	created, err := g.store.AddTimeEntry(ctx, &e)
	if err != nil {
		return nil, g.fail(op, err, "user does not exist")
	}

	g.itemChanged("time_entries", events.OpInsert, t, created.ID, revalidate.DashboardPath)
	return created, nil
}

// AddAssignee assigns a user to a task
func (g *Gateway) AddAssignee(ctx context.Context, taskID, userID int) error {
	return g.link(ctx, "add assignee", "task_assignees", events.OpInsert, taskID, userID, "user does not exist",
		g.store.AddAssignee)
}

// RemoveAssignee unassigns a user from a task
func (g *Gateway) RemoveAssignee(ctx context.Context, taskID, userID int) error {
	return g.link(ctx, "remove assignee", "task_assignees", events.OpDelete, taskID, userID, "",
		g.store.RemoveAssignee)
}

// AddTag tags a task
func (g *Gateway) AddTag(ctx context.Context, taskID, tagID int) error {
	return g.link(ctx, "add tag", "task_tags", events.OpInsert, taskID, tagID, "tag does not exist",
		g.store.AddTaskTag)
}

// RemoveTag removes a tag from a task
func (g *Gateway) RemoveTag(ctx context.Context, taskID, tagID int) error {
	return g.link(ctx, "remove tag", "task_tags", events.OpDelete, taskID, tagID, "",
		g.store.RemoveTaskTag)
}

// link runs an association write between a task and another row
func (g *Gateway) link(ctx context.Context, op, table string, kind events.Op, taskID, otherID int, fkMessage string,
	write func(ctx context.Context, taskID, otherID int) error) error {
	if err := validateIDs(otherID); err != nil {
		return g.fail(op, err, "")
	}
	t, err := g.taskRef(ctx, op, taskID)
	if err != nil {
		return err
	}

	if err := write(ctx, taskID, otherID); err != nil {
		return g.fail(op, err, fkMessage)
	}

	g.itemChanged(table, kind, t, otherID)
	return nil
}

// AddAttachment uploads r to the blob store and records the returned reference on
// the task. The upload is not removed if recording fails.
func (g *Gateway) AddAttachment(ctx context.Context, taskID int, name string, r io.Reader) (*models.Attachment, error) {
	const op = "add attachment"
	if g.blobs == nil {
		return nil, g.fail(op, ErrNoBlobStore, "")
	}
	name, err := validateName(name)
	if err != nil {
		return nil, g.fail(op, err, "")
	}
	t, err := g.taskRef(ctx, op, taskID)
	if err != nil {
		return nil, err
	}

	url, size, err := g.blobs.Put(ctx, name, r)
	if err != nil {
		return nil, g.fail(op, err, "")
	}

	a, err := g.store.AddAttachment(ctx, &models.Attachment{TaskID: taskID, Name: name, URL: url, Size: size})
	if err != nil {
		return nil, g.fail(op, err, "")
	}

	g.itemChanged("attachments", events.OpInsert, t, a.ID)
	return a, nil
}
