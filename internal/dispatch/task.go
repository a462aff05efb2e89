package dispatch

import (
	"context"
	"time"

	"github.com/thenoetrevino/studio/internal/models"
	"github.com/thenoetrevino/studio/internal/projection"
)

// AddChecklistItem shows the item on the task page with a temporary id, writes it,
// then swaps in the stored item.
func (d *Dispatcher) AddChecklistItem(ctx context.Context, view TaskView, taskID int, content string) (*models.ChecklistItem, error) {
	var pending *models.ChecklistItem
	mutateTask(view, taskID, func(a *projection.TaskAggregate) { pending = a.AddChecklistItem(content) })

	stored, err := d.gw.AddChecklistItem(ctx, taskID, content)
	if err != nil {
		return nil, d.failed("add checklist item", err)
	}
	if pending != nil {
		mutateTask(view, taskID, func(a *projection.TaskAggregate) { a.ConfirmChecklistItem(pending.TempID, stored) })
	}
	return stored, nil
}

// SetChecklistItemDone ticks or unticks an item
func (d *Dispatcher) SetChecklistItemDone(ctx context.Context, view TaskView, taskID, itemID int, done bool) error {
	mutateTask(view, taskID, func(a *projection.TaskAggregate) { a.SetChecklistItemDone(itemID, done) })

	if err := d.gw.SetChecklistItemDone(ctx, taskID, itemID, done); err != nil {
		return d.failed("set checklist item", err)
	}
	return nil
}

// RemoveChecklistItem drops an item
func (d *Dispatcher) RemoveChecklistItem(ctx context.Context, view TaskView, taskID, itemID int) error {
	mutateTask(view, taskID, func(a *projection.TaskAggregate) { a.RemoveChecklistItem(itemID) })

	if err := d.gw.DeleteChecklistItem(ctx, taskID, itemID); err != nil {
		return d.failed("remove checklist item", err)
	}
	return nil
}

// AddComment posts a comment as author (nil for an anonymous note)
func (d *Dispatcher) AddComment(ctx context.Context, view TaskView, taskID int, author *models.User, body string) (*models.Comment, error) {
	var pending *models.Comment
	mutateTask(view, taskID, func(a *projection.TaskAggregate) { pending = a.AddComment(author, body) })

	in := &models.Comment{TaskID: taskID, Body: body}
	if author != nil {
		in.UserID = author.ID
		in.Author = author.Name
	}
	stored, err := d.gw.AddComment(ctx, in)
	if err != nil {
		return nil, d.failed("add comment", err)
	}
	if pending != nil {
		mutateTask(view, taskID, func(a *projection.TaskAggregate) { a.ConfirmComment(pending.TempID, stored) })
	}
	return stored, nil
}

// AddTimeEntry logs minutes against a task. A zero spentOn means today.
func (d *Dispatcher) AddTimeEntry(ctx context.Context, view TaskView, taskID, userID, minutes int, note string, spentOn time.Time) (*models.TimeEntry, error) {
	var pending *models.TimeEntry
	mutateTask(view, taskID, func(a *projection.TaskAggregate) {
		day := spentOn
		if day.IsZero() {
			day = time.Now()
		}
		pending = a.AddTimeEntry(userID, minutes, note, day)
	})

	stored, err := d.gw.AddTimeEntry(ctx, &models.TimeEntry{
		TaskID:  taskID,
		UserID:  userID,
		Minutes: minutes,
		Note:    note,
		SpentOn: spentOn,
	})
	if err != nil {
		return nil, d.failed("add time entry", err)
	}
	if pending != nil {
		mutateTask(view, taskID, func(a *projection.TaskAggregate) { a.ConfirmTimeEntry(pending.TempID, stored) })
	}
	return stored, nil
}

// AddAssignee assigns user to a task
func (d *Dispatcher) AddAssignee(ctx context.Context, view TaskView, taskID int, user *models.User) error {
	if user == nil {
		return nil
	}
	mutateTask(view, taskID, func(a *projection.TaskAggregate) { a.AddAssignee(user) })

	if err := d.gw.AddAssignee(ctx, taskID, user.ID); err != nil {
		return d.failed("add assignee", err)
	}
	return nil
}

// RemoveAssignee unassigns a user from a task
func (d *Dispatcher) RemoveAssignee(ctx context.Context, view TaskView, taskID, userID int) error {
	mutateTask(view, taskID, func(a *projection.TaskAggregate) { a.RemoveAssignee(userID) })

	if err := d.gw.RemoveAssignee(ctx, taskID, userID); err != nil {
		return d.failed("remove assignee", err)
	}
	return nil
}

// AddTag tags a task
func (d *Dispatcher) AddTag(ctx context.Context, view TaskView, taskID int, tag *models.Tag) error {
	if tag == nil {
		return nil
	}
	mutateTask(view, taskID, func(a *projection.TaskAggregate) { a.AddTag(tag) })

	if err := d.gw.AddTag(ctx, taskID, tag.ID); err != nil {
		return d.failed("add tag", err)
	}
	return nil
}

// RemoveTag untags a task
func (d *Dispatcher) RemoveTag(ctx context.Context, view TaskView, taskID, tagID int) error {
	mutateTask(view, taskID, func(a *projection.TaskAggregate) { a.RemoveTag(tagID) })

	if err := d.gw.RemoveTag(ctx, taskID, tagID); err != nil {
		return d.failed("remove tag", err)
	}
	return nil
}

// mutateTask applies fn when the view holds taskID; a page open on another task is
// left alone.
func mutateTask(view TaskView, taskID int, fn func(*projection.TaskAggregate)) {
	mutate(view, func(a *projection.TaskAggregate) {
		if a != nil && a.ID == taskID {
			fn(a)
		}
	})
}
