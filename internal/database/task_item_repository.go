package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/thenoetrevino/studio/internal/models"
)

// AddChecklistItem appends an item to the bottom of a task's checklist
func (r *TaskRepo) AddChecklistItem(ctx context.Context, taskID int, content string) (*models.ChecklistItem, error) {
	var position int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), -1) + 1 FROM checklist_items WHERE task_id = ?`, taskID,
	).Scan(&position)
	if err != nil {
		return nil, fmt.Errorf("failed to compute checklist position for task %d: %w", taskID, err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO checklist_items (task_id, content, position) VALUES (?, ?, ?)`,
		taskID, content, position)
	if err != nil {
		return nil, fmt.Errorf("failed to add checklist item to task %d: %w", taskID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get checklist item ID after insert: %w", err)
	}
	return &models.ChecklistItem{ID: int(id), TaskID: taskID, Content: content, Position: position}, nil
}

// SetChecklistItemDone ticks or unticks a checklist item
func (r *TaskRepo) SetChecklistItemDone(ctx context.Context, taskID, itemID int, done bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE checklist_items SET is_done = ? WHERE id = ? AND task_id = ?`, done, itemID, taskID)
	if err != nil {
		return fmt.Errorf("failed to update checklist item %d: %w", itemID, err)
	}
	return expectAffected(res, "checklist item", itemID)
}

// DeleteChecklistItem removes a checklist item
func (r *TaskRepo) DeleteChecklistItem(ctx context.Context, taskID, itemID int) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM checklist_items WHERE id = ? AND task_id = ?`, itemID, taskID)
	if err != nil {
		return fmt.Errorf("failed to delete checklist item %d: %w", itemID, err)
	}
	return expectAffected(res, "checklist item", itemID)
}

func (r *TaskRepo) listChecklist(ctx context.Context, taskID int) ([]*models.ChecklistItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, task_id, content, is_done, position FROM checklist_items
		 WHERE task_id = ? ORDER BY position, id`, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query checklist of task %d: %w", taskID, err)
	}
	defer closeRows(rows)

	items := make([]*models.ChecklistItem, 0)
	for rows.Next() {
		it := &models.ChecklistItem{}
		if err := rows.Scan(&it.ID, &it.TaskID, &it.Content, &it.IsDone, &it.Position); err != nil {
			return nil, fmt.Errorf("failed to scan checklist item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// AddComment stores a comment. When UserID is set and Author is empty the author
// name is taken from the user.
func (r *TaskRepo) AddComment(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	var userID any
	if c.UserID != 0 {
		userID = c.UserID
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (task_id, user_id, author, body)
		 VALUES (?, ?, COALESCE(NULLIF(?, ''), (SELECT name FROM users WHERE id = ?), ''), ?)`,
		c.TaskID, userID, c.Author, userID, c.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to add comment to task %d: %w", c.TaskID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get comment ID after insert: %w", err)
	}

	out := &models.Comment{}
	var uid sql.NullInt64
	err = r.db.QueryRowContext(ctx,
		`SELECT id, task_id, user_id, author, body, created_at FROM comments WHERE id = ?`, id,
	).Scan(&out.ID, &out.TaskID, &uid, &out.Author, &out.Body, &out.CreatedAt)
	if err != nil {
		return nil, notFound(err, "comment", int(id))
	}
	out.UserID = int(uid.Int64)
	return out, nil
}

func (r *TaskRepo) listComments(ctx context.Context, taskID int) ([]*models.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, task_id, user_id, author, body, created_at FROM comments
		 WHERE task_id = ? ORDER BY created_at, id`, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments of task %d: %w", taskID, err)
	}
	defer closeRows(rows)

	comments := make([]*models.Comment, 0)
	for rows.Next() {
		c := &models.Comment{}
		var uid sql.NullInt64
		if err := rows.Scan(&c.ID, &c.TaskID, &uid, &c.Author, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		c.UserID = int(uid.Int64)
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// AddTimeEntry logs minutes against a task. A zero SpentOn means today.
func (r *TaskRepo) AddTimeEntry(ctx context.Context, e *models.TimeEntry) (*models.TimeEntry, error) {
	spent := e.SpentOn
	if spent.IsZero() {
		spent = time.Now()
	}
	day := time.Date(spent.Year(), spent.Month(), spent.Day(), 0, 0, 0, 0, time.UTC)
	var userID any
	if e.UserID != 0 {
		userID = e.UserID
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO time_entries (task_id, user_id, minutes, note, spent_on) VALUES (?, ?, ?, ?, ?)`,
		e.TaskID, userID, e.Minutes, e.Note, day.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to log time on task %d: %w", e.TaskID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get time entry ID after insert: %w", err)
	}
	return &models.TimeEntry{
		ID:        int(id),
		TaskID:    e.TaskID,
		UserID:    e.UserID,
		Minutes:   e.Minutes,
		Note:      e.Note,
		SpentOn:   day,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (r *TaskRepo) listTimeEntries(ctx context.Context, taskID int) ([]*models.TimeEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, task_id, user_id, minutes, note, spent_on, created_at FROM time_entries
		 WHERE task_id = ? ORDER BY spent_on, id`, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query time entries of task %d: %w", taskID, err)
	}
	defer closeRows(rows)

	entries := make([]*models.TimeEntry, 0)
	for rows.Next() {
		e := &models.TimeEntry{}
		var (
			uid   sql.NullInt64
			spent sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.TaskID, &uid, &e.Minutes, &e.Note, &spent, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		e.UserID = int(uid.Int64)
		if d := parseDate(spent); d != nil {
			e.SpentOn = *d
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// AddAssignee assigns a user to a task. Assigning twice is a no-op.
func (r *TaskRepo) AddAssignee(ctx context.Context, taskID, userID int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO task_assignees (task_id, user_id) VALUES (?, ?)`, taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to assign user %d to task %d: %w", userID, taskID, err)
	}
	return nil
}

// RemoveAssignee unassigns a user from a task
func (r *TaskRepo) RemoveAssignee(ctx context.Context, taskID, userID int) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM task_assignees WHERE task_id = ? AND user_id = ?`, taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to unassign user %d from task %d: %w", userID, taskID, err)
	}
	return nil
}

// AddTaskTag tags a task. Tagging twice is a no-op.
func (r *TaskRepo) AddTaskTag(ctx context.Context, taskID, tagID int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO task_tags (task_id, tag_id) VALUES (?, ?)`, taskID, tagID)
	if err != nil {
		return fmt.Errorf("failed to tag task %d with %d: %w", taskID, tagID, err)
	}
	return nil
}

// RemoveTaskTag removes a tag from a task
func (r *TaskRepo) RemoveTaskTag(ctx context.Context, taskID, tagID int) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM task_tags WHERE task_id = ? AND tag_id = ?`, taskID, tagID)
	if err != nil {
		return fmt.Errorf("failed to untag task %d: %w", taskID, err)
	}
	return nil
}

// AddAttachment records an uploaded file's reference on a task
func (r *TaskRepo) AddAttachment(ctx context.Context, a *models.Attachment) (*models.Attachment, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO attachments (task_id, name, url, size) VALUES (?, ?, ?, ?)`,
		a.TaskID, a.Name, a.URL, a.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to attach '%s' to task %d: %w", a.Name, a.TaskID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment ID after insert: %w", err)
	}
	out := *a
	out.ID = int(id)
	out.CreatedAt = time.Now().UTC()
	return &out, nil
}

func (r *TaskRepo) listAttachments(ctx context.Context, taskID int) ([]*models.Attachment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, task_id, name, url, size, created_at FROM attachments
		 WHERE task_id = ? ORDER BY created_at, id`, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attachments of task %d: %w", taskID, err)
	}
	defer closeRows(rows)

	attachments := make([]*models.Attachment, 0)
	for rows.Next() {
		a := &models.Attachment{}
		if err := rows.Scan(&a.ID, &a.TaskID, &a.Name, &a.URL, &a.Size, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}
