package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/thenoetrevino/studio/internal/models"
)

// TaskRepo handles tasks and their sub-resources.
type TaskRepo struct {
	db *sql.DB
}

const taskColumns = `id, project_id, status_id, title, description, priority, due_date, position, created_at, updated_at`

func scanTask(row interface{ Scan(...any) error }) (*models.Task, error) {
	t := &models.Task{}
	var due sql.NullString
	err := row.Scan(&t.ID, &t.ProjectID, &t.StatusID, &t.Title, &t.Description,
		&t.Priority, &due, &t.Position, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.DueDate = parseDate(due)
	return t, nil
}

// CreateTask inserts a task at the bottom of its status column. A zero StatusID places
// the task in the project's default status.
func (r *TaskRepo) CreateTask(ctx context.Context, in *models.Task) (*models.Task, error) {
	priority := in.Priority
	if priority == "" {
		priority = models.DefaultPriority
	}

	var id int64
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		statusID := in.StatusID
		if statusID == 0 {
			err := tx.QueryRowContext(ctx,
				`SELECT id FROM statuses WHERE project_id = ? ORDER BY is_default DESC, position, id LIMIT 1`,
				in.ProjectID,
			).Scan(&statusID)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("project %d: %w", in.ProjectID, ErrNoDefaultStatus)
			}
			if err != nil {
				return fmt.Errorf("failed to resolve default status for project %d: %w", in.ProjectID, err)
			}
		} else {
			var owner int
			err := tx.QueryRowContext(ctx, `SELECT project_id FROM statuses WHERE id = ?`, statusID).Scan(&owner)
			if err != nil {
				return notFound(err, "status", statusID)
			}
			if owner != in.ProjectID {
				return fmt.Errorf("status %d: %w", statusID, ErrStatusMismatch)
			}
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO tasks (project_id, status_id, title, description, priority, due_date, position)
			 VALUES (?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM tasks WHERE status_id = ?))`,
			in.ProjectID, statusID, in.Title, in.Description, string(priority), formatDate(in.DueDate), statusID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert task '%s': %w", in.Title, err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get task ID after insert: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetTask(ctx, int(id))
}

// GetTask retrieves the bare task row
func (r *TaskRepo) GetTask(ctx context.Context, id int) (*models.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "task", id)
	}
	return t, nil
}

// ListTaskSummaries returns the board cards of a project ordered by position, then
// creation time. Each card carries its status, assignees and tags.
func (r *TaskRepo) ListTaskSummaries(ctx context.Context, projectID int, filter models.TaskFilter) ([]*models.TaskSummary, error) {
	where := []string{"t.project_id = ?"}
	args := []any{projectID}
	if filter.StatusID != 0 {
		where = append(where, "t.status_id = ?")
		args = append(args, filter.StatusID)
	}
	if filter.Priority != "" {
		where = append(where, "t.priority = ?")
		args = append(args, string(filter.Priority))
	}
	if filter.Search != "" {
		where = append(where, `(t.title LIKE ? ESCAPE '\' OR t.description LIKE ? ESCAPE '\')`)
		pattern := containsLike(filter.Search)
		args = append(args, pattern, pattern)
	}
	if filter.AssigneeID != 0 {
		where = append(where, "EXISTS (SELECT 1 FROM task_assignees a WHERE a.task_id = t.id AND a.user_id = ?)")
		args = append(args, filter.AssigneeID)
	}
	if filter.TagID != 0 {
		where = append(where, "EXISTS (SELECT 1 FROM task_tags g WHERE g.task_id = t.id AND g.tag_id = ?)")
		args = append(args, filter.TagID)
	}

	query := `SELECT t.id, t.project_id, t.status_id, t.title, t.priority, t.due_date, t.position, t.created_at,
			s.id, s.project_id, s.name, s.color, s.position, s.is_default
		FROM tasks t JOIN statuses s ON s.id = t.status_id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY t.position, t.created_at, t.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks for project %d: %w", projectID, err)
	}
	defer closeRows(rows)

	summaries := make([]*models.TaskSummary, 0)
	for rows.Next() {
		ts := &models.TaskSummary{Status: &models.Status{}, Assignees: []*models.User{}, Tags: []*models.Tag{}}
		var due sql.NullString
		err := rows.Scan(&ts.ID, &ts.ProjectID, &ts.StatusID, &ts.Title, &ts.Priority, &due, &ts.Position, &ts.CreatedAt,
			&ts.Status.ID, &ts.Status.ProjectID, &ts.Status.Name, &ts.Status.Color, &ts.Status.Position, &ts.Status.IsDefault)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task summary: %w", err)
		}
		ts.DueDate = parseDate(due)
		summaries = append(summaries, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return summaries, nil
	}

	byID := make(map[int]*models.TaskSummary, len(summaries))
	for _, ts := range summaries {
		byID[ts.ID] = ts
	}
	assignees, err := r.assigneesFor(ctx, `t.project_id = ?`, projectID)
	if err != nil {
		return nil, err
	}
	for taskID, users := range assignees {
		if ts, ok := byID[taskID]; ok {
			ts.Assignees = users
		}
	}
	tags, err := r.tagsFor(ctx, `t.project_id = ?`, projectID)
	if err != nil {
		return nil, err
	}
	for taskID, list := range tags {
		if ts, ok := byID[taskID]; ok {
			ts.Tags = list
		}
	}
	return summaries, nil
}

func (r *TaskRepo) assigneesFor(ctx context.Context, cond string, arg any) (map[int][]*models.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT a.task_id, u.id, u.name, u.email
		 FROM task_assignees a JOIN users u ON u.id = a.user_id JOIN tasks t ON t.id = a.task_id
		 WHERE `+cond+` ORDER BY u.name COLLATE NOCASE, u.id`, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignees: %w", err)
	}
	defer closeRows(rows)

	out := make(map[int][]*models.User)
	for rows.Next() {
		var taskID int
		u := &models.User{}
		if err := rows.Scan(&taskID, &u.ID, &u.Name, &u.Email); err != nil {
			return nil, fmt.Errorf("failed to scan assignee: %w", err)
		}
		out[taskID] = append(out[taskID], u)
	}
	return out, rows.Err()
}

func (r *TaskRepo) tagsFor(ctx context.Context, cond string, arg any) (map[int][]*models.Tag, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT g.task_id, tg.id, tg.name, tg.color
		 FROM task_tags g JOIN tags tg ON tg.id = g.tag_id JOIN tasks t ON t.id = g.task_id
		 WHERE `+cond+` ORDER BY tg.name COLLATE NOCASE, tg.id`, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer closeRows(rows)

	out := make(map[int][]*models.Tag)
	for rows.Next() {
		var taskID int
		tg := &models.Tag{}
		if err := rows.Scan(&taskID, &tg.ID, &tg.Name, &tg.Color); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		out[taskID] = append(out[taskID], tg)
	}
	return out, rows.Err()
}

// GetTaskDetail loads the full task aggregate: the task, its status and every sub-resource.
func (r *TaskRepo) GetTaskDetail(ctx context.Context, id int) (*models.TaskDetail, error) {
	t, err := r.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &models.TaskDetail{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		StatusID:    t.StatusID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		Position:    t.Position,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		Assignees:   []*models.User{},
		Tags:        []*models.Tag{},
	}

	st := &models.Status{}
	err = r.db.QueryRowContext(ctx,
		`SELECT id, project_id, name, color, position, is_default FROM statuses WHERE id = ?`, t.StatusID,
	).Scan(&st.ID, &st.ProjectID, &st.Name, &st.Color, &st.Position, &st.IsDefault)
	if err != nil {
		return nil, notFound(err, "status", t.StatusID)
	}
	d.Status = st

	assignees, err := r.assigneesFor(ctx, `t.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if users, ok := assignees[id]; ok {
		d.Assignees = users
	}
	tags, err := r.tagsFor(ctx, `t.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if list, ok := tags[id]; ok {
		d.Tags = list
	}

	if d.Checklist, err = r.listChecklist(ctx, id); err != nil {
		return nil, err
	}
	if d.Comments, err = r.listComments(ctx, id); err != nil {
		return nil, err
	}
	if d.TimeEntries, err = r.listTimeEntries(ctx, id); err != nil {
		return nil, err
	}
	if d.Attachments, err = r.listAttachments(ctx, id); err != nil {
		return nil, err
	}
	return d, nil
}

// UpdateTask applies the non-nil fields of upd
func (r *TaskRepo) UpdateTask(ctx context.Context, id int, upd TaskUpdate) error {
	var (
		sets []string
		args []any
	)
	if upd.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}
	if upd.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, string(*upd.Priority))
	}
	switch {
	case upd.ClearDueDate:
		sets = append(sets, "due_date = NULL")
	case upd.DueDate != nil:
		sets = append(sets, "due_date = ?")
		args = append(args, formatDate(upd.DueDate))
	}
	if len(sets) == 0 {
		_, err := r.GetTask(ctx, id)
		return err
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("failed to update task %d: %w", id, err)
	}
	return expectAffected(res, "task", id)
}

// MoveTask changes the status of a task. This is a single-field update: the task keeps
// its position value.
func (r *TaskRepo) MoveTask(ctx context.Context, id, statusID int) error {
	t, err := r.GetTask(ctx, id)
	if err != nil {
		return err
	}
	var owner int
	if err := r.db.QueryRowContext(ctx, `SELECT project_id FROM statuses WHERE id = ?`, statusID).Scan(&owner); err != nil {
		return notFound(err, "status", statusID)
	}
	if owner != t.ProjectID {
		return fmt.Errorf("status %d: %w", statusID, ErrStatusMismatch)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET status_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, statusID, id)
	if err != nil {
		return fmt.Errorf("failed to move task %d to status %d: %w", id, statusID, err)
	}
	return expectAffected(res, "task", id)
}

// DeleteTask removes a task and, by cascade, its sub-resources
func (r *TaskRepo) DeleteTask(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task %d: %w", id, err)
	}
	return expectAffected(res, "task", id)
}
