package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/thenoetrevino/studio/internal/models"
)

// StatusRepo handles the status columns of project workflows.
type StatusRepo struct {
	db *sql.DB
}

// GetStatusByID retrieves a status by its ID
func (r *StatusRepo) GetStatusByID(ctx context.Context, id int) (*models.Status, error) {
	s := &models.Status{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, project_id, name, color, position, is_default FROM statuses WHERE id = ?`, id,
	).Scan(&s.ID, &s.ProjectID, &s.Name, &s.Color, &s.Position, &s.IsDefault)
	if err != nil {
		return nil, notFound(err, "status", id)
	}
	return s, nil
}

// ListStatuses retrieves the statuses of a project in workflow order
func (r *StatusRepo) ListStatuses(ctx context.Context, projectID int) ([]*models.Status, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, project_id, name, color, position, is_default
		 FROM statuses WHERE project_id = ? ORDER BY position, id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query statuses for project %d: %w", projectID, err)
	}
	defer closeRows(rows)

	statuses := make([]*models.Status, 0)
	for rows.Next() {
		s := &models.Status{}
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.Name, &s.Color, &s.Position, &s.IsDefault); err != nil {
			return nil, fmt.Errorf("failed to scan status: %w", err)
		}
		statuses = append(statuses, s)
	}
	return statuses, rows.Err()
}

// CreateStatus appends a status at the end of the project's workflow
func (r *StatusRepo) CreateStatus(ctx context.Context, projectID int, name, color string) (*models.Status, error) {
	if color == "" {
		color = models.DefaultStatuses[0].Color
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO statuses (project_id, name, color, position)
		 VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM statuses WHERE project_id = ?))`,
		projectID, name, color, projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert status '%s' for project %d: %w", name, projectID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get status ID after insert: %w", err)
	}
	return r.GetStatusByID(ctx, int(id))
}

// RenameStatus changes the display name of a status
func (r *StatusRepo) RenameStatus(ctx context.Context, id int, name string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE statuses SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return fmt.Errorf("failed to rename status %d: %w", id, err)
	}
	return expectAffected(res, "status", id)
}

// SetDefaultStatus makes id the project's default status. It runs two independent
// statements (clear, then set) without a transaction, so a failure between them leaves
// the project with no default until the next successful call.
func (r *StatusRepo) SetDefaultStatus(ctx context.Context, id int) error {
	st, err := r.GetStatusByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE statuses SET is_default = 0 WHERE project_id = ?`, st.ProjectID); err != nil {
		return fmt.Errorf("failed to clear default status for project %d: %w", st.ProjectID, err)
	}
	res, err := r.db.ExecContext(ctx, `UPDATE statuses SET is_default = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to set default status %d: %w", id, err)
	}
	return expectAffected(res, "status", id)
}

// DeleteStatus removes a status. Tasks reference statuses with ON DELETE RESTRICT, so
// deleting a status that still has tasks fails with a foreign key error
// (see IsForeignKeyError).
func (r *StatusRepo) DeleteStatus(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM statuses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete status %d: %w", id, err)
	}
	return expectAffected(res, "status", id)
}
