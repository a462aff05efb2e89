package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/thenoetrevino/studio/internal/models"
)

// ProjectRepo handles all project-related database operations.
type ProjectRepo struct {
	db *sql.DB
}

const projectColumns = `id, client_id, name, description, status, created_at, updated_at`

func scanProject(row interface{ Scan(...any) error }) (*models.Project, error) {
	p := &models.Project{}
	var clientID sql.NullInt64
	if err := row.Scan(&p.ID, &clientID, &p.Name, &p.Description, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.ClientID = nullInt64ToPtr(clientID)
	return p, nil
}

// CreateProject creates a new project together with its default workflow
// (To Do, In Progress, Review, Done). The first status is the default one.
func (r *ProjectRepo) CreateProject(ctx context.Context, in *models.Project) (*models.Project, error) {
	status := in.Status
	if status == "" {
		status = models.ProjectActive
	}

	var projectID int64
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO projects (client_id, name, description, status) VALUES (?, ?, ?, ?)`,
			intPtrToArg(in.ClientID), in.Name, in.Description, status,
		)
		if err != nil {
			return fmt.Errorf("failed to insert project '%s': %w", in.Name, err)
		}

		projectID, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get project ID after insert: %w", err)
		}

		for i, s := range models.DefaultStatuses {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO statuses (project_id, name, color, position, is_default) VALUES (?, ?, ?, ?, ?)`,
				projectID, s.Name, s.Color, i, i == 0,
			)
			if err != nil {
				return fmt.Errorf("failed to create default status '%s' for project %d: %w", s.Name, projectID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetProjectByID(ctx, int(projectID))
}

// GetProjectByID retrieves a project by its ID
func (r *ProjectRepo) GetProjectByID(ctx context.Context, id int) (*models.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if err != nil {
		return nil, notFound(err, "project", id)
	}
	return p, nil
}

// ListProjects retrieves projects ordered by name
func (r *ProjectRepo) ListProjects(ctx context.Context, filter models.ProjectFilter) ([]*models.Project, error) {
	var (
		where []string
		args  []any
	)
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		where = append(where, `(name LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\')`)
		pattern := containsLike(filter.Search)
		args = append(args, pattern, pattern)
	}

	query := `SELECT ` + projectColumns + ` FROM projects`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY name COLLATE NOCASE, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer closeRows(rows)

	projects := make([]*models.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}
