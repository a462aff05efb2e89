package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/studio/internal/models"
)

// ============================================================================
// DATABASE SETUP HELPERS
// ============================================================================

// setupTestDB opens a migrated in-memory database that is closed with the test
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	return NewRepository(setupTestDB(t))
}

// ============================================================================
// FIXTURES
// ============================================================================

func createTestProject(t *testing.T, repo *Repository, name string) *models.Project {
	t.Helper()
	p, err := repo.CreateProject(context.Background(), &models.Project{Name: name})
	require.NoError(t, err)
	return p
}

func statusNamed(t *testing.T, repo *Repository, projectID int, name string) *models.Status {
	t.Helper()
	statuses, err := repo.ListStatuses(context.Background(), projectID)
	require.NoError(t, err)
	for _, s := range statuses {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("status %q not found in project %d", name, projectID)
	return nil
}

func createTestTask(t *testing.T, repo *Repository, projectID, statusID int, title string) *models.Task {
	t.Helper()
	task, err := repo.CreateTask(context.Background(), &models.Task{
		ProjectID: projectID,
		StatusID:  statusID,
		Title:     title,
	})
	require.NoError(t, err)
	return task
}

func intPtr(v int) *int { return &v }
