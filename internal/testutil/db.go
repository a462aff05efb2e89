package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/studio/internal/blobstore"
	"github.com/thenoetrevino/studio/internal/database"
	"github.com/thenoetrevino/studio/internal/models"
)

// SetupTestDB opens a migrated in-memory database that is closed with the test
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(context.Background(), ":memory:")
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// SetupTestRepo returns a repository over a fresh in-memory database
func SetupTestRepo(t *testing.T) *database.Repository {
	t.Helper()
	return database.NewRepository(SetupTestDB(t))
}

// CreateTestProject creates a project with the default workflow and returns it
func CreateTestProject(t *testing.T, store database.DataStore, name string) *models.Project {
	t.Helper()
	p, err := store.CreateProject(context.Background(), &models.Project{Name: name})
	require.NoError(t, err)
	return p
}

// StatusNamed looks up a project's status by name, failing the test when absent
func StatusNamed(t *testing.T, store database.DataStore, projectID int, name string) *models.Status {
	t.Helper()
	statuses, err := store.ListStatuses(context.Background(), projectID)
	require.NoError(t, err)
	for _, s := range statuses {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("status %q not found in project %d", name, projectID)
	return nil
}

// CreateTestTask creates a task in the given status
func CreateTestTask(t *testing.T, store database.DataStore, projectID, statusID int, title string) *models.Task {
	t.Helper()
	task, err := store.CreateTask(context.Background(), &models.Task{
		ProjectID: projectID,
		StatusID:  statusID,
		Title:     title,
	})
	require.NoError(t, err)
	return task
}

// CreateTestFolder creates a folder in scope under parent (nil for a root)
func CreateTestFolder(t *testing.T, store database.DataStore, scope models.Scope, parent *int, name string) *models.Folder {
	t.Helper()
	f, err := store.CreateFolder(context.Background(), scope, parent, name)
	require.NoError(t, err)
	return f
}

// CreateTestUser creates a workspace member
func CreateTestUser(t *testing.T, store database.DataStore, name string) *models.User {
	t.Helper()
	u, err := store.CreateUser(context.Background(), name, "")
	require.NoError(t, err)
	return u
}

// CreateTestTag creates a workspace tag
func CreateTestTag(t *testing.T, store database.DataStore, name string) *models.Tag {
	t.Helper()
	tag, err := store.CreateTag(context.Background(), name, "")
	require.NoError(t, err)
	return tag
}

// SetupBlobStore returns a blob store in a temporary directory
func SetupBlobStore(t *testing.T) *blobstore.Store {
	t.Helper()
	s, err := blobstore.New(t.TempDir())
	require.NoError(t, err)
	return s
}

// IntPtr returns a pointer to v
func IntPtr(v int) *int { return &v }
