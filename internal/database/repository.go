package database

import "database/sql"

// Repository provides a unified interface to all data operations.
// It composes domain-specific repositories using struct embedding.
type Repository struct {
	*ProjectRepo
	*ClientRepo
	*StatusRepo
	*TaskRepo
	*PeopleRepo
	*FolderRepo
	*DashboardRepo
}

var _ DataStore = (*Repository)(nil)

// NewRepository creates a new Repository instance wrapping the given database connection.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		ProjectRepo:   &ProjectRepo{db: db},
		ClientRepo:    &ClientRepo{db: db},
		StatusRepo:    &StatusRepo{db: db},
		TaskRepo:      &TaskRepo{db: db},
		PeopleRepo:    &PeopleRepo{db: db},
		FolderRepo:    &FolderRepo{db: db},
		DashboardRepo: &DashboardRepo{db: db},
	}
}
