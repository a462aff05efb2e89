package models

// Status is one column of a project's workflow (e.g. "To Do", "In Progress", "Done").
// Statuses are ordered by Position. Exactly one status per project should carry
// IsDefault; the store does not enforce this atomically.
type Status struct {
	ID        int    `json:"id"`
	ProjectID int    `json:"project_id"`
	Name      string `json:"name"`
	Color     string `json:"color,omitempty"`
	Position  int    `json:"position"`
	IsDefault bool   `json:"is_default"`
}

// GetID returns the status ID
func (s *Status) GetID() int { return s.ID }

// DefaultStatuses is the workflow seeded into every new project. The first entry is the default.
var DefaultStatuses = []struct {
	Name  string
	Color string
}{
	{"To Do", "#7D8590"},
	{"In Progress", "#2F81F7"},
	{"Review", "#D29922"},
	{"Done", "#3FB950"},
}
