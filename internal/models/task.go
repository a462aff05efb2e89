package models

import "time"

// Task is a single work item. It belongs to exactly one project and sits in exactly
// one of that project's statuses.
type Task struct {
	ID          int        `json:"id"`
	ProjectID   int        `json:"project_id"`
	StatusID    int        `json:"status_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Position    int        `json:"position"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// GetID returns the task ID
func (t *Task) GetID() int { return t.ID }

// TaskSummary is a board card: the task plus the related rows needed to render it.
// Status is the already-fetched status object the card currently sits in.
type TaskSummary struct {
	ID        int        `json:"id"`
	ProjectID int        `json:"project_id"`
	StatusID  int        `json:"status_id"`
	Status    *Status    `json:"status,omitempty"`
	Title     string     `json:"title"`
	Priority  Priority   `json:"priority"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	Position  int        `json:"position"`
	Assignees []*User    `json:"assignees"`
	Tags      []*Tag     `json:"tags"`
	CreatedAt time.Time  `json:"created_at"`
}

// GetID returns the task ID
func (t *TaskSummary) GetID() int { return t.ID }

// TaskDetail is the merged task aggregate shown on the task page
type TaskDetail struct {
	ID          int              `json:"id"`
	ProjectID   int              `json:"project_id"`
	StatusID    int              `json:"status_id"`
	Status      *Status          `json:"status,omitempty"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Priority    Priority         `json:"priority"`
	DueDate     *time.Time       `json:"due_date,omitempty"`
	Position    int              `json:"position"`
	Assignees   []*User          `json:"assignees"`
	Tags        []*Tag           `json:"tags"`
	Checklist   []*ChecklistItem `json:"checklist"`
	Comments    []*Comment       `json:"comments"`
	TimeEntries []*TimeEntry     `json:"time_entries"`
	Attachments []*Attachment    `json:"attachments"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// GetID returns the task ID
func (t *TaskDetail) GetID() int { return t.ID }

// TotalMinutes sums all logged time entries
func (t *TaskDetail) TotalMinutes() int {
	total := 0
	for _, e := range t.TimeEntries {
		total += e.Minutes
	}
	return total
}

// TaskFilter narrows a work item listing. Zero values mean "no filter".
type TaskFilter struct {
	StatusID   int
	AssigneeID int
	TagID      int
	Priority   Priority
	Search     string // substring match on title and description
}
