package models

import "time"

// Project statuses
const (
	ProjectActive    = "active"
	ProjectPaused    = "paused"
	ProjectCompleted = "completed"
)

// Project groups a workflow (statuses), tasks and project-scoped documents.
// A project optionally belongs to a client.
type Project struct {
	ID          int       `json:"id"`
	ClientID    *int      `json:"client_id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GetID returns the project ID (used by quiet CLI output)
func (p *Project) GetID() int { return p.ID }

// ProjectFilter narrows a project listing. Zero values mean "no filter".
type ProjectFilter struct {
	Status string
	Search string
}

// Client is an agency customer
type Client struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// GetID returns the client ID
func (c *Client) GetID() int { return c.ID }

// Contract is a retainer-style agreement with a client that runs over a range of months.
// EndMonth is nil for open-ended contracts.
type Contract struct {
	ID              int        `json:"id"`
	ClientID        int        `json:"client_id"`
	Title           string     `json:"title"`
	Status          string     `json:"status"`
	StartMonth      time.Time  `json:"start_month"`
	EndMonth        *time.Time `json:"end_month,omitempty"`
	MonthlyFeeCents int64      `json:"monthly_fee_cents"`
}

// GetID returns the contract ID
func (c *Contract) GetID() int { return c.ID }

// ActiveIn reports whether the contract's month range overlaps the month containing t.
func (c *Contract) ActiveIn(t time.Time) bool {
	month := FirstOfMonth(t)
	if FirstOfMonth(c.StartMonth).After(month) {
		return false
	}
	return c.EndMonth == nil || !FirstOfMonth(*c.EndMonth).Before(month)
}

// ContractFilter narrows a contract listing. Month, when set, keeps contracts whose
// month range overlaps that month.
type ContractFilter struct {
	ClientID int
	Status   string
	Search   string
	Month    *time.Time
}

// FirstOfMonth truncates t to the first day of its month in UTC
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
