package models

// User is a workspace member who can be assigned to tasks and log time
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// GetID returns the user ID
func (u *User) GetID() int { return u.ID }

// Tag is a workspace-wide label that can be attached to tasks
type Tag struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// GetID returns the tag ID
func (t *Tag) GetID() int { return t.ID }
