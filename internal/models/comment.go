package models

import "time"

// Task sub-resources. TempID is set only on entries added optimistically on the
// client that the store has not confirmed yet; confirmed rows have an ID and no TempID.

// ChecklistItem is one line of a task's checklist
type ChecklistItem struct {
	ID       int    `json:"id"`
	TempID   string `json:"temp_id,omitempty"`
	TaskID   int    `json:"task_id"`
	Content  string `json:"content"`
	IsDone   bool   `json:"is_done"`
	Position int    `json:"position"`
}

// Comment is a note left on a task
type Comment struct {
	ID        int       `json:"id"`
	TempID    string    `json:"temp_id,omitempty"`
	TaskID    int       `json:"task_id"`
	UserID    int       `json:"user_id,omitempty"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// TimeEntry records minutes spent on a task on a given day
type TimeEntry struct {
	ID        int       `json:"id"`
	TempID    string    `json:"temp_id,omitempty"`
	TaskID    int       `json:"task_id"`
	UserID    int       `json:"user_id,omitempty"`
	Minutes   int       `json:"minutes"`
	Note      string    `json:"note,omitempty"`
	SpentOn   time.Time `json:"spent_on"`
	CreatedAt time.Time `json:"created_at"`
}

// Attachment is a file linked to a task. URL is the durable reference returned by
// the object store; the bytes themselves live outside the database.
type Attachment struct {
	ID        int       `json:"id"`
	TaskID    int       `json:"task_id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}
