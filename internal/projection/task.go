package projection

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/thenoetrevino/studio/internal/models"
)

// TempIDPrefix marks identifiers created locally for entries the store has not
// confirmed yet
const TempIDPrefix = "tmp-"

// NewTempID returns a fresh temporary identifier
func NewTempID() string {
	return TempIDPrefix + uuid.NewString()
}

// TaskAggregate is the merged task shown on the task page, with the optimistic
// operations the page performs on it. Entries added locally carry a TempID until they
// are confirmed with the stored row.
type TaskAggregate struct {
	*models.TaskDetail
}

// NewTaskAggregate wraps a task detail; a nil detail (task not found) yields nil
func NewTaskAggregate(d *models.TaskDetail) *TaskAggregate {
	if d == nil {
		return nil
	}
	return &TaskAggregate{TaskDetail: d}
}

// confirm replaces the pending entry tempID with the stored row. If the list already
// holds the stored row (a reload delivered it first) the pending entry is dropped; if
// neither is present (a reload dropped the pending entry) the row is appended. The
// list never ends up with two entries for one row.
func confirm[E any](list []E, tempID string, stored E, id func(E) int, temp func(E) string) []E {
	storedID := id(stored)
	pending := slices.IndexFunc(list, func(e E) bool { return tempID != "" && temp(e) == tempID })
	present := slices.IndexFunc(list, func(e E) bool { return temp(e) == "" && id(e) == storedID })

	switch {
	case present >= 0 && pending >= 0:
		return slices.Delete(list, pending, pending+1)
	case present >= 0:
		return list
	case pending >= 0:
		list[pending] = stored
		return list
	default:
		return append(list, stored)
	}
}

func checklistID(c *models.ChecklistItem) int      { return c.ID }
func checklistTemp(c *models.ChecklistItem) string { return c.TempID }
func commentID(c *models.Comment) int              { return c.ID }
func commentTemp(c *models.Comment) string         { return c.TempID }
func timeEntryID(e *models.TimeEntry) int          { return e.ID }
func timeEntryTemp(e *models.TimeEntry) string     { return e.TempID }

// AddChecklistItem appends a pending checklist item and returns it
func (a *TaskAggregate) AddChecklistItem(content string) *models.ChecklistItem {
	if a == nil {
		return nil
	}
	item := &models.ChecklistItem{
		TempID:   NewTempID(),
		TaskID:   a.ID,
		Content:  content,
		Position: len(a.Checklist),
	}
	a.Checklist = append(a.Checklist, item)
	return item
}

// ConfirmChecklistItem swaps the pending item tempID for the stored one
func (a *TaskAggregate) ConfirmChecklistItem(tempID string, stored *models.ChecklistItem) {
	if a == nil || stored == nil {
		return
	}
	a.Checklist = confirm(a.Checklist, tempID, stored, checklistID, checklistTemp)
}

// SetChecklistItemDone flips the done flag of a stored item
func (a *TaskAggregate) SetChecklistItemDone(itemID int, done bool) bool {
	if a == nil {
		return false
	}
	for _, item := range a.Checklist {
		if item.ID == itemID && item.TempID == "" {
			item.IsDone = done
			return true
		}
	}
	return false
}

// RemoveChecklistItem drops a stored item
func (a *TaskAggregate) RemoveChecklistItem(itemID int) bool {
	if a == nil {
		return false
	}
	before := len(a.Checklist)
	a.Checklist = slices.DeleteFunc(a.Checklist, func(c *models.ChecklistItem) bool {
		return c.ID == itemID && c.TempID == ""
	})
	return len(a.Checklist) != before
}

// ChecklistProgress returns the number of done items and the total
func (a *TaskAggregate) ChecklistProgress() (done, total int) {
	if a == nil {
		return 0, 0
	}
	for _, item := range a.Checklist {
		if item.IsDone {
			done++
		}
	}
	return done, len(a.Checklist)
}

// AddComment appends a pending comment and returns it
func (a *TaskAggregate) AddComment(author *models.User, body string) *models.Comment {
	if a == nil {
		return nil
	}
	c := &models.Comment{
		TempID:    NewTempID(),
		TaskID:    a.ID,
		Body:      body,
		CreatedAt: time.Now(),
	}
	if author != nil {
		c.UserID = author.ID
		c.Author = author.Name
	}
	a.Comments = append(a.Comments, c)
	return c
}

// ConfirmComment swaps the pending comment tempID for the stored one
func (a *TaskAggregate) ConfirmComment(tempID string, stored *models.Comment) {
	if a == nil || stored == nil {
		return
	}
	a.Comments = confirm(a.Comments, tempID, stored, commentID, commentTemp)
}

// AddTimeEntry appends a pending time entry and returns it
func (a *TaskAggregate) AddTimeEntry(userID, minutes int, note string, spentOn time.Time) *models.TimeEntry {
	if a == nil {
		return nil
	}
	e := &models.TimeEntry{
		TempID:    NewTempID(),
		TaskID:    a.ID,
		UserID:    userID,
		Minutes:   minutes,
		Note:      note,
		SpentOn:   spentOn,
		CreatedAt: time.Now(),
	}
	a.TimeEntries = append(a.TimeEntries, e)
	return e
}

// ConfirmTimeEntry swaps the pending entry tempID for the stored one
func (a *TaskAggregate) ConfirmTimeEntry(tempID string, stored *models.TimeEntry) {
	if a == nil || stored == nil {
		return
	}
	a.TimeEntries = confirm(a.TimeEntries, tempID, stored, timeEntryID, timeEntryTemp)
}

// AddAssignee adds a user to the task unless already assigned
func (a *TaskAggregate) AddAssignee(u *models.User) bool {
	if a == nil || u == nil {
		return false
	}
	if slices.ContainsFunc(a.Assignees, func(x *models.User) bool { return x.ID == u.ID }) {
		return false
	}
	a.Assignees = append(a.Assignees, u)
	return true
}

// RemoveAssignee removes a user from the task
func (a *TaskAggregate) RemoveAssignee(userID int) bool {
	if a == nil {
		return false
	}
	before := len(a.Assignees)
	a.Assignees = slices.DeleteFunc(a.Assignees, func(u *models.User) bool { return u.ID == userID })
	return len(a.Assignees) != before
}

// AddTag adds a tag to the task unless already present
func (a *TaskAggregate) AddTag(t *models.Tag) bool {
	if a == nil || t == nil {
		return false
	}
	if slices.ContainsFunc(a.Tags, func(x *models.Tag) bool { return x.ID == t.ID }) {
		return false
	}
	a.Tags = append(a.Tags, t)
	return true
}

// RemoveTag removes a tag from the task
func (a *TaskAggregate) RemoveTag(tagID int) bool {
	if a == nil {
		return false
	}
	before := len(a.Tags)
	a.Tags = slices.DeleteFunc(a.Tags, func(t *models.Tag) bool { return t.ID == tagID })
	return len(a.Tags) != before
}
