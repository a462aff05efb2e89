package projection

import (
	"cmp"
	"slices"

	"github.com/thenoetrevino/studio/internal/models"
)

// Column is one status of a board with the cards currently in it
type Column struct {
	Status *models.Status        `json:"status"`
	Tasks  []*models.TaskSummary `json:"tasks"`
}

// Board is a project's tasks grouped by status
type Board struct {
	ProjectID int       `json:"project_id"`
	Columns   []*Column `json:"columns"`
}

// GroupByStatus creates one column per status in position order and files each task
// under its status. Tasks referencing an unknown status are dropped.
func GroupByStatus(statuses []*models.Status, tasks []*models.TaskSummary) *Board {
	ordered := slices.Clone(statuses)
	slices.SortStableFunc(ordered, func(a, b *models.Status) int {
		if c := cmp.Compare(a.Position, b.Position); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	b := &Board{Columns: make([]*Column, 0, len(ordered))}
	byID := make(map[int]*Column, len(ordered))
	for _, s := range ordered {
		if _, dup := byID[s.ID]; dup {
			continue
		}
		col := &Column{Status: s, Tasks: make([]*models.TaskSummary, 0)}
		byID[s.ID] = col
		b.Columns = append(b.Columns, col)
		if b.ProjectID == 0 {
			b.ProjectID = s.ProjectID
		}
	}

	for _, t := range tasks {
		col, ok := byID[t.StatusID]
		if !ok {
			continue
		}
		if t.Status == nil {
			t.Status = col.Status
		}
		col.Tasks = append(col.Tasks, t)
	}
	return b
}

// Column returns the column of a status, or nil
func (b *Board) Column(statusID int) *Column {
	if b == nil {
		return nil
	}
	for _, c := range b.Columns {
		if c.Status.ID == statusID {
			return c
		}
	}
	return nil
}

// Find locates a task on the board. The index is -1 when the task is absent.
func (b *Board) Find(taskID int) (*Column, int) {
	if b == nil {
		return nil, -1
	}
	for _, c := range b.Columns {
		for i, t := range c.Tasks {
			if t.ID == taskID {
				return c, i
			}
		}
	}
	return nil, -1
}

// Len counts the cards on the board
func (b *Board) Len() int {
	if b == nil {
		return 0
	}
	n := 0
	for _, c := range b.Columns {
		n += len(c.Tasks)
	}
	return n
}

// MoveTask moves a card to the end of another column and attaches that column's
// status to it. It reports false when the card is already there.
func (b *Board) MoveTask(taskID, statusID int) (bool, error) {
	from, idx := b.Find(taskID)
	if from == nil {
		return false, models.ErrTaskNotOnBoard
	}
	to := b.Column(statusID)
	if to == nil {
		return false, models.ErrUnknownStatus
	}
	if from == to {
		return false, nil
	}

	task := from.Tasks[idx]
	from.Tasks = slices.Delete(from.Tasks, idx, idx+1)
	renumber(from.Tasks)

	task.StatusID = to.Status.ID
	task.Status = to.Status
	task.Position = len(to.Tasks)
	to.Tasks = append(to.Tasks, task)
	return true, nil
}

// Reorder moves a card to index within its own column. The index is clamped to the
// column bounds.
func (b *Board) Reorder(taskID, index int) error {
	col, idx := b.Find(taskID)
	if col == nil {
		return models.ErrTaskNotOnBoard
	}
	index = max(0, min(index, len(col.Tasks)-1))
	if index == idx {
		return nil
	}

	task := col.Tasks[idx]
	col.Tasks = slices.Delete(col.Tasks, idx, idx+1)
	col.Tasks = slices.Insert(col.Tasks, index, task)
	renumber(col.Tasks)
	return nil
}

// RemoveTask drops a card from the board
func (b *Board) RemoveTask(taskID int) bool {
	col, idx := b.Find(taskID)
	if col == nil {
		return false
	}
	col.Tasks = slices.Delete(col.Tasks, idx, idx+1)
	renumber(col.Tasks)
	return true
}

func renumber(tasks []*models.TaskSummary) {
	for i, t := range tasks {
		t.Position = i
	}
}
