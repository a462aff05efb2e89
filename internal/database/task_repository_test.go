package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/studio/internal/models"
)

func TestCreateTask_DefaultsAndPosition(t *testing.T) {
	t.Parallel()
	repo := setupTestRepo(t)
	p := createTestProject(t, repo, "P")
	todo := statusNamed(t, repo, p.ID, "To Do")

	first := createTestTask(t, repo, p.ID, 0, "First")
	second := createTestTask(t, repo, p.ID, todo.ID, "Second")

	assert.Equal(t, todo.ID, first.StatusID)
	assert.Equal(t, models.DefaultPriority, first.Priority)
	assert.Equal(t, 0, first.Position)
	assert.Equal(t, 1, second.Position)
}

func TestCreateTask_StatusFromOtherProject(t *testing.T) {
	t.Parallel()
	repo := setupTestRepo(t)
	a := createTestProject(t, repo, "A")
	b := createTestProject(t, repo, "B")
	foreign := statusNamed(t, repo, b.ID, "To Do")

	_, err := repo.CreateTask(context.Background(), &models.Task{ProjectID: a.ID, StatusID: foreign.ID, Title: "x"})
	assert.ErrorIs(t, err, ErrStatusMismatch)
}

func TestListTaskSummaries_OrderAndRelations(t *testing.T) {
	t.Parallel()
	repo := setupTestRepo(t)
	ctx := context.Background()
	p := createTestProject(t, repo, "P")
	todo := statusNamed(t, repo, p.ID, "To Do")
	doing := statusNamed(t, repo, p.ID, "In Progress")

	a := createTestTask(t, repo, p.ID, todo.ID, "A")
	b := createTestTask(t, repo, p.ID, doing.ID, "B")
	c := createTestTask(t, repo, p.ID, todo.ID, "C")

	ana, err := repo.CreateUser(ctx, "Ana", "ana@example.com")
	require.NoError(t, err)
	urgent, err := repo.CreateTag(ctx, "urgent", "#F00")
	require.NoError(t, err)
	require.NoError(t, repo.AddAssignee(ctx, b.ID, ana.ID))
	require.NoError(t, repo.AddAssignee(ctx, b.ID, ana.ID))
	require.NoError(t, repo.AddTaskTag(ctx, c.ID, urgent.ID))

	summaries, err := repo.ListTaskSummaries(ctx, p.ID, models.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	// position 0 tasks first (A, B by creation), then C
	assert.Equal(t, []int{a.ID, b.ID, c.ID}, []int{summaries[0].ID, summaries[1].ID, summaries[2].ID})
	assert.Equal(t, "In Progress", summaries[1].Status.Name)
	require.Len(t, summaries[1].Assignees, 1)
	assert.Equal(t, "Ana", summaries[1].Assignees[0].Name)
	require.Len(t, summaries[2].Tags, 1)
	assert.NotNil(t, summaries[0].Assignees)
	assert.Empty(t, summaries[0].Tags)

	byAssignee, err := repo.ListTaskSummaries(ctx, p.ID, models.TaskFilter{AssigneeID: ana.ID})
	require.NoError(t, err)
	require.Len(t, byAssignee, 1)
	assert.Equal(t, b.ID, byAssignee[0].ID)

	byTag, err := repo.ListTaskSummaries(ctx, p.ID, models.TaskFilter{TagID: urgent.ID})
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, c.ID, byTag[0].ID)

	bySearch, err := repo.ListTaskSummaries(ctx, p.ID, models.TaskFilter{Search: "b"})
	require.NoError(t, err)
	assert.Len(t, bySearch, 1)
}

func TestListTaskSummaries_SearchMatchesWildcardsLiterally(t *testing.T) {
	t.Parallel()
	repo := setupTestRepo(t)
	ctx := context.Background()
	p := createTestProject(t, repo, "P")

	invoice := createTestTask(t, repo, p.ID, 0, "Invoice 50% deposit")
	createTestTask(t, repo, p.ID, 0, "Write copy")
	draft := createTestTask(t, repo, p.ID, 0, `copy_v2\final`)

	search := func(q string) []int {
		list, err := repo.ListTaskSummaries(ctx, p.ID, models.TaskFilter{Search: q})
		require.NoError(t, err)
		ids := make([]int, 0, len(list))
		for _, s := range list {
			ids = append(ids, s.ID)
		}
		return ids
	}

	assert.Equal(t, []int{invoice.ID}, search("%"))
	assert.Equal(t, []int{draft.ID}, search("_"))
	assert.Equal(t, []int{draft.ID}, search(`\`))
	assert.Len(t, search("COPY"), 2, "search stays case-insensitive")
}

func TestMoveTask(t *testing.T) {
	t.Parallel()
	repo := setupTestRepo(t)
	ctx := context.Background()
	p := createTestProject(t, repo, "P")
	other := createTestProject(t, repo, "Other")
	done := statusNamed(t, repo, p.ID, "Done")
	task := createTestTask(t, repo, p.ID, 0, "Ship")

	require.NoError(t, repo.MoveTask(ctx, task.ID, done.ID))
	got, err := repo.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, done.ID, got.StatusID)

	err = repo.MoveTask(ctx, task.ID, statusNamed(t, repo, other.ID, "Done").ID)
	assert.ErrorIs(t, err, ErrStatusMismatch)

	assert.ErrorIs(t, repo.MoveTask(ctx, 999, done.ID), ErrNotFound)
}

func TestUpdateTask_PartialFields(t *testing.T) {
	t.Parallel()
	repo := setupTestRepo(t)
	ctx := context.Background()
	p := createTestProject(t, repo, "P")
	task := createTestTask(t, repo, p.ID, 0, "Draft")

	title := "Final"
	high := models.PriorityHigh
	due := time.Date(2026, time.November, 3, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateTask(ctx, task.ID, TaskUpdate{Title: &title, Priority: &high, DueDate: &due}))

	got, err := repo.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Final", got.Title)
	assert.Equal(t, models.PriorityHigh, got.Priority)
	require.NotNil(t, got.DueDate)
	assert.True(t, due.Equal(*got.DueDate))

	require.NoError(t, repo.UpdateTask(ctx, task.ID, TaskUpdate{ClearDueDate: true}))
	got, err = repo.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, got.DueDate)
	assert.Equal(t, "Final", got.Title)
}

func TestGetTaskDetail_SubResources(t *testing.T) {
	t.Parallel()
	repo := setupTestRepo(t)
	ctx := context.Background()
	p := createTestProject(t, repo, "P")
	task := createTestTask(t, repo, p.ID, 0, "Detail")
	ana, err := repo.CreateUser(ctx, "Ana", "")
	require.NoError(t, err)

	item, err := repo.AddChecklistItem(ctx, task.ID, "write copy")
	require.NoError(t, err)
	_, err = repo.AddChecklistItem(ctx, task.ID, "review copy")
	require.NoError(t, err)
	require.NoError(t, repo.SetChecklistItemDone(ctx, task.ID, item.ID, true))

	c, err := repo.AddComment(ctx, &models.Comment{TaskID: task.ID, UserID: ana.ID, Body: "on it"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", c.Author)

	_, err = repo.AddTimeEntry(ctx, &models.TimeEntry{TaskID: task.ID, Minutes: 45,
		SpentOn: time.Date(2026, time.October, 1, 15, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	_, err = repo.AddAttachment(ctx, &models.Attachment{TaskID: task.ID, Name: "brief.pdf", URL: "file:///tmp/x", Size: 12})
	require.NoError(t, err)

	d, err := repo.GetTaskDetail(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "To Do", d.Status.Name)
	require.Len(t, d.Checklist, 2)
	assert.True(t, d.Checklist[0].IsDone)
	assert.False(t, d.Checklist[1].IsDone)
	require.Len(t, d.Comments, 1)
	assert.Equal(t, ana.ID, d.Comments[0].UserID)
	require.Len(t, d.TimeEntries, 1)
	assert.Equal(t, 45, d.TotalMinutes())
	assert.Equal(t, time.October, d.TimeEntries[0].SpentOn.Month())
	require.Len(t, d.Attachments, 1)

	require.NoError(t, repo.DeleteChecklistItem(ctx, task.ID, item.ID))
	assert.ErrorIs(t, repo.DeleteChecklistItem(ctx, task.ID, item.ID), ErrNotFound)
}

func TestAddTimeEntry_RejectsNonPositiveMinutes(t *testing.T) {
	t.Parallel()
	repo := setupTestRepo(t)
	p := createTestProject(t, repo, "P")
	task := createTestTask(t, repo, p.ID, 0, "T")

	_, err := repo.AddTimeEntry(context.Background(), &models.TimeEntry{TaskID: task.ID, Minutes: 0})
	require.Error(t, err)
	assert.True(t, IsConstraintError(err))
	assert.False(t, IsForeignKeyError(err))
}

func TestDeleteTask_CascadesSubResources(t *testing.T) {
	t.Parallel()
	repo := setupTestRepo(t)
	ctx := context.Background()
	p := createTestProject(t, repo, "P")
	task := createTestTask(t, repo, p.ID, 0, "T")
	_, err := repo.AddChecklistItem(ctx, task.ID, "x")
	require.NoError(t, err)

	require.NoError(t, repo.DeleteTask(ctx, task.ID))

	var n int
	require.NoError(t, repo.TaskRepo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM checklist_items`).Scan(&n))
	assert.Zero(t, n)
}
