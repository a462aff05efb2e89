package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/studio/internal/events"
	"github.com/thenoetrevino/studio/internal/models"
	"github.com/thenoetrevino/studio/internal/revalidate"
	"github.com/thenoetrevino/studio/internal/testutil"
)

func TestDeleteStatus_WithTasksIsConflict(t *testing.T) {
	t.Parallel()
	h := setupGateway(t)
	ctx := context.Background()

	p := testutil.CreateTestProject(t, h.repo, "Launch")
	doing := testutil.StatusNamed(t, h.repo, p.ID, "In Progress")
	task := testutil.CreateTestTask(t, h.repo, p.ID, doing.ID, "Write copy")
	h.warm(revalidate.BoardPath(p.ID))

	err := h.gw.DeleteStatus(ctx, doing.ID)
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeConflict))

	var we *WriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, msgStatusInUse, we.Message)

	// Nothing changed: the column and its task are still there
	statuses := h.gw.ListStatuses(ctx, p.ID)
	assert.Len(t, statuses, len(models.DefaultStatuses))
	got := h.gw.GetWorkItem(ctx, task.ID)
	require.NotNil(t, got)
	assert.Equal(t, doing.ID, got.StatusID)

	assert.Empty(t, h.pub.Events())
	assert.True(t, h.cached(revalidate.BoardPath(p.ID)))
}

func TestDeleteStatus_Empty(t *testing.T) {
	t.Parallel()
	h := setupGateway(t)
	ctx := context.Background()

	p := testutil.CreateTestProject(t, h.repo, "Launch")
	review := testutil.StatusNamed(t, h.repo, p.ID, "Review")
	h.warm(revalidate.BoardPath(p.ID), revalidate.DashboardPath)

	require.NoError(t, h.gw.DeleteStatus(ctx, review.ID))

	assert.Len(t, h.gw.ListStatuses(ctx, p.ID), len(models.DefaultStatuses)-1)
	evs := h.pub.Events()
	require.Len(t, evs, 1)
	assert.Equal(t, "statuses", evs[0].Table)
	assert.Equal(t, events.ID(p.ID), evs[0].Key("project_id"))
	assert.False(t, h.cached(revalidate.BoardPath(p.ID)))
	assert.False(t, h.cached(revalidate.DashboardPath))
}

func TestDeleteStatus_Missing(t *testing.T) {
	t.Parallel()
	h := setupGateway(t)

	err := h.gw.DeleteStatus(context.Background(), 404)
	assert.True(t, IsCode(err, CodeNotFound))

	err = h.gw.DeleteStatus(context.Background(), 0)
	assert.True(t, IsCode(err, CodeInvalid))
}

func TestCreateStatus(t *testing.T) {
	t.Parallel()
	h := setupGateway(t)
	ctx := context.Background()
	p := testutil.CreateTestProject(t, h.repo, "Launch")

	s, err := h.gw.CreateStatus(ctx, p.ID, " Blocked ", "#FF0000")
	require.NoError(t, err)
	assert.Equal(t, "Blocked", s.Name)
	assert.Equal(t, p.ID, s.ProjectID)

	statuses := h.gw.ListStatuses(ctx, p.ID)
	require.NotEmpty(t, statuses)
	assert.Equal(t, s.ID, statuses[len(statuses)-1].ID, "new status goes last")

	_, err = h.gw.CreateStatus(ctx, 9999, "Nowhere", "")
	assert.True(t, IsCode(err, CodeConflict))
}

func TestRenameAndSetDefaultStatus(t *testing.T) {
	t.Parallel()
	h := setupGateway(t)
	ctx := context.Background()
	p := testutil.CreateTestProject(t, h.repo, "Launch")
	review := testutil.StatusNamed(t, h.repo, p.ID, "Review")

	require.NoError(t, h.gw.RenameStatus(ctx, review.ID, "QA"))
	require.NoError(t, h.gw.SetDefaultStatus(ctx, review.ID))

	defaults := 0
	for _, s := range h.gw.ListStatuses(ctx, p.ID) {
		if s.IsDefault {
			defaults++
			assert.Equal(t, "QA", s.Name)
		}
	}
	assert.Equal(t, 1, defaults)

	err := h.gw.RenameStatus(ctx, review.ID, "")
	assert.True(t, IsCode(err, CodeInvalid))
}
