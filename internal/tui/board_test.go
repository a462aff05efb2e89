package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/studio/internal/config"
	"github.com/thenoetrevino/studio/internal/database"
	"github.com/thenoetrevino/studio/internal/dispatch"
	"github.com/thenoetrevino/studio/internal/gateway"
	"github.com/thenoetrevino/studio/internal/models"
	"github.com/thenoetrevino/studio/internal/projection"
	"github.com/thenoetrevino/studio/internal/testutil"
)

type boardFixture struct {
	repo  *database.Repository
	gw    *gateway.Gateway
	board dispatch.BoardView
	model *BoardModel

	todo, doing, done *models.Status
	tasks             []*models.Task
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupBoard(t *testing.T, mover func(*gateway.Gateway) Mover) *boardFixture {
	t.Helper()
	f := &boardFixture{repo: testutil.SetupTestRepo(t)}
	f.gw = gateway.New(f.repo, gateway.WithLogger(quietLogger()))

	project := testutil.CreateTestProject(t, f.repo, "Launch")
	f.todo = testutil.StatusNamed(t, f.repo, project.ID, "To Do")
	f.doing = testutil.StatusNamed(t, f.repo, project.ID, "In Progress")
	f.done = testutil.StatusNamed(t, f.repo, project.ID, "Done")
	for _, title := range []string{"Brief", "Moodboard", "Copy"} {
		f.tasks = append(f.tasks, testutil.CreateTestTask(t, f.repo, project.ID, f.todo.ID, title))
	}

	f.board = projection.NewBoardView(f.gw, project.ID, models.TaskFilter{})
	require.True(t, f.board.Reload(context.Background()))
	t.Cleanup(f.board.Close)

	var m Mover = dispatch.New(f.gw, dispatch.WithLogger(quietLogger()))
	if mover != nil {
		m = mover(f.gw)
	}
	f.model = NewBoardModel(context.Background(), project.Name, f.board, m, config.DefaultColorScheme())
	return f
}

func press(m *BoardModel, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		r := []rune(k)[0]
		_, cmd = m.Update(tea.KeyPressMsg(tea.Key{Text: k, Code: r}))
	}
	return cmd
}

func (f *boardFixture) columnOf(t *testing.T, taskID int) int {
	t.Helper()
	col, _ := f.board.Get().Find(taskID)
	require.NotNil(t, col)
	return col.Status.ID
}

func TestBoardModel_SelectsFirstCard(t *testing.T) {
	t.Parallel()
	f := setupBoard(t, nil)
	assert.Equal(t, f.tasks[0].ID, f.model.Selected())
}

func TestBoardModel_Navigation(t *testing.T) {
	t.Parallel()
	f := setupBoard(t, nil)

	press(f.model, "j", "j")
	assert.Equal(t, f.tasks[2].ID, f.model.Selected())

	press(f.model, "j")
	assert.Equal(t, f.tasks[2].ID, f.model.Selected(), "the cursor stops at the last card")

	press(f.model, "l")
	assert.Zero(t, f.model.Selected(), "an empty column selects nothing")

	press(f.model, "h", "k")
	assert.Equal(t, f.tasks[0].ID, f.model.Selected())

	f.model.Update(tea.KeyPressMsg(tea.Key{Code: tea.KeyDown}))
	assert.Equal(t, f.tasks[1].ID, f.model.Selected(), "arrows work like vim keys")
}

func TestBoardModel_MoveRightWritesAndFollowsCard(t *testing.T) {
	t.Parallel()
	f := setupBoard(t, nil)
	ctx := context.Background()
	card := f.tasks[0]

	press(f.model, "L")

	assert.Equal(t, f.doing.ID, f.columnOf(t, card.ID), "the board shows the move at once")
	assert.Equal(t, card.ID, f.model.Selected(), "the cursor follows the card")
	assert.Empty(t, f.model.Notice())

	stored, err := f.repo.GetTaskDetail(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, f.doing.ID, stored.StatusID)

	press(f.model, "H")
	assert.Equal(t, f.todo.ID, f.columnOf(t, card.ID))
}

func TestBoardModel_MovePastLastColumn(t *testing.T) {
	t.Parallel()
	f := setupBoard(t, nil)
	card := f.tasks[0]

	// To Do, In Progress, Review, Done
	press(f.model, ">", ">", ">", ">")

	assert.Equal(t, f.done.ID, f.columnOf(t, card.ID))
	assert.Contains(t, f.model.Notice(), "no more columns")
}

func TestBoardModel_ReorderIsLocal(t *testing.T) {
	t.Parallel()
	f := setupBoard(t, nil)
	card := f.tasks[0]

	press(f.model, "J")

	col := f.board.Get().Column(f.todo.ID)
	require.NotNil(t, col)
	assert.Equal(t, []int{f.tasks[1].ID, card.ID, f.tasks[2].ID},
		[]int{col.Tasks[0].ID, col.Tasks[1].ID, col.Tasks[2].ID})
	assert.Equal(t, card.ID, f.model.Selected())

	press(f.model, "K", "K")
	assert.Equal(t, card.ID, f.board.Get().Column(f.todo.ID).Tasks[0].ID, "the top card stays on top")
}

type failingMover struct{}

func (failingMover) MoveTask(context.Context, dispatch.BoardView, int, int) error {
	return errors.New("store offline")
}

func (failingMover) ReorderTask(dispatch.BoardView, int, int) error { return nil }

func TestBoardModel_FailedMoveShowsNotice(t *testing.T) {
	t.Parallel()
	f := setupBoard(t, func(*gateway.Gateway) Mover { return failingMover{} })

	press(f.model, "L")

	assert.Contains(t, f.model.Notice(), "Failed to move card")
	assert.Contains(t, f.model.Notice(), "store offline")
	assert.Equal(t, f.todo.ID, f.columnOf(t, f.tasks[0].ID))
}

func TestBoardModel_RefreshFollowsCardMovedElsewhere(t *testing.T) {
	t.Parallel()
	f := setupBoard(t, nil)
	ctx := context.Background()
	card := f.tasks[0]

	// Another writer moves the selected card; the view reloads as the feed would make it
	_, err := f.gw.MoveWorkItem(ctx, card.ID, f.done.ID)
	require.NoError(t, err)
	require.True(t, f.board.Reload(ctx))

	_, cmd := f.model.Update(RefreshMsg{})
	assert.NotNil(t, cmd, "the model keeps listening after a refresh")
	assert.Equal(t, card.ID, f.model.Selected())

	out := f.model.View().Content
	assert.Contains(t, out, "Done (1)")
	assert.Contains(t, out, "To Do (2)")
}

func TestBoardModel_RefreshAfterSelectedCardDeleted(t *testing.T) {
	t.Parallel()
	f := setupBoard(t, nil)
	ctx := context.Background()

	press(f.model, "j", "j")
	require.NoError(t, f.gw.DeleteWorkItem(ctx, f.tasks[2].ID))
	require.True(t, f.board.Reload(ctx))
	f.model.Update(RefreshMsg{})

	assert.Equal(t, f.tasks[1].ID, f.model.Selected(), "the cursor falls back to the nearest card")
}

func TestBoardModel_UpdateSignalsRefresh(t *testing.T) {
	t.Parallel()
	f := setupBoard(t, nil)

	cmd := f.model.Init()
	require.NotNil(t, cmd)
	require.True(t, f.board.Reload(context.Background()))

	assert.Equal(t, RefreshMsg{}, cmd())
}

func TestBoardModel_QuitAndHelp(t *testing.T) {
	t.Parallel()
	f := setupBoard(t, nil)

	before := f.model.View().Content
	press(f.model, "?")
	after := f.model.View().Content
	assert.NotEqual(t, before, after, "? expands the help")
	assert.Contains(t, after, "card down")

	cmd := press(f.model, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestBoardModel_ViewMarksSelectedCard(t *testing.T) {
	t.Parallel()
	f := setupBoard(t, nil)
	f.model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	out := f.model.View().Content
	assert.Contains(t, out, "Launch")
	assert.Contains(t, out, "To Do (3)")
	assert.Contains(t, out, fmt.Sprintf("> #%d Brief", f.tasks[0].ID))
	assert.Contains(t, out, "no cards", "empty columns say so")
}
