// Package tui is the interactive board: a bubbletea program drawing a live board view
// and moving cards through the dispatcher.
package tui

import (
	"context"
	"fmt"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/thenoetrevino/studio/internal/config"
	"github.com/thenoetrevino/studio/internal/dispatch"
	"github.com/thenoetrevino/studio/internal/projection"
)

// writeTimeout bounds a card move started from a key press
const writeTimeout = 5 * time.Second

// RefreshMsg is sent when the board view changed, locally or through the feed
type RefreshMsg struct{}

// Mover applies card moves to a board view
type Mover interface {
	MoveTask(ctx context.Context, board dispatch.BoardView, taskID, statusID int) error
	ReorderTask(board dispatch.BoardView, taskID, index int) error
}

// BoardModel is the tea.Model of the interactive board. The cursor remembers the
// selected card by id, so it follows the card when the board reloads or the card
// moves.
type BoardModel struct {
	ctx     context.Context
	title   string
	view    dispatch.BoardView
	mover   Mover
	updates chan struct{}

	keys   keyMap
	help   help.Model
	styles boardStyles

	col      int
	row      int
	selected int
	width    int
	notice   string
}

// NewBoardModel builds the model over an open board view. The view stays owned by
// the caller.
func NewBoardModel(ctx context.Context, title string, view dispatch.BoardView, mover Mover, colors config.ColorScheme) *BoardModel {
	m := &BoardModel{
		ctx:     ctx,
		title:   title,
		view:    view,
		mover:   mover,
		updates: make(chan struct{}, 1),
		keys:    defaultKeys(),
		help:    help.New(),
		styles:  newBoardStyles(colors),
	}
	view.OnUpdate(func() {
		select {
		case m.updates <- struct{}{}:
		default:
		}
	})
	m.view.Read(func(b *projection.Board, _ bool) { m.sync(b) })
	return m
}

// RunBoard shows the board until the user quits or ctx is done
func RunBoard(ctx context.Context, m *BoardModel, opts ...tea.ProgramOption) error {
	p := tea.NewProgram(m, append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)...)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("error running board: %w", err)
	}
	return nil
}

// Selected returns the id of the card under the cursor, 0 when there is none
func (m *BoardModel) Selected() int { return m.selected }

// Notice returns the last message shown under the board
func (m *BoardModel) Notice() string { return m.notice }

// Init starts listening for view updates
func (m *BoardModel) Init() tea.Cmd {
	return m.waitForRefresh()
}

// waitForRefresh returns a command that turns the next view update into a
// RefreshMsg
func (m *BoardModel) waitForRefresh() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.updates:
			return RefreshMsg{}
		case <-m.ctx.Done():
			return nil
		}
	}
}

// Update implements tea.Model
func (m *BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case RefreshMsg:
		m.view.Read(func(b *projection.Board, _ bool) { m.sync(b) })
		// Keep listening for the next change
		return m, m.waitForRefresh()

	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *BoardModel) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Left):
		m.step(-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.step(1, 0)
	case key.Matches(msg, m.keys.Up):
		m.step(0, -1)
	case key.Matches(msg, m.keys.Down):
		m.step(0, 1)
	case key.Matches(msg, m.keys.MoveLeft):
		m.move(-1)
	case key.Matches(msg, m.keys.MoveRight):
		m.move(1)
	case key.Matches(msg, m.keys.ReorderUp):
		m.reorder(-1)
	case key.Matches(msg, m.keys.ReorderDown):
		m.reorder(1)
	case key.Matches(msg, m.keys.Reload):
		ctx, cancel := context.WithTimeout(m.ctx, writeTimeout)
		defer cancel()
		m.view.Reload(ctx)
		m.view.Read(func(b *projection.Board, _ bool) { m.sync(b) })
	}
	return nil
}

// sync points the cursor at the selected card wherever it is now. When the card is
// gone the cursor stays in place, clamped to the board.
func (m *BoardModel) sync(b *projection.Board) {
	if b == nil || len(b.Columns) == 0 {
		m.col, m.row, m.selected = 0, 0, 0
		return
	}
	if m.selected != 0 {
		for i, c := range b.Columns {
			for j, t := range c.Tasks {
				if t.ID == m.selected {
					m.col, m.row = i, j
					return
				}
			}
		}
	}
	m.place(b, m.col, m.row)
}

// place puts the cursor at (col, row) clamped to the board and selects the card there
func (m *BoardModel) place(b *projection.Board, col, row int) {
	m.col = max(0, min(col, len(b.Columns)-1))
	tasks := b.Columns[m.col].Tasks
	m.row = max(0, min(row, len(tasks)-1))
	m.selected = 0
	if len(tasks) > 0 {
		m.selected = tasks[m.row].ID
	}
}

func (m *BoardModel) step(dc, dr int) {
	m.view.Read(func(b *projection.Board, _ bool) {
		if b == nil || len(b.Columns) == 0 {
			return
		}
		m.place(b, m.col+dc, m.row+dr)
	})
}

// move sends the selected card to the neighbouring column
func (m *BoardModel) move(dir int) {
	var taskID, statusID int
	var reason string
	m.view.Read(func(b *projection.Board, _ bool) {
		m.sync(b)
		target := m.col + dir
		switch {
		case m.selected == 0:
			reason = "No card selected."
		case target < 0 || target >= len(b.Columns):
			reason = "There are no more columns to move to."
		default:
			taskID, statusID = m.selected, b.Columns[target].Status.ID
		}
	})
	if taskID == 0 {
		m.notice = reason
		return
	}

	ctx, cancel := context.WithTimeout(m.ctx, writeTimeout)
	defer cancel()
	if err := m.mover.MoveTask(ctx, m.view, taskID, statusID); err != nil {
		m.notice = "Failed to move card: " + err.Error()
	} else {
		m.notice = ""
	}
	m.view.Read(func(b *projection.Board, _ bool) { m.sync(b) })
}

// reorder shifts the selected card within its column
func (m *BoardModel) reorder(dir int) {
	var taskID, index int
	m.view.Read(func(b *projection.Board, _ bool) {
		m.sync(b)
		if m.selected == 0 {
			return
		}
		index = m.row + dir
		if index >= 0 && index < len(b.Columns[m.col].Tasks) {
			taskID = m.selected
		}
	})
	if taskID == 0 {
		return
	}

	if err := m.mover.ReorderTask(m.view, taskID, index); err != nil {
		m.notice = "Failed to reorder card: " + err.Error()
		return
	}
	m.notice = ""
	m.view.Read(func(b *projection.Board, _ bool) { m.sync(b) })
}

// View implements tea.Model
func (m *BoardModel) View() tea.View {
	var v tea.View
	v.AltScreen = true

	var body string
	m.view.Read(func(b *projection.Board, loaded bool) {
		switch {
		case !loaded:
			body = "Loading..."
		case b == nil || len(b.Columns) == 0:
			body = m.styles.empty.Render("No columns on this board.")
		default:
			body = m.renderColumns(b)
		}
	})

	parts := []string{m.styles.title.Render(m.title), body}
	if m.notice != "" {
		parts = append(parts, m.styles.notice.Render(m.notice))
	}
	parts = append(parts, m.help.View(m.keys))
	v.Content = lipgloss.JoinVertical(lipgloss.Left, parts...)
	return v
}

func (m *BoardModel) renderColumns(b *projection.Board) string {
	width := columnWidth(m.width, len(b.Columns))
	columns := make([]string, 0, len(b.Columns))
	for i, c := range b.Columns {
		lines := []string{m.styles.columnTitle.Render(fmt.Sprintf("%s (%d)", c.Status.Name, len(c.Tasks)))}
		if len(c.Tasks) == 0 {
			lines = append(lines, m.styles.empty.Render("no cards"))
		}
		for _, t := range c.Tasks {
			style, marker := m.styles.card, "  "
			if t.ID == m.selected {
				style, marker = m.styles.selectedCard, "> "
			}
			lines = append(lines, style.Width(width-2).Render(fmt.Sprintf("%s#%d %s", marker, t.ID, t.Title)))
		}

		style := m.styles.column
		if i == m.col {
			style = m.styles.activeColumn
		}
		columns = append(columns, style.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}
