package tui

import (
	"charm.land/lipgloss/v2"

	"github.com/thenoetrevino/studio/internal/config"
)

const (
	minColumnWidth = 20
	maxColumnWidth = 40
)

// boardStyles are the board styles for one color scheme
type boardStyles struct {
	title        lipgloss.Style
	column       lipgloss.Style
	activeColumn lipgloss.Style
	columnTitle  lipgloss.Style
	card         lipgloss.Style
	selectedCard lipgloss.Style
	empty        lipgloss.Style
	notice       lipgloss.Style
}

func newBoardStyles(colors config.ColorScheme) boardStyles {
	column := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(colors.ColumnBorder)).
		Padding(0, 1)

	return boardStyles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colors.Title)).
			MarginBottom(1),
		column:       column,
		activeColumn: column.BorderForeground(lipgloss.Color(colors.Accent)),
		columnTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colors.ColumnBorder)),
		card: lipgloss.NewStyle().
			Foreground(lipgloss.Color(colors.Normal)),
		selectedCard: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colors.Accent)),
		empty: lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color(colors.Subtle)),
		notice: lipgloss.NewStyle().
			Foreground(lipgloss.Color(colors.WarningFg)),
	}
}

// columnWidth spreads the terminal width over n columns within fixed bounds
func columnWidth(total, n int) int {
	if total <= 0 || n <= 0 {
		return maxColumnWidth
	}
	return max(minColumnWidth, min(maxColumnWidth, total/n-2))
}
