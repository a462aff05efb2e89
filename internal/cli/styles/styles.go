package styles

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/thenoetrevino/studio/internal/config"
	"github.com/thenoetrevino/studio/internal/models"
)

var (
	// Card styles
	CardStyle lipgloss.Style
	CardWidth = 80

	// Text styles
	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	LabelStyle    lipgloss.Style // For field labels like "Status:", "Priority:"
	ValueStyle    lipgloss.Style // For field values
	SectionStyle  lipgloss.Style // For section headers like "Checklist", "Comments"
	ColumnStyle   lipgloss.Style // For board column headers

	// Status styles
	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style

	accent string
)

func init() {
	Init(config.DefaultColorScheme())
}

// Init initializes all CLI styles with the given color scheme
func Init(colors config.ColorScheme) {
	accent = colors.Accent

	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(colors.Accent)).
		Padding(1, 2).
		Width(CardWidth)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.Title))

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colors.Subtle))

	LabelStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.Accent))

	ValueStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colors.Normal))

	SectionStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colors.Accent)).
		Bold(true).
		MarginTop(1)

	ColumnStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.ColumnBorder))

	SuccessStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.InfoFg)).
		Background(lipgloss.Color(colors.InfoBg)).
		Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.ErrorFg)).
		Background(lipgloss.Color(colors.ErrorBg)).
		Padding(0, 1)

	WarningStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.WarningFg)).
		Background(lipgloss.Color(colors.WarningBg)).
		Padding(0, 1)
}

// ═══════════════════════════════════════════════════════════════════
// HELPER FUNCTIONS
// ═══════════════════════════════════════════════════════════════════

// RenderTagChip renders a tag as "[name]" with the tag's color
func RenderTagChip(tag *models.Tag) string {
	color := tag.Color
	if color == "" {
		color = accent
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(color)).
		Bold(true).
		Render("[" + tag.Name + "]")
}

// RenderStatus renders a status name in its color
func RenderStatus(s *models.Status) string {
	if s == nil {
		return SubtitleStyle.Render("(no status)")
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(statusColor(s))).Render(s.Name)
}

func statusColor(s *models.Status) string {
	if s.Color != "" {
		return s.Color
	}
	return accent
}

// RenderTaskLine renders a board card as one line
// Format: "• #12 Title [tag] @alice"
func RenderTaskLine(t *models.TaskSummary) string {
	parts := []string{
		SubtitleStyle.Render(fmt.Sprintf("#%d", t.ID)),
		ValueStyle.Render(t.Title),
	}
	if t.Priority != "" && t.Priority != models.DefaultPriority {
		parts = append(parts, WarningStyle.Render(string(t.Priority)))
	}
	for _, tag := range t.Tags {
		parts = append(parts, RenderTagChip(tag))
	}
	for _, u := range t.Assignees {
		parts = append(parts, SubtitleStyle.Render("@"+u.Name))
	}
	return "• " + strings.Join(parts, " ")
}

// RenderCard wraps content in a styled card border
func RenderCard(content string) string {
	return CardStyle.Render(content)
}
