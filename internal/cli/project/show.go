package project

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/studio/internal/cli"
	"github.com/thenoetrevino/studio/internal/cli/handler"
	"github.com/thenoetrevino/studio/internal/cli/styles"
	"github.com/thenoetrevino/studio/internal/models"
	"github.com/thenoetrevino/studio/internal/projection"
)

// ShowCmd returns the project show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [project-id]",
		Short: "Show a project and its workflow",
		Args:  cobra.MaximumNArgs(1),
		RunE:  handler.Command(runShow),
	}

	cmd.Flags().Int("project", 0, "Project ID (defaults to $STUDIO_PROJECT)")
	cli.AddOutputFlags(cmd)

	return cmd
}

// BoardCmd returns the project board subcommand
func BoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board [project-id]",
		Short: "Show the tasks of a project grouped by status",
		Long: `Show the project board: one column per status, in workflow order.

Examples:
  studio project board 3
  studio project board --project=3 --assignee=2 --tag=5
  studio project board --search=logo --json
`,
		Args: cobra.MaximumNArgs(1),
		RunE: handler.Command(runBoard),
	}

	cmd.Flags().Int("project", 0, "Project ID (defaults to $STUDIO_PROJECT)")
	cmd.Flags().Int("assignee", 0, "Only tasks assigned to this user")
	cmd.Flags().Int("tag", 0, "Only tasks with this tag")
	cmd.Flags().String("priority", "", "Only tasks with this priority")
	cmd.Flags().String("search", "", "Only tasks whose title or description contains this text")
	cli.AddOutputFlags(cmd)

	return cmd
}

type showData struct {
	*models.Project
	Statuses []statusCount `json:"statuses"`
}

type statusCount struct {
	*models.Status
	Tasks int `json:"tasks"`
}

func runShow(ctx context.Context, env *handler.Env) error {
	project, err := env.Project(ctx, true)
	if err != nil {
		return err
	}

	board := projection.GroupByStatus(
		env.App.Gateway.ListStatuses(ctx, project.ID),
		env.App.Gateway.ListWorkItems(ctx, project.ID, models.TaskFilter{}),
	)
	data := showData{Project: project, Statuses: make([]statusCount, len(board.Columns))}
	for i, col := range board.Columns {
		data.Statuses[i] = statusCount{Status: col.Status, Tasks: len(col.Tasks)}
	}

	return env.Out.Success(data, func(w io.Writer) {
		var content strings.Builder
		content.WriteString(styles.TitleStyle.Render(project.Name))
		content.WriteString("  " + styles.SubtitleStyle.Render(fmt.Sprintf("#%d  %s", project.ID, project.Status)))
		content.WriteString("\n")
		if project.Description != "" {
			content.WriteString("\n" + styles.ValueStyle.Render(project.Description) + "\n")
		}
		content.WriteString(styles.SectionStyle.Render("Workflow"))
		content.WriteString("\n")
		for _, s := range data.Statuses {
			marker := " "
			if s.IsDefault {
				marker = "*"
			}
			fmt.Fprintf(&content, "%s %s %s\n", marker, styles.RenderStatus(s.Status),
				styles.SubtitleStyle.Render(fmt.Sprintf("(%d)", s.Tasks)))
		}
		fmt.Fprintln(w, styles.RenderCard(content.String()))
	})
}

type boardData struct {
	ProjectID int           `json:"project_id"`
	Columns   []boardColumn `json:"columns"`
}

type boardColumn struct {
	Status *models.Status        `json:"status"`
	Tasks  []*models.TaskSummary `json:"tasks"`
}

func runBoard(ctx context.Context, env *handler.Env) error {
	project, err := env.Project(ctx, true)
	if err != nil {
		return err
	}

	filter := models.TaskFilter{
		AssigneeID: env.Int("assignee"),
		TagID:      env.Int("tag"),
		Search:     env.String("search"),
	}
	if prio, err := env.Priority("priority"); err != nil {
		return err
	} else if prio != nil {
		filter.Priority = *prio
	}

	view := env.App.BoardView(ctx, project.ID, filter)
	defer view.Close()
	board := view.Get()
	if board == nil {
		return cli.NotFound("board of project %d could not be loaded", project.ID)
	}

	data := boardData{ProjectID: project.ID, Columns: make([]boardColumn, len(board.Columns))}
	for i, col := range board.Columns {
		data.Columns[i] = boardColumn{Status: col.Status, Tasks: col.Tasks}
	}

	return env.Out.Success(data, func(w io.Writer) {
		RenderBoard(w, project, board)
	})
}

// RenderBoard prints a board column by column
func RenderBoard(w io.Writer, project *models.Project, board *projection.Board) {
	fmt.Fprintln(w, styles.TitleStyle.Render(project.Name))
	for _, col := range board.Columns {
		fmt.Fprintf(w, "\n%s %s\n", styles.RenderStatus(col.Status),
			styles.SubtitleStyle.Render(fmt.Sprintf("(%d)", len(col.Tasks))))
		if len(col.Tasks) == 0 {
			fmt.Fprintln(w, styles.SubtitleStyle.Render("  (empty)"))
			continue
		}
		for _, t := range col.Tasks {
			fmt.Fprintln(w, "  "+styles.RenderTaskLine(t))
		}
	}
}
