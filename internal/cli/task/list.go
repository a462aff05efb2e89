package task

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/studio/internal/cli"
	"github.com/thenoetrevino/studio/internal/cli/handler"
	"github.com/thenoetrevino/studio/internal/cli/styles"
	"github.com/thenoetrevino/studio/internal/models"
)

// ListCmd returns the task list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tasks of a project",
		Long: `List the tasks of a project in board order.

Examples:
  studio task list --project=1
  studio task list --status="In Progress" --assignee=2
  studio task list --search=logo --quiet
`,
		RunE: handler.Command(runList),
	}

	cmd.Flags().Int("project", 0, "Project ID (defaults to $STUDIO_PROJECT)")
	cmd.Flags().String("status", "", "Only tasks in this status (name or ID)")
	cmd.Flags().Int("assignee", 0, "Only tasks assigned to this user")
	cmd.Flags().Int("tag", 0, "Only tasks with this tag")
	cmd.Flags().String("priority", "", "Only tasks with this priority")
	cmd.Flags().String("search", "", "Only tasks whose title or description contains this text")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runList(ctx context.Context, env *handler.Env) error {
	project, err := env.Project(ctx, false)
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
	if ref := env.String("status"); ref != "" {
		statuses := env.App.Gateway.ListStatuses(ctx, project.ID)
		s := findStatus(statuses, ref)
		if s == nil {
			return statusNotFound(ref, statuses)
		}
		filter.StatusID = s.ID
	}

	tasks := env.App.Gateway.ListWorkItems(ctx, project.ID, filter)
	return env.Out.Success(tasks, func(w io.Writer) {
		if len(tasks) == 0 {
			fmt.Fprintln(w, "No tasks found")
			return
		}
		for _, t := range tasks {
			fmt.Fprintf(w, "%s  %s\n", styles.RenderTaskLine(t), styles.RenderStatus(t.Status))
		}
	})
}
