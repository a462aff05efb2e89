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

// CreateCmd returns the task create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new task",
		Long: `Create a new task with specified attributes.

Examples:
  # Simple task (human-readable output)
  studio task create --title="Draft moodboard" --project=1

  # JSON output for agents
  studio task create --title="Draft moodboard" --project=1 --json

  # Quiet mode for bash capture
  TASK_ID=$(studio task create --title="Draft moodboard" --project=1 --quiet)

  # Full example with all options
  studio task create \
    --title="Homepage copy" \
    --description="Three variants for review" \
    --status="In Progress" \
    --priority=high \
    --due=2026-11-02 \
    --project=1
`,
		RunE: handler.Command(runCreate),
	}

	cmd.Flags().String("title", "", "Task title (required)")
	cmd.Flags().Int("project", 0, "Project ID (defaults to $STUDIO_PROJECT)")
	cmd.Flags().String("description", "", "Task description (use - for stdin)")
	cmd.Flags().String("status", "", "Status name or ID (defaults to the project's default status)")
	cmd.Flags().String("priority", "", "Priority: low, medium, high, urgent")
	cmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runCreate(ctx context.Context, env *handler.Env) error {
	title, err := env.RequiredString("title")
	if err != nil {
		return err
	}
	project, err := env.Project(ctx, false)
	if err != nil {
		return err
	}
	description, err := env.Text("description")
	if err != nil {
		return err
	}

	in := &models.Task{ProjectID: project.ID, Title: title, Description: description}
	if prio, err := env.Priority("priority"); err != nil {
		return err
	} else if prio != nil {
		in.Priority = *prio
	}
	if in.DueDate, err = env.Date("due"); err != nil {
		return err
	}

	statuses := env.App.Gateway.ListStatuses(ctx, project.ID)
	if ref := env.String("status"); ref != "" {
		s := findStatus(statuses, ref)
		if s == nil {
			return statusNotFound(ref, statuses)
		}
		in.StatusID = s.ID
	}

	task, err := env.App.Dispatcher.CreateTask(ctx, in)
	if err != nil {
		return err
	}

	return env.Out.Success(task, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Task '%s' created successfully (ID: %d)\n", task.Title, task.ID)
		fmt.Fprintf(w, "  Project: %s\n", project.Name)
		fmt.Fprintf(w, "  Status: %s\n", styles.RenderStatus(statusByID(statuses, task.StatusID)))
		fmt.Fprintf(w, "  Priority: %s\n", task.Priority)
		if task.DueDate != nil {
			fmt.Fprintf(w, "  Due: %s\n", task.DueDate.Format("Jan 2, 2006"))
		}
	})
}
