package task

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/studio/internal/cli"
	"github.com/thenoetrevino/studio/internal/cli/handler"
	"github.com/thenoetrevino/studio/internal/gateway"
)

// UpdateCmd returns the task update subcommand
func UpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Update task fields",
		Long: `Update the title, description, priority or due date of a task.
Only the given flags change.

Examples:
  studio task update 12 --title="Homepage copy v2"
  studio task update 12 --priority=urgent --due=2026-11-02
  echo "New brief" | studio task update 12 --description=-
  studio task update 12 --clear-due
`,
		Args: cobra.ExactArgs(1),
		RunE: handler.Command(runUpdate),
	}

	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("description", "", "New description (use - for stdin)")
	cmd.Flags().String("priority", "", "New priority: low, medium, high, urgent")
	cmd.Flags().String("due", "", "New due date (YYYY-MM-DD)")
	cmd.Flags().Bool("clear-due", false, "Remove the due date")
	cli.AddOutputFlags(cmd)

	return cmd
}

// DeleteCmd returns the task delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE:  handler.Command(runDelete),
	}

	cli.AddOutputFlags(cmd)

	return cmd
}

func runUpdate(ctx context.Context, env *handler.Env) error {
	id, err := env.ArgID(0, "task")
	if err != nil {
		return err
	}

	var upd gateway.TaskUpdate
	if env.Changed("title") {
		title := env.String("title")
		upd.Title = &title
	}
	if upd.Description, err = env.OptionalText("description"); err != nil {
		return err
	}
	if upd.Priority, err = env.Priority("priority"); err != nil {
		return err
	}
	if upd.DueDate, err = env.Date("due"); err != nil {
		return err
	}
	upd.ClearDueDate = env.Bool("clear-due")
	if upd.DueDate != nil && upd.ClearDueDate {
		return cli.Usage("--due and --clear-due cannot be combined")
	}
	if upd.Empty() {
		return cli.WithSuggestion(cli.Usage("nothing to update"),
			"Pass at least one of --title, --description, --priority, --due, --clear-due")
	}

	task, err := env.App.Dispatcher.UpdateTask(ctx, id, upd)
	if err != nil {
		return err
	}

	return env.Out.Success(task, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Task %d updated\n", task.ID)
	})
}

func runDelete(ctx context.Context, env *handler.Env) error {
	id, err := env.ArgID(0, "task")
	if err != nil {
		return err
	}
	if err := env.App.Dispatcher.DeleteTask(ctx, id); err != nil {
		return err
	}
	return env.Out.Done(id, fmt.Sprintf("✓ Task %d deleted", id))
}
