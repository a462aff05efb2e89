package task

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/studio/internal/cli"
	"github.com/thenoetrevino/studio/internal/cli/handler"
	"github.com/thenoetrevino/studio/internal/models"
)

// MoveCmd returns the task move subcommand
func MoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <task-id>",
		Short: "Move a task to another status",
		Long: `Move a task to another status of its project.

Examples:
  studio task move 12 --status=Done
  studio task move 12 --status=4 --json
`,
		Args: cobra.ExactArgs(1),
		RunE: handler.Command(runMove),
	}

	cmd.Flags().String("status", "", "Target status name or ID (required)")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runMove(ctx context.Context, env *handler.Env) error {
	id, err := env.ArgID(0, "task")
	if err != nil {
		return err
	}
	ref, err := env.RequiredString("status")
	if err != nil {
		return err
	}

	task := env.App.Gateway.GetWorkItem(ctx, id)
	if task == nil {
		return taskNotFound(id)
	}
	statuses := env.App.Gateway.ListStatuses(ctx, task.ProjectID)
	target := findStatus(statuses, ref)
	if target == nil {
		return statusNotFound(ref, statuses)
	}

	board := env.App.BoardView(ctx, task.ProjectID, models.TaskFilter{})
	defer board.Close()

	if err := env.App.Dispatcher.MoveTask(ctx, board, id, target.ID); err != nil {
		return err
	}

	moved := env.App.Gateway.GetWorkItem(ctx, id)
	return env.Out.Success(moved, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Task %d moved to %s\n", id, target.Name)
	})
}
