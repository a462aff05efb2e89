// Package task holds the task commands
package task

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/studio/internal/cli"
	"github.com/thenoetrevino/studio/internal/cli/handler"
	"github.com/thenoetrevino/studio/internal/dispatch"
	"github.com/thenoetrevino/studio/internal/models"
)

// TaskCmd returns the task parent command
func TaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(ListCmd())
	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(UpdateCmd())
	cmd.AddCommand(MoveCmd())
	cmd.AddCommand(DeleteCmd())
	cmd.AddCommand(CheckCmd())
	cmd.AddCommand(CommentCmd())
	cmd.AddCommand(LogCmd())
	cmd.AddCommand(AssignCmd())
	cmd.AddCommand(UnassignCmd())
	cmd.AddCommand(TagCmd())
	cmd.AddCommand(UntagCmd())
	cmd.AddCommand(AttachCmd())

	return cmd
}

// openTask loads the task named by the first argument into a live view. The caller
// closes the view.
func openTask(ctx context.Context, env *handler.Env) (int, dispatch.TaskView, error) {
	id, err := env.ArgID(0, "task")
	if err != nil {
		return 0, nil, err
	}
	view := env.App.TaskView(ctx, id)
	if view.Get() == nil {
		view.Close()
		return 0, nil, taskNotFound(id)
	}
	return id, view, nil
}

func taskNotFound(id int) error {
	return cli.WithSuggestion(cli.NotFound("task %d not found", id),
		"Use 'studio task list' to see the tasks of a project")
}

// findStatus matches a status by ID or case-insensitive name
func findStatus(statuses []*models.Status, ref string) *models.Status {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.Atoi(ref); err == nil {
		return statusByID(statuses, id)
	}
	for _, s := range statuses {
		if strings.EqualFold(s.Name, ref) {
			return s
		}
	}
	return nil
}

func statusByID(statuses []*models.Status, id int) *models.Status {
	for _, s := range statuses {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func statusNotFound(ref string, statuses []*models.Status) error {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = s.Name
	}
	return cli.WithSuggestion(cli.NotFound("status '%s' not found", ref),
		"Available statuses: "+strings.Join(names, ", "))
}
