package status

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/studio/internal/cli"
	"github.com/thenoetrevino/studio/internal/cli/handler"
	"github.com/thenoetrevino/studio/internal/cli/styles"
	"github.com/thenoetrevino/studio/internal/gateway"
)

// ListCmd returns the status list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the statuses of a project in workflow order",
		RunE:  handler.Command(runList),
	}
	cmd.Flags().Int("project", 0, "Project ID (defaults to $STUDIO_PROJECT)")
	cli.AddOutputFlags(cmd)
	return cmd
}

func runList(ctx context.Context, env *handler.Env) error {
	project, err := env.Project(ctx, false)
	if err != nil {
		return err
	}
	statuses := env.App.Gateway.ListStatuses(ctx, project.ID)

	return env.Out.Success(statuses, func(w io.Writer) {
		for _, s := range statuses {
			def := ""
			if s.IsDefault {
				def = styles.SubtitleStyle.Render(" (default)")
			}
			fmt.Fprintf(w, "%s %s%s\n", styles.SubtitleStyle.Render(fmt.Sprintf("#%d", s.ID)), styles.RenderStatus(s), def)
		}
	})
}

// CreateCmd returns the status create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Append a status to a project's workflow",
		Long: `Append a status to the end of a project's workflow.

Examples:
  studio status create --project=1 --name="Blocked" --color="#FF5F5F"
`,
		RunE: handler.Command(runCreate),
	}
	cmd.Flags().Int("project", 0, "Project ID (defaults to $STUDIO_PROJECT)")
	cmd.Flags().String("name", "", "Status name (required)")
	cmd.Flags().String("color", "", "Color in hex format #RRGGBB")
	cli.AddOutputFlags(cmd)
	return cmd
}

func runCreate(ctx context.Context, env *handler.Env) error {
	project, err := env.Project(ctx, false)
	if err != nil {
		return err
	}
	name, err := env.RequiredString("name")
	if err != nil {
		return err
	}
	color := env.String("color")
	if color != "" {
		if err := cli.ValidateColorHex(color); err != nil {
			return cli.Invalid(err)
		}
	}

	s, err := env.App.Dispatcher.CreateStatus(ctx, project.ID, name, color)
	if err != nil {
		return err
	}
	return env.Out.Success(s, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Status '%s' added to %s (ID: %d)\n", styles.RenderStatus(s), project.Name, s.ID)
	})
}

// RenameCmd returns the status rename subcommand
func RenameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <status-id>",
		Short: "Rename a status",
		Args:  cobra.ExactArgs(1),
		RunE:  handler.Command(runRename),
	}
	cmd.Flags().String("name", "", "New name (required)")
	cli.AddOutputFlags(cmd)
	return cmd
}

func runRename(ctx context.Context, env *handler.Env) error {
	id, err := env.ArgID(0, "status")
	if err != nil {
		return err
	}
	name, err := env.RequiredString("name")
	if err != nil {
		return err
	}
	if err := env.App.Dispatcher.RenameStatus(ctx, id, name); err != nil {
		return err
	}
	return env.Out.Done(id, fmt.Sprintf("✓ Status %d renamed to '%s'", id, name))
}

// DefaultCmd returns the status default subcommand
func DefaultCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "default <status-id>",
		Short: "Make a status the one new tasks start in",
		Args:  cobra.ExactArgs(1),
		RunE:  handler.Command(runDefault),
	}
	cli.AddOutputFlags(cmd)
	return cmd
}

func runDefault(ctx context.Context, env *handler.Env) error {
	id, err := env.ArgID(0, "status")
	if err != nil {
		return err
	}
	if err := env.App.Dispatcher.SetDefaultStatus(ctx, id); err != nil {
		return err
	}
	return env.Out.Done(id, fmt.Sprintf("✓ Status %d is now the default", id))
}

// DeleteCmd returns the status delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <status-id>",
		Short: "Delete an empty status",
		Long: `Delete a status. A status that still holds tasks cannot be deleted;
move its tasks first with 'studio task move'.`,
		Args: cobra.ExactArgs(1),
		RunE: handler.Command(runDelete),
	}
	cli.AddOutputFlags(cmd)
	return cmd
}

func runDelete(ctx context.Context, env *handler.Env) error {
	id, err := env.ArgID(0, "status")
	if err != nil {
		return err
	}
	if err := env.App.Dispatcher.DeleteStatus(ctx, id); err != nil {
		if gateway.IsCode(err, gateway.CodeConflict) {
			return cli.WithSuggestion(err, "Move its tasks to another status with 'studio task move'")
		}
		return err
	}
	return env.Out.Done(id, fmt.Sprintf("✓ Status %d deleted", id))
}
