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
)

// CreateCmd returns the project create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new project",
		Long: `Create a new project. Every project starts with the default workflow
(To Do, In Progress, Review, Done).

Examples:
  studio project create --name="Website relaunch"
  studio project create --name="Q3 retainer" --client=2 --description="Monthly work"

  # Quiet mode for bash capture
  PROJECT_ID=$(studio project create --name="Launch" --quiet)
`,
		RunE: handler.Command(runCreate),
	}

	cmd.Flags().String("name", "", "Project name (required)")
	cmd.Flags().String("description", "", "Project description (use - for stdin)")
	cmd.Flags().Int("client", 0, "Client the project belongs to")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runCreate(ctx context.Context, env *handler.Env) error {
	name, err := env.RequiredString("name")
	if err != nil {
		return err
	}
	description, err := env.Text("description")
	if err != nil {
		return err
	}
	clientID, err := env.OptionalID("client")
	if err != nil {
		return err
	}

	project, err := env.App.Gateway.CreateProject(ctx, &models.Project{
		Name:        name,
		Description: description,
		ClientID:    clientID,
	})
	if err != nil {
		return cli.WithSuggestion(err, "Use 'studio client list' to see available clients")
	}

	statuses := env.App.Gateway.ListStatuses(ctx, project.ID)
	return env.Out.Success(project, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Project '%s' created successfully (ID: %d)\n", project.Name, project.ID)
		names := make([]string, len(statuses))
		for i, s := range statuses {
			names[i] = styles.RenderStatus(s)
		}
		fmt.Fprintf(w, "  Statuses: %s\n", strings.Join(names, ", "))
	})
}
