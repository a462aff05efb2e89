package use

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/studio/internal/cli"
	"github.com/thenoetrevino/studio/internal/cli/handler"
)

// ProjectCmd returns the use project subcommand
func ProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project [project-id]",
		Short: "Set project context for current shell session",
		Long: `Set the current project context using environment variables.
This command outputs shell commands that should be evaluated:

  eval $(studio use project 3)              # Use project 3
  eval $(studio use project --clear)        # Clear project context
  studio use project --show                 # Show current project

The ` + cli.ProjectEnv + ` environment variable will be set in your current shell
session only. The --project flag on other commands takes precedence over
this environment variable.`,
		Args: cobra.MaximumNArgs(1),
		RunE: handler.Command(runUseProject),
	}

	cmd.Flags().Bool("clear", false, "Clear the current project context")
	cmd.Flags().Bool("show", false, "Show the current project context")
	cmd.Flags().Bool("dry-run", false, "Show what would be exported without outputting shell commands")

	return cmd
}

func runUseProject(ctx context.Context, env *handler.Env) error {
	out, msg := env.Out.Out, env.Out.Err

	if env.Bool("show") {
		return showCurrentProject(ctx, env)
	}

	if env.Bool("clear") {
		if env.Bool("dry-run") {
			fmt.Fprintf(msg, "Would clear %s\n", cli.ProjectEnv)
			return nil
		}
		fmt.Fprintf(out, "unset %s\n", cli.ProjectEnv)
		fmt.Fprintln(msg, "Cleared project context")
		return nil
	}

	if len(env.Args) == 0 {
		return cli.WithSuggestion(cli.Usage("project ID required"), "Usage: eval $(studio use project <project-id>)")
	}
	project, err := env.Project(ctx, true)
	if err != nil {
		return err
	}

	if env.Bool("dry-run") {
		fmt.Fprintf(msg, "Would set %s=%d (%s)\n", cli.ProjectEnv, project.ID, project.Name)
		return nil
	}
	fmt.Fprintf(out, "export %s=%d\n", cli.ProjectEnv, project.ID)
	fmt.Fprintf(msg, "Now using project %d: %s\n", project.ID, project.Name)
	return nil
}

func showCurrentProject(ctx context.Context, env *handler.Env) error {
	out := env.Out.Out
	current := os.Getenv(cli.ProjectEnv)
	if current == "" {
		fmt.Fprintln(out, "No project context set")
		fmt.Fprintln(out, "Use 'eval $(studio use project <project-id>)' to set one")
		return nil
	}

	id, err := strconv.Atoi(current)
	if err != nil {
		fmt.Fprintf(out, "Invalid project context: %s\n", current)
		return nil
	}

	project := env.App.Gateway.GetProject(ctx, id)
	if project == nil {
		fmt.Fprintf(out, "Current project: %d (project not found)\n", id)
		return nil
	}
	fmt.Fprintf(out, "Current project: %d (%s)\n", id, project.Name)
	return nil
}
