package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/studio/internal/cli"
	"github.com/thenoetrevino/studio/internal/cli/client"
	"github.com/thenoetrevino/studio/internal/cli/dashboard"
	"github.com/thenoetrevino/studio/internal/cli/doc"
	"github.com/thenoetrevino/studio/internal/cli/folder"
	"github.com/thenoetrevino/studio/internal/cli/project"
	"github.com/thenoetrevino/studio/internal/cli/serve"
	"github.com/thenoetrevino/studio/internal/cli/settings"
	"github.com/thenoetrevino/studio/internal/cli/status"
	"github.com/thenoetrevino/studio/internal/cli/tag"
	"github.com/thenoetrevino/studio/internal/cli/task"
	"github.com/thenoetrevino/studio/internal/cli/use"
	"github.com/thenoetrevino/studio/internal/cli/user"
	"github.com/thenoetrevino/studio/internal/cli/watch"
)

var rootCmd = &cobra.Command{
	Use:   "studio",
	Short: "Studio - projects, tasks and documents for a small agency",
	Long: `Studio keeps an agency's clients, contracts, project boards, tasks and
documents in one workspace. Changes show up in every open board, task and
folder view as they happen.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(
		project.ProjectCmd(),
		status.StatusCmd(),
		task.TaskCmd(),
		folder.FolderCmd(),
		doc.DocCmd(),
		client.ClientCmd(),
		client.ContractCmd(),
		user.UserCmd(),
		tag.TagCmd(),
		dashboard.DashboardCmd(),
		watch.WatchCmd(),
		serve.ServeCmd(),
		use.UseCmd(),
		settings.ConfigCmd(),
	)
}

// Execute runs the command line. Errors from commands are already reported; flag and
// argument errors cobra rejects before a command runs are printed here.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	var reported *cli.CommandError
	if err != nil && !errors.As(err, &reported) {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\nRun '%s --help' for usage.\n", err, rootCmd.Name())
		return &cli.CommandError{Code: cli.ExitUsage, Err: err}
	}
	return err
}
