package project

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

// ListCmd returns the project list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Long: `List projects, optionally filtered by status or name.

Examples:
  studio project list
  studio project list --status=active --search=web
  studio project list --quiet    # IDs only
`,
		RunE: handler.Command(runList),
	}

	cmd.Flags().String("status", "", "Filter by status: active, paused, completed")
	cmd.Flags().String("search", "", "Filter by name")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runList(ctx context.Context, env *handler.Env) error {
	projects := env.App.Gateway.ListProjects(ctx, models.ProjectFilter{
		Status: env.String("status"),
		Search: env.String("search"),
	})

	return env.Out.Success(projects, func(w io.Writer) {
		if len(projects) == 0 {
			fmt.Fprintln(w, "No projects found")
			return
		}
		for _, p := range projects {
			fmt.Fprintf(w, "%s %s %s\n",
				styles.SubtitleStyle.Render(fmt.Sprintf("#%d", p.ID)),
				styles.TitleStyle.Render(p.Name),
				styles.SubtitleStyle.Render("("+p.Status+")"),
			)
		}
	})
}
