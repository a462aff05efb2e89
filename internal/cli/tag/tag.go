// Package tag holds all cli commands related to tags
// e.g., studio tag ...
package tag

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/studio/internal/cli"
	"github.com/thenoetrevino/studio/internal/cli/handler"
	"github.com/thenoetrevino/studio/internal/cli/styles"
)

// TagCmd returns the tag parent command
func TagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage tags",
		Long: `Tags are shared by every project. Attach them to tasks with
'studio task tag <task-id> <tag>'.`,
	}

	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(ListCmd())

	return cmd
}

// CreateCmd returns the tag create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new tag",
		Long: `Create a new tag with a name and an optional color.

Examples:
  # Create tag (human-readable output)
  studio tag create --name="client-facing" --color="#FF0000"

  # Quiet mode for bash capture
  TAG_ID=$(studio tag create --name="client-facing" --quiet)
`,
		RunE: handler.Command(runCreate),
	}

	cmd.Flags().String("name", "", "Tag name (required)")
	cmd.Flags().String("color", "", "Tag color in hex format #RRGGBB")
	cli.AddOutputFlags(cmd)

	return cmd
}

// ListCmd returns the tag list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all tags",
		RunE:  handler.Command(runList),
	}

	cli.AddOutputFlags(cmd)

	return cmd
}

func runCreate(ctx context.Context, env *handler.Env) error {
	name, err := env.RequiredString("name")
	if err != nil {
		return err
	}
	color := env.String("color")
	if color != "" {
		if err := cli.ValidateColorHex(color); err != nil {
			return cli.WithSuggestion(cli.Invalid(err), "Use a hex color like #FF0000")
		}
	}

	tag, err := env.App.Gateway.CreateTag(ctx, name, color)
	if err != nil {
		return err
	}

	return env.Out.Success(tag, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Tag %s created successfully (ID: %d)\n", styles.RenderTagChip(tag), tag.ID)
	})
}

func runList(ctx context.Context, env *handler.Env) error {
	tags := env.App.Gateway.ListTags(ctx)
	return env.Out.Success(tags, func(w io.Writer) {
		if len(tags) == 0 {
			fmt.Fprintln(w, "No tags found")
			return
		}
		fmt.Fprintf(w, "Tags (%d):\n", len(tags))
		for _, t := range tags {
			fmt.Fprintf(w, "  %d  %s  %s\n", t.ID, styles.RenderTagChip(t), t.Color)
		}
	})
}
