// Package folder holds the cli commands for document folders
// e.g., studio folder ...
package folder

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
	"github.com/thenoetrevino/studio/internal/projection"
)

const scopeHelp = "Scope: global, client:<id> or project:<id> (defaults to the parent's scope, else global)"

// FolderCmd returns the folder parent command
func FolderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folder",
		Short: "Manage document folders",
		Long: `Folders organize documents into a tree. Every folder belongs to a scope:
the whole workspace (global), one client or one project.`,
	}

	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(RenameCmd())
	cmd.AddCommand(DeleteCmd())
	cmd.AddCommand(ListCmd())
	cmd.AddCommand(TreeCmd())

	return cmd
}

// CreateCmd returns the folder create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a folder",
		Long: `Create a folder at the root of a scope or under a parent folder.

Examples:
  studio folder create --name="Brand" --scope=client:1
  studio folder create --name="Logos" --parent=4
`,
		RunE: handler.Command(runCreate),
	}

	cmd.Flags().String("name", "", "Folder name (required)")
	cmd.Flags().Int("parent", 0, "Parent folder ID")
	cmd.Flags().String("scope", "", scopeHelp)
	cli.AddOutputFlags(cmd)

	return cmd
}

// RenameCmd returns the folder rename subcommand
func RenameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <folder-id>",
		Short: "Rename a folder",
		Args:  cobra.ExactArgs(1),
		RunE:  handler.Command(runRename),
	}

	cmd.Flags().String("name", "", "New name (required)")
	cli.AddOutputFlags(cmd)

	return cmd
}

// DeleteCmd returns the folder delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <folder-id>",
		Short: "Delete a folder with its subfolders and documents",
		Args:  cobra.ExactArgs(1),
		RunE:  handler.Command(runDelete),
	}

	cli.AddOutputFlags(cmd)

	return cmd
}

// ListCmd returns the folder list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the folders directly under a parent",
		Long: `List the folders at one level: the root of a scope, or the children of --parent.

Examples:
  studio folder list --scope=project:2
  studio folder list --parent=4 --json
`,
		RunE: handler.Command(runList),
	}

	cmd.Flags().Int("parent", 0, "Parent folder ID")
	cmd.Flags().String("scope", "", scopeHelp)
	cli.AddOutputFlags(cmd)

	return cmd
}

// TreeCmd returns the folder tree subcommand
func TreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the folder tree of a scope with its documents",
		RunE:  handler.Command(runTree),
	}

	cmd.Flags().String("scope", "", "Scope: global, client:<id> or project:<id>")
	cli.AddOutputFlags(cmd)

	return cmd
}

// ResolveScope picks the scope of a folder operation: --scope when given, else the
// scope of the parent folder, else global
func ResolveScope(ctx context.Context, env *handler.Env, parent *int) (models.Scope, error) {
	if env.Changed("scope") || parent == nil {
		return env.Scope()
	}
	f := env.App.Gateway.GetContainer(ctx, *parent)
	if f == nil {
		return models.Scope{}, folderNotFound(*parent)
	}
	return f.Scope, nil
}

func folderNotFound(id int) error {
	return cli.WithSuggestion(cli.NotFound("folder %d not found", id),
		"Use 'studio folder tree --scope=<scope>' to see folders")
}

func runCreate(ctx context.Context, env *handler.Env) error {
	name, err := env.RequiredString("name")
	if err != nil {
		return err
	}
	parent, err := env.OptionalID("parent")
	if err != nil {
		return err
	}
	scope, err := ResolveScope(ctx, env, parent)
	if err != nil {
		return err
	}

	f, err := env.App.Dispatcher.CreateContainer(ctx, parent, scope, name)
	if err != nil {
		return err
	}
	return env.Out.Success(f, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Folder '%s' created in %s (ID: %d)\n", f.Name, f.Scope, f.ID)
	})
}

func runRename(ctx context.Context, env *handler.Env) error {
	id, err := env.ArgID(0, "folder")
	if err != nil {
		return err
	}
	name, err := env.RequiredString("name")
	if err != nil {
		return err
	}
	if err := env.App.Dispatcher.RenameContainer(ctx, id, name); err != nil {
		return err
	}
	return env.Out.Done(id, fmt.Sprintf("✓ Folder %d renamed to '%s'", id, name))
}

func runDelete(ctx context.Context, env *handler.Env) error {
	id, err := env.ArgID(0, "folder")
	if err != nil {
		return err
	}
	if err := env.App.Dispatcher.DeleteContainer(ctx, id); err != nil {
		return err
	}
	return env.Out.Done(id, fmt.Sprintf("✓ Folder %d deleted", id))
}

func runList(ctx context.Context, env *handler.Env) error {
	parent, err := env.OptionalID("parent")
	if err != nil {
		return err
	}
	scope, err := ResolveScope(ctx, env, parent)
	if err != nil {
		return err
	}

	folders := env.App.Gateway.ListContainers(ctx, parent, scope)
	return env.Out.Success(folders, func(w io.Writer) {
		if len(folders) == 0 {
			fmt.Fprintln(w, "No folders found")
			return
		}
		for _, f := range folders {
			fmt.Fprintf(w, "📁 %s %s\n", f.Name, styles.SubtitleStyle.Render(fmt.Sprintf("(%d)", f.ID)))
		}
	})
}

func runTree(ctx context.Context, env *handler.Env) error {
	scope, err := env.Scope()
	if err != nil {
		return err
	}

	view := env.App.TreeView(ctx, scope)
	defer view.Close()

	tree := view.Get()
	return env.Out.Success(tree, func(w io.Writer) {
		RenderTree(w, tree)
	})
}

// RenderListing writes the direct children of a folder
func RenderListing(w io.Writer, l *projection.Listing) {
	if l == nil {
		return
	}
	title := l.Scope.Key()
	if l.Folder != nil {
		title = l.Folder.Name
	}
	fmt.Fprintln(w, styles.TitleStyle.Render(title))
	if l.Len() == 0 {
		fmt.Fprintln(w, "  (empty)")
		return
	}
	for _, f := range l.Folders {
		fmt.Fprintf(w, "  📁 %s %s\n", f.Name, styles.SubtitleStyle.Render(fmt.Sprintf("(%d)", f.ID)))
	}
	for _, d := range l.Documents {
		fmt.Fprintf(w, "  📄 %s %s\n", d.Title, styles.SubtitleStyle.Render(fmt.Sprintf("(%d)", d.ID)))
	}
}

// RenderTree writes a document tree, one line per folder or document
func RenderTree(w io.Writer, tree *projection.Tree) {
	if tree == nil || (len(tree.Roots) == 0 && len(tree.Documents) == 0) {
		fmt.Fprintln(w, "No folders or documents")
		return
	}
	fmt.Fprintln(w, styles.TitleStyle.Render(tree.Scope.Key()))
	for _, node := range projection.Flatten(tree.Roots) {
		indent := strings.Repeat("  ", node.Depth+1)
		fmt.Fprintf(w, "%s📁 %s %s\n", indent, node.Folder.Name, styles.SubtitleStyle.Render(fmt.Sprintf("(%d)", node.Folder.ID)))
		for _, d := range node.Documents {
			fmt.Fprintf(w, "%s  📄 %s %s\n", indent, d.Title, styles.SubtitleStyle.Render(fmt.Sprintf("(%d)", d.ID)))
		}
	}
	for _, d := range tree.Documents {
		fmt.Fprintf(w, "  📄 %s %s\n", d.Title, styles.SubtitleStyle.Render(fmt.Sprintf("(%d)", d.ID)))
	}
}
