// Package doc holds the cli commands for documents
// e.g., studio doc ...
package doc

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/studio/internal/cli"
	"github.com/thenoetrevino/studio/internal/cli/folder"
	"github.com/thenoetrevino/studio/internal/cli/handler"
	"github.com/thenoetrevino/studio/internal/cli/styles"
	"github.com/thenoetrevino/studio/internal/models"
)

const renderWidth = 80

// DocCmd returns the doc parent command
func DocCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doc",
		Short: "Manage markdown documents",
	}

	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(ListCmd())
	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(EditCmd())
	cmd.AddCommand(DeleteCmd())

	return cmd
}

// CreateCmd returns the doc create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a document",
		Long: `Create a markdown document at the root of a scope or in a folder.

Examples:
  studio doc create --title="Brief" --scope=project:2
  studio doc create --title="Homepage copy" --folder=7 --content=- < copy.md
`,
		RunE: handler.Command(runCreate),
	}

	cmd.Flags().String("title", "", "Document title (required)")
	cmd.Flags().Int("folder", 0, "Folder ID")
	cmd.Flags().String("scope", "", "Scope: global, client:<id> or project:<id> (defaults to the folder's scope, else global)")
	cmd.Flags().String("content", "", "Markdown content (use - for stdin)")
	cli.AddOutputFlags(cmd)

	return cmd
}

// ListCmd returns the doc list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the documents in a folder or at a scope's root",
		RunE:  handler.Command(runList),
	}

	cmd.Flags().Int("folder", 0, "Folder ID")
	cmd.Flags().String("scope", "", "Scope: global, client:<id> or project:<id>")
	cli.AddOutputFlags(cmd)

	return cmd
}

// ShowCmd returns the doc show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <doc-id>",
		Short: "Render a document",
		Args:  cobra.ExactArgs(1),
		RunE:  handler.Command(runShow),
	}

	cmd.Flags().Bool("raw", false, "Print the markdown source")
	cli.AddOutputFlags(cmd)

	return cmd
}

// DeleteCmd returns the doc delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <doc-id>",
		Short: "Delete a document",
		Args:  cobra.ExactArgs(1),
		RunE:  handler.Command(runDelete),
	}

	cli.AddOutputFlags(cmd)

	return cmd
}

func docNotFound(id int) error {
	return cli.WithSuggestion(cli.NotFound("document %d not found", id),
		"Use 'studio folder tree --scope=<scope>' to see documents")
}

func runCreate(ctx context.Context, env *handler.Env) error {
	title, err := env.RequiredString("title")
	if err != nil {
		return err
	}
	folderID, err := env.OptionalID("folder")
	if err != nil {
		return err
	}
	scope, err := resolveScope(ctx, env, folderID)
	if err != nil {
		return err
	}
	content, err := env.Text("content")
	if err != nil {
		return err
	}

	d, err := env.App.Dispatcher.CreateDocument(ctx, &models.Document{
		FolderID: folderID,
		Scope:    scope,
		Title:    title,
		Content:  content,
	})
	if err != nil {
		return err
	}
	return env.Out.Success(d, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Document '%s' created in %s (ID: %d)\n", d.Title, d.Scope, d.ID)
	})
}

func resolveScope(ctx context.Context, env *handler.Env, folderID *int) (models.Scope, error) {
	return folder.ResolveScope(ctx, env, folderID)
}

func runList(ctx context.Context, env *handler.Env) error {
	folderID, err := env.OptionalID("folder")
	if err != nil {
		return err
	}
	scope, err := resolveScope(ctx, env, folderID)
	if err != nil {
		return err
	}

	docs := env.App.Gateway.ListDocuments(ctx, folderID, scope)
	return env.Out.Success(docs, func(w io.Writer) {
		if len(docs) == 0 {
			fmt.Fprintln(w, "No documents found")
			return
		}
		for _, d := range docs {
			fmt.Fprintf(w, "📄 %s %s  %s\n", d.Title,
				styles.SubtitleStyle.Render(fmt.Sprintf("(%d)", d.ID)),
				styles.SubtitleStyle.Render("updated "+d.UpdatedAt.Format("Jan 2 15:04")))
		}
	})
}

func runShow(ctx context.Context, env *handler.Env) error {
	id, err := env.ArgID(0, "document")
	if err != nil {
		return err
	}
	d := env.App.Gateway.GetDocument(ctx, id)
	if d == nil {
		return docNotFound(id)
	}

	return env.Out.Success(d, func(w io.Writer) {
		if env.Bool("raw") {
			fmt.Fprint(w, d.Content)
			return
		}
		Render(w, d)
	})
}

// Render writes a document heading and its rendered markdown body
func Render(w io.Writer, d *models.Document) {
	fmt.Fprintln(w, styles.TitleStyle.Render(d.Title))
	fmt.Fprintln(w, styles.SubtitleStyle.Render(d.Scope.Key()+" · updated "+d.UpdatedAt.Format("Jan 2, 2006 15:04")))
	fmt.Fprint(w, styles.RenderMarkdown(d.Content, renderWidth))
}

func runDelete(ctx context.Context, env *handler.Env) error {
	id, err := env.ArgID(0, "document")
	if err != nil {
		return err
	}
	if err := env.App.Dispatcher.DeleteDocument(ctx, id); err != nil {
		return err
	}
	return env.Out.Done(id, fmt.Sprintf("✓ Document %d deleted", id))
}
