// Package watch holds the commands that keep a view on screen and redraw it whenever
// someone changes it
package watch

import (
	"context"
	"fmt"
	"io"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/studio/internal/cli"
	"github.com/thenoetrevino/studio/internal/cli/dashboard"
	"github.com/thenoetrevino/studio/internal/cli/doc"
	"github.com/thenoetrevino/studio/internal/cli/folder"
	"github.com/thenoetrevino/studio/internal/cli/handler"
	"github.com/thenoetrevino/studio/internal/cli/project"
	"github.com/thenoetrevino/studio/internal/cli/styles"
	"github.com/thenoetrevino/studio/internal/cli/task"
	"github.com/thenoetrevino/studio/internal/config"
	"github.com/thenoetrevino/studio/internal/models"
	"github.com/thenoetrevino/studio/internal/projection"
	"github.com/thenoetrevino/studio/internal/tui"
)

// WatchCmd returns the watch parent command
func WatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow a board, task, folder, document or the dashboard as it changes",
		Long: `Print a view and print it again every time it changes, whether the change
was made here, in another terminal or by another team member. Stop with Ctrl-C.

Live updates need the studio daemon. Without it the view is printed once.`,
	}

	cmd.AddCommand(BoardCmd())
	cmd.AddCommand(TaskCmd())
	cmd.AddCommand(TreeCmd())
	cmd.AddCommand(FolderCmd())
	cmd.AddCommand(DocCmd())
	cmd.AddCommand(DashboardCmd())

	return cmd
}

func addWatchFlags(cmd *cobra.Command) {
	cmd.Flags().Int("count", 0, "Stop after this many updates (0 follows until interrupted)")
	cli.AddOutputFlags(cmd)
}

// BoardCmd returns the watch board subcommand
func BoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board [project-id]",
		Short: "Follow a project board",
		Args:  cobra.MaximumNArgs(1),
		RunE:  handler.Command(runBoard),
	}
	cmd.Flags().Int("project", 0, "Project ID (defaults to $STUDIO_PROJECT)")
	cmd.Flags().BoolP("interactive", "i", false, "Open the board full screen and move cards with H/L (press ? for keys)")
	addWatchFlags(cmd)
	return cmd
}

// TaskCmd returns the watch task subcommand
func TaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task <task-id>",
		Short: "Follow a task page",
		Args:  cobra.ExactArgs(1),
		RunE:  handler.Command(runTask),
	}
	addWatchFlags(cmd)
	return cmd
}

// TreeCmd returns the watch tree subcommand
func TreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Follow the folder tree of a scope",
		RunE:  handler.Command(runTree),
	}
	cmd.Flags().String("scope", "", "Scope: global, client:<id> or project:<id>")
	addWatchFlags(cmd)
	return cmd
}

// FolderCmd returns the watch folder subcommand
func FolderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folder [folder-id]",
		Short: "Follow one folder, or the root of a scope",
		Args:  cobra.MaximumNArgs(1),
		RunE:  handler.Command(runFolder),
	}
	cmd.Flags().String("scope", "", "Scope of the root listing: global, client:<id> or project:<id>")
	addWatchFlags(cmd)
	return cmd
}

// DocCmd returns the watch doc subcommand
func DocCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doc <document-id>",
		Short: "Follow a document while others edit it",
		Args:  cobra.ExactArgs(1),
		RunE:  handler.Command(runDoc),
	}
	addWatchFlags(cmd)
	return cmd
}

// DashboardCmd returns the watch dashboard subcommand
func DashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Follow the workspace totals",
		Args:  cobra.NoArgs,
		RunE:  handler.Command(runDashboard),
	}
	addWatchFlags(cmd)
	return cmd
}

func runBoard(ctx context.Context, env *handler.Env) error {
	p, err := env.Project(ctx, true)
	if err != nil {
		return err
	}
	if env.Bool("interactive") {
		if env.Out.JSON || env.Changed("count") {
			return cli.Usage("--interactive cannot be combined with --json or --count")
		}
		return runInteractiveBoard(ctx, env, p)
	}
	view := env.App.BoardView(ctx, p.ID, models.TaskFilter{})
	return follow(ctx, env, view, func(w io.Writer, b *projection.Board) {
		project.RenderBoard(w, p, b)
	})
}

// runInteractiveBoard hands the terminal to the board program until the user quits
func runInteractiveBoard(ctx context.Context, env *handler.Env, p *models.Project) error {
	view := env.App.BoardView(ctx, p.ID, models.TaskFilter{})
	defer view.Close()

	colors := config.DefaultColorScheme()
	if env.CLI != nil && env.CLI.Config != nil {
		colors = env.CLI.Config.ColorScheme
	}
	model := tui.NewBoardModel(ctx, p.Name, view, env.App.Dispatcher, colors)
	return tui.RunBoard(ctx, model, tea.WithInput(env.Stdin()), tea.WithOutput(env.Out.Out))
}

func runTask(ctx context.Context, env *handler.Env) error {
	id, err := env.ArgID(0, "task")
	if err != nil {
		return err
	}
	view := env.App.TaskView(ctx, id)
	if view.Get() == nil {
		view.Close()
		return cli.NotFound("task %d not found", id)
	}
	return follow(ctx, env, view, func(w io.Writer, t *projection.TaskAggregate) {
		if t == nil {
			fmt.Fprintf(w, "Task %d was deleted\n", id)
			return
		}
		fmt.Fprintln(w, task.RenderTask(t))
	})
}

func runTree(ctx context.Context, env *handler.Env) error {
	scope, err := env.Scope()
	if err != nil {
		return err
	}
	return follow(ctx, env, env.App.TreeView(ctx, scope), folder.RenderTree)
}

func runFolder(ctx context.Context, env *handler.Env) error {
	var parent *int
	if len(env.Args) > 0 {
		id, err := env.ArgID(0, "folder")
		if err != nil {
			return err
		}
		parent = &id
	}
	scope, err := folder.ResolveScope(ctx, env, parent)
	if err != nil {
		return err
	}
	view := env.App.FolderView(ctx, parent, scope)
	return follow(ctx, env, view, func(w io.Writer, l *projection.Listing) {
		if parent != nil && l.Folder == nil {
			fmt.Fprintf(w, "Folder %d was deleted\n", *parent)
			return
		}
		folder.RenderListing(w, l)
	})
}

func runDoc(ctx context.Context, env *handler.Env) error {
	id, err := env.ArgID(0, "document")
	if err != nil {
		return err
	}
	view := env.App.DocumentView(ctx, id)
	if view.Get() == nil {
		view.Close()
		return cli.NotFound("document %d not found", id)
	}
	return follow(ctx, env, view, func(w io.Writer, d *models.Document) {
		if d == nil {
			fmt.Fprintf(w, "Document %d was deleted\n", id)
			return
		}
		doc.Render(w, d)
	})
}

func runDashboard(ctx context.Context, env *handler.Env) error {
	return follow(ctx, env, env.App.DashboardView(ctx), dashboard.Render)
}

// follow prints the view now and after every update until ctx is done or --count
// updates were printed. The view is closed on return.
func follow[T any](ctx context.Context, env *handler.Env, view *projection.View[T], render func(io.Writer, T)) error {
	defer view.Close()

	updates := make(chan struct{}, 1)
	view.OnUpdate(func() {
		select {
		case updates <- struct{}{}:
		default:
		}
	})

	show := func() error {
		value := view.Get()
		return env.Out.Success(value, func(w io.Writer) { render(w, value) })
	}
	if err := show(); err != nil {
		return err
	}
	if !view.Live() {
		fmt.Fprintln(env.Out.Err, styles.WarningStyle.Render("live updates unavailable, is the studio daemon running?"))
		return nil
	}

	limit := env.Int("count")
	for seen := 0; limit == 0 || seen < limit; seen++ {
		select {
		case <-ctx.Done():
			return nil
		case <-updates:
		}
		if !env.Out.JSON && !env.Out.Quiet {
			fmt.Fprintln(env.Out.Out, styles.SubtitleStyle.Render("── updated "+time.Now().Format("15:04:05")+" ──"))
		}
		if err := show(); err != nil {
			return err
		}
	}
	return nil
}
