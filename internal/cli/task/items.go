package task

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/studio/internal/cli"
	"github.com/thenoetrevino/studio/internal/cli/handler"
)

// CheckCmd returns the task check parent command
func CheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Manage the checklist of a task",
	}

	add := &cobra.Command{
		Use:   "add <task-id> <text>",
		Short: "Add a checklist item",
		Args:  cobra.MinimumNArgs(2),
		RunE:  handler.Command(runCheckAdd),
	}
	done := &cobra.Command{
		Use:   "done <task-id> <item-id>",
		Short: "Tick a checklist item",
		Args:  cobra.ExactArgs(2),
		RunE:  handler.Command(checkSetter(true)),
	}
	undo := &cobra.Command{
		Use:   "undo <task-id> <item-id>",
		Short: "Untick a checklist item",
		Args:  cobra.ExactArgs(2),
		RunE:  handler.Command(checkSetter(false)),
	}
	rm := &cobra.Command{
		Use:   "rm <task-id> <item-id>",
		Short: "Remove a checklist item",
		Args:  cobra.ExactArgs(2),
		RunE:  handler.Command(runCheckRemove),
	}
	for _, c := range []*cobra.Command{add, done, undo, rm} {
		cli.AddOutputFlags(c)
		cmd.AddCommand(c)
	}

	return cmd
}

func runCheckAdd(ctx context.Context, env *handler.Env) error {
	taskID, view, err := openTask(ctx, env)
	if err != nil {
		return err
	}
	defer view.Close()

	item, err := env.App.Dispatcher.AddChecklistItem(ctx, view, taskID, strings.Join(env.Args[1:], " "))
	if err != nil {
		return err
	}
	return env.Out.Success(item, func(w io.Writer) {
		done, total := view.Get().ChecklistProgress()
		fmt.Fprintf(w, "✓ Added checklist item %d (%d/%d done)\n", item.ID, done, total)
	})
}

func checkSetter(done bool) handler.Func {
	return func(ctx context.Context, env *handler.Env) error {
		taskID, view, err := openTask(ctx, env)
		if err != nil {
			return err
		}
		defer view.Close()

		itemID, err := env.ArgID(1, "checklist item")
		if err != nil {
			return err
		}
		if err := env.App.Dispatcher.SetChecklistItemDone(ctx, view, taskID, itemID, done); err != nil {
			return err
		}
		state := "open"
		if done {
			state = "done"
		}
		return env.Out.Done(itemID, fmt.Sprintf("✓ Checklist item %d marked %s", itemID, state))
	}
}

func runCheckRemove(ctx context.Context, env *handler.Env) error {
	taskID, view, err := openTask(ctx, env)
	if err != nil {
		return err
	}
	defer view.Close()

	itemID, err := env.ArgID(1, "checklist item")
	if err != nil {
		return err
	}
	if err := env.App.Dispatcher.RemoveChecklistItem(ctx, view, taskID, itemID); err != nil {
		return err
	}
	return env.Out.Done(itemID, fmt.Sprintf("✓ Checklist item %d removed", itemID))
}

// CommentCmd returns the task comment subcommand
func CommentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment <task-id>",
		Short: "Comment on a task",
		Long: `Post a comment on a task. Without --user the author is the member named by
$STUDIO_USER or your login name; when no member matches the comment is anonymous.

Examples:
  studio task comment 12 --body="Client approved v2" --user=alice
  git log -1 --format=%B | studio task comment 12 --body=-
`,
		Args: cobra.ExactArgs(1),
		RunE: handler.Command(runComment),
	}

	cmd.Flags().String("body", "", "Comment text, use - for stdin (required)")
	cmd.Flags().String("user", "", "Author name or ID (defaults to $STUDIO_USER or your login)")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runComment(ctx context.Context, env *handler.Env) error {
	if _, err := env.RequiredString("body"); err != nil {
		return err
	}
	body, err := env.Text("body")
	if err != nil {
		return err
	}
	author := currentMember(ctx, env)
	if ref := env.String("user"); ref != "" {
		if author, err = lookupUser(ctx, env, ref); err != nil {
			return err
		}
	}

	taskID, view, err := openTask(ctx, env)
	if err != nil {
		return err
	}
	defer view.Close()

	comment, err := env.App.Dispatcher.AddComment(ctx, view, taskID, author, body)
	if err != nil {
		return err
	}
	return env.Out.Success(comment, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Comment %d added to task %d\n", comment.ID, taskID)
	})
}

// LogCmd returns the task log subcommand
func LogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log <task-id>",
		Short: "Log time spent on a task",
		Long: `Log time spent on a task.

Examples:
  studio task log 12 --minutes=90 --note="Layout pass" --user=alice
  studio task log 12 --minutes=30 --on=2026-10-01
`,
		Args: cobra.ExactArgs(1),
		RunE: handler.Command(runLog),
	}

	cmd.Flags().Int("minutes", 0, "Minutes spent (required)")
	cmd.Flags().String("note", "", "What the time was spent on")
	cmd.Flags().String("user", "", "Who spent the time (name or ID, defaults to $STUDIO_USER or your login)")
	cmd.Flags().String("on", "", "Day the time was spent (YYYY-MM-DD, defaults to today)")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runLog(ctx context.Context, env *handler.Env) error {
	minutes := env.Int("minutes")
	if minutes <= 0 {
		return cli.WithSuggestion(cli.Usage("--minutes must be positive"), "Example: --minutes=90")
	}
	var userID int
	if me := currentMember(ctx, env); me != nil {
		userID = me.ID
	}
	if ref := env.String("user"); ref != "" {
		u, err := lookupUser(ctx, env, ref)
		if err != nil {
			return err
		}
		userID = u.ID
	}
	var spentOn time.Time
	if on, err := env.Date("on"); err != nil {
		return err
	} else if on != nil {
		spentOn = *on
	}

	taskID, view, err := openTask(ctx, env)
	if err != nil {
		return err
	}
	defer view.Close()

	entry, err := env.App.Dispatcher.AddTimeEntry(ctx, view, taskID, userID, minutes, env.String("note"), spentOn)
	if err != nil {
		return err
	}
	return env.Out.Success(entry, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Logged %s on task %d (total %s)\n",
			cli.FormatMinutes(entry.Minutes), taskID, cli.FormatMinutes(view.Get().TotalMinutes()))
	})
}
