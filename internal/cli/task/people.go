package task

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/studio/internal/cli"
	"github.com/thenoetrevino/studio/internal/cli/handler"
	"github.com/thenoetrevino/studio/internal/models"
	"github.com/thenoetrevino/studio/internal/user"
)

// AssignCmd returns the task assign subcommand
func AssignCmd() *cobra.Command {
	return linkCmd("assign <task-id> <user>", "Assign a user to a task", runAssign)
}

// UnassignCmd returns the task unassign subcommand
func UnassignCmd() *cobra.Command {
	return linkCmd("unassign <task-id> <user>", "Remove a user from a task", runUnassign)
}

// TagCmd returns the task tag subcommand
func TagCmd() *cobra.Command {
	return linkCmd("tag <task-id> <tag>", "Tag a task", runTag)
}

// UntagCmd returns the task untag subcommand
func UntagCmd() *cobra.Command {
	return linkCmd("untag <task-id> <tag>", "Remove a tag from a task", runUntag)
}

func linkCmd(use, short string, fn handler.Func) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE:  handler.Command(fn),
	}
	cli.AddOutputFlags(cmd)
	return cmd
}

func runAssign(ctx context.Context, env *handler.Env) error {
	member, err := lookupUser(ctx, env, env.Args[1])
	if err != nil {
		return err
	}
	taskID, view, err := openTask(ctx, env)
	if err != nil {
		return err
	}
	defer view.Close()

	if err := env.App.Dispatcher.AddAssignee(ctx, view, taskID, member); err != nil {
		return err
	}
	return env.Out.Done(taskID, fmt.Sprintf("✓ Assigned @%s to task %d", member.Name, taskID))
}

func runUnassign(ctx context.Context, env *handler.Env) error {
	member, err := lookupUser(ctx, env, env.Args[1])
	if err != nil {
		return err
	}
	taskID, view, err := openTask(ctx, env)
	if err != nil {
		return err
	}
	defer view.Close()

	if err := env.App.Dispatcher.RemoveAssignee(ctx, view, taskID, member.ID); err != nil {
		return err
	}
	return env.Out.Done(taskID, fmt.Sprintf("✓ Removed @%s from task %d", member.Name, taskID))
}

func runTag(ctx context.Context, env *handler.Env) error {
	tag, err := lookupTag(ctx, env, env.Args[1])
	if err != nil {
		return err
	}
	taskID, view, err := openTask(ctx, env)
	if err != nil {
		return err
	}
	defer view.Close()

	if err := env.App.Dispatcher.AddTag(ctx, view, taskID, tag); err != nil {
		return err
	}
	return env.Out.Done(taskID, fmt.Sprintf("✓ Tagged task %d with %s", taskID, tag.Name))
}

func runUntag(ctx context.Context, env *handler.Env) error {
	tag, err := lookupTag(ctx, env, env.Args[1])
	if err != nil {
		return err
	}
	taskID, view, err := openTask(ctx, env)
	if err != nil {
		return err
	}
	defer view.Close()

	if err := env.App.Dispatcher.RemoveTag(ctx, view, taskID, tag.ID); err != nil {
		return err
	}
	return env.Out.Done(taskID, fmt.Sprintf("✓ Removed tag %s from task %d", tag.Name, taskID))
}

// currentMember is the workspace member running the command, or nil
func currentMember(ctx context.Context, env *handler.Env) *models.User {
	return user.Find(env.App.Gateway.ListUsers(ctx), user.CurrentName())
}

// lookupUser matches a user by ID or case-insensitive name
func lookupUser(ctx context.Context, env *handler.Env, ref string) (*models.User, error) {
	users := env.App.Gateway.ListUsers(ctx)
	id, idErr := strconv.Atoi(strings.TrimPrefix(ref, "@"))
	for _, u := range users {
		if (idErr == nil && u.ID == id) || strings.EqualFold(u.Name, strings.TrimPrefix(ref, "@")) {
			return u, nil
		}
	}
	return nil, cli.WithSuggestion(cli.NotFound("user '%s' not found", ref),
		"Use 'studio user list' to see team members")
}

// lookupTag matches a tag by ID or case-insensitive name
func lookupTag(ctx context.Context, env *handler.Env, ref string) (*models.Tag, error) {
	tags := env.App.Gateway.ListTags(ctx)
	id, idErr := strconv.Atoi(ref)
	for _, t := range tags {
		if (idErr == nil && t.ID == id) || strings.EqualFold(t.Name, ref) {
			return t, nil
		}
	}
	return nil, cli.WithSuggestion(cli.NotFound("tag '%s' not found", ref),
		"Use 'studio tag list' to see tags, or 'studio tag create' to add one")
}
