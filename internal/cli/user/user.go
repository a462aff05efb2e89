// Package user holds the cli commands for the agency's team members
package user

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/studio/internal/cli"
	"github.com/thenoetrevino/studio/internal/cli/handler"
)

// UserCmd returns the user parent command
func UserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage team members",
	}

	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(ListCmd())

	return cmd
}

// CreateCmd returns the user create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a team member",
		Long: `Add a team member who can be assigned to tasks, comment and log time.

Examples:
  studio user create --name="Alice" --email="alice@example.com"
`,
		RunE: handler.Command(runCreate),
	}

	cmd.Flags().String("name", "", "Display name (required)")
	cmd.Flags().String("email", "", "Email address")
	cli.AddOutputFlags(cmd)

	return cmd
}

// ListCmd returns the user list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List team members",
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
	u, err := env.App.Gateway.CreateUser(ctx, name, env.String("email"))
	if err != nil {
		return err
	}
	return env.Out.Success(u, func(w io.Writer) {
		fmt.Fprintf(w, "✓ User @%s created successfully (ID: %d)\n", u.Name, u.ID)
	})
}

func runList(ctx context.Context, env *handler.Env) error {
	users := env.App.Gateway.ListUsers(ctx)
	return env.Out.Success(users, func(w io.Writer) {
		if len(users) == 0 {
			fmt.Fprintln(w, "No users found")
			return
		}
		for _, u := range users {
			line := fmt.Sprintf("  %d  @%s", u.ID, u.Name)
			if u.Email != "" {
				line += "  <" + u.Email + ">"
			}
			fmt.Fprintln(w, line)
		}
	})
}
