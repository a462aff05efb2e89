// Package client holds the cli commands for clients and their contracts
// e.g., studio client ..., studio contract ...
package client

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/studio/internal/cli"
	"github.com/thenoetrevino/studio/internal/cli/handler"
	"github.com/thenoetrevino/studio/internal/models"
)

// ClientCmd returns the client parent command
func ClientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Manage clients",
	}

	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(ListCmd())

	return cmd
}

// CreateCmd returns the client create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a client",
		Long: `Add a client. Projects, contracts, folders and documents can belong to a client.

Examples:
  studio client create --name="Acme" --email="ops@acme.test"
  CLIENT_ID=$(studio client create --name="Acme" --quiet)
`,
		RunE: handler.Command(runCreate),
	}

	cmd.Flags().String("name", "", "Client name (required)")
	cmd.Flags().String("email", "", "Contact email")
	cli.AddOutputFlags(cmd)

	return cmd
}

// ListCmd returns the client list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clients with their contracts",
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
	c, err := env.App.Gateway.CreateClient(ctx, name, env.String("email"))
	if err != nil {
		return err
	}
	return env.Out.Success(c, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Client '%s' created successfully (ID: %d)\n", c.Name, c.ID)
	})
}

func runList(ctx context.Context, env *handler.Env) error {
	clients := env.App.Gateway.ListClients(ctx)
	return env.Out.Success(clients, func(w io.Writer) {
		if len(clients) == 0 {
			fmt.Fprintln(w, "No clients found")
			return
		}
		for _, c := range clients {
			fmt.Fprintf(w, "%d  %s", c.ID, c.Name)
			if c.Email != "" {
				fmt.Fprintf(w, "  <%s>", c.Email)
			}
			fmt.Fprintln(w)
			for _, k := range env.App.Gateway.ListContracts(ctx, models.ContractFilter{ClientID: c.ID}) {
				fmt.Fprintf(w, "    %s\n", contractLine(k))
			}
		}
	})
}
