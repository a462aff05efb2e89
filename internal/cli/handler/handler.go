// Package handler runs command bodies against an open workspace, so each command only
// states what it does.
package handler

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/studio/internal/app"
	"github.com/thenoetrevino/studio/internal/cli"
	"github.com/thenoetrevino/studio/internal/models"
)

// Env is what a command body works with
type Env struct {
	*FlagParser

	CLI  *cli.CLI
	App  *app.App
	Out  *cli.OutputFormatter
	Args []string
}

// Stdin returns the command's input stream
func (e *Env) Stdin() io.Reader {
	return e.cmd.InOrStdin()
}

// ArgID parses the positional argument at i as an ID
func (e *Env) ArgID(i int, what string) (int, error) {
	if i >= len(e.Args) {
		return 0, cli.Usage("%s ID required", what)
	}
	return cli.ParseID(what, e.Args[i])
}

// Project resolves the project from the first positional argument when useArg is
// set and one was given, otherwise from --project or $STUDIO_PROJECT, and checks that
// it exists
func (e *Env) Project(ctx context.Context, useArg bool) (*models.Project, error) {
	var id int
	var err error
	if useArg && len(e.Args) > 0 {
		id, err = e.ArgID(0, "project")
	} else {
		id, err = e.ProjectID()
	}
	if err != nil {
		return nil, err
	}

	project := e.App.Gateway.GetProject(ctx, id)
	if project == nil {
		return nil, cli.WithSuggestion(cli.NotFound("project %d not found", id),
			"Use 'studio project list' to see available projects")
	}
	return project, nil
}

// Func is the body of a command
type Func func(ctx context.Context, env *Env) error

// Command wraps fn with the common setup: output flags, workspace lookup and error
// reporting. Returns a cobra RunE compatible function.
func Command(fn Func) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		out := cli.NewFormatter(cmd)

		cliInstance, err := cli.GetCLIFromContext(ctx)
		if err != nil {
			return out.Fail(cli.WithSuggestion(err, "Check database_path in your studio config"))
		}
		defer func() {
			if err := cliInstance.Close(); err != nil {
				slog.Warn("error closing workspace", "error", err)
			}
		}()

		env := &Env{
			FlagParser: NewFlagParser(cmd),
			CLI:        cliInstance,
			App:        cliInstance.App,
			Out:        out,
			Args:       args,
		}
		if err := fn(ctx, env); err != nil {
			return out.Fail(err)
		}
		return nil
	}
}
