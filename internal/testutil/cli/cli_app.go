// Package cli holds helpers for command tests. It lives apart from testutil so that
// gateway and database tests do not pull in the application container.
package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/studio/internal/app"
	studiocli "github.com/thenoetrevino/studio/internal/cli"
	"github.com/thenoetrevino/studio/internal/testutil"
)

// SetupCLITest creates an App over a fresh in-memory database
func SetupCLITest(t *testing.T) *app.App {
	t.Helper()
	a := app.New(context.Background(), testutil.SetupTestDB(t),
		app.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		app.WithBlobStore(testutil.SetupBlobStore(t)),
	)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

// ExecuteCLICommand executes a CLI command against testApp and returns its stdout
func ExecuteCLICommand(t *testing.T, testApp *app.App, cmd *cobra.Command, args []string) (string, error) {
	t.Helper()
	return ExecuteCLICommandWithContext(t, context.Background(), testApp, cmd, args)
}

// ExecuteCLICommandWithContext executes a CLI command with a specific context and test app
func ExecuteCLICommandWithContext(t *testing.T, ctx context.Context, testApp *app.App, cmd *cobra.Command, args []string) (string, error) {
	t.Helper()
	var stdout bytes.Buffer
	err := run(t, ctx, testApp, cmd, args, &stdout, io.Discard, nil)
	return stdout.String(), err
}

// ExecuteWithInput executes a command feeding stdin and returns stdout and stderr
func ExecuteWithInput(t *testing.T, testApp *app.App, cmd *cobra.Command, args []string, stdin string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(t, context.Background(), testApp, cmd, args, &stdout, &stderr, strings.NewReader(stdin))
	return stdout.String(), stderr.String(), err
}

func run(t *testing.T, ctx context.Context, testApp *app.App, cmd *cobra.Command, args []string, stdout, stderr io.Writer, stdin io.Reader) error {
	t.Helper()
	if testApp == nil {
		t.Fatal("testApp cannot be nil - SetupCLITest must be called first")
	}

	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	return cmd.ExecuteContext(studiocli.WithApp(ctx, testApp))
}
