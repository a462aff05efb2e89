package task

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/studio/internal/cli"
	"github.com/thenoetrevino/studio/internal/cli/handler"
)

// AttachCmd returns the task attach subcommand
func AttachCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attach <task-id> <file>",
		Short: "Upload a file to a task",
		Long: `Upload a file to blob storage and attach it to a task.

Examples:
  studio task attach 12 ./moodboard.pdf
  studio task attach 12 ./logo.svg --name="Logo final"
`,
		Args: cobra.ExactArgs(2),
		RunE: handler.Command(runAttach),
	}

	cmd.Flags().String("name", "", "Attachment name (defaults to the file name)")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runAttach(ctx context.Context, env *handler.Env) error {
	taskID, err := env.ArgID(0, "task")
	if err != nil {
		return err
	}
	path := env.Args[1]
	f, err := os.Open(path)
	if err != nil {
		return &cli.CommandError{Code: cli.ExitDataErr, Err: fmt.Errorf("open %s: %w", path, err)}
	}
	defer f.Close()

	name := env.String("name")
	if name == "" {
		name = filepath.Base(path)
	}

	att, err := env.App.Dispatcher.AddAttachment(ctx, taskID, name, f)
	if err != nil {
		return err
	}
	return env.Out.Success(att, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Attached %s to task %d\n", att.Name, taskID)
		fmt.Fprintf(w, "  %s\n", att.URL)
	})
}
