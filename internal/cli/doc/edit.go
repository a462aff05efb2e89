package doc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/studio/internal/cli"
	"github.com/thenoetrevino/studio/internal/cli/handler"
	"github.com/thenoetrevino/studio/internal/dispatch"
	"github.com/thenoetrevino/studio/internal/models"
)

// EditCmd returns the doc edit subcommand
func EditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <doc-id>",
		Short: "Change a document's title or content",
		Long: `Change a document's title or replace its content.

With --stream the content is read from stdin as it arrives and saved whenever
the input pauses, the way an editor autosaves while typing.

Examples:
  studio doc edit 5 --title="Brief v2"
  studio doc edit 5 --content=- < brief.md
  tail -f notes.md | studio doc edit 5 --stream --delay=2s
`,
		Args: cobra.ExactArgs(1),
		RunE: handler.Command(runEdit),
	}

	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("content", "", "New markdown content (use - for stdin)")
	cmd.Flags().Bool("stream", false, "Read content from stdin and save whenever input pauses")
	cmd.Flags().Duration("delay", dispatch.DefaultAutosaveDelay, "Pause before a streamed save")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runEdit(ctx context.Context, env *handler.Env) error {
	id, err := env.ArgID(0, "document")
	if err != nil {
		return err
	}
	stream := env.Bool("stream")
	if !env.Changed("title") && !env.Changed("content") && !stream {
		return cli.WithSuggestion(cli.Usage("nothing to edit"), "Pass --title, --content or --stream")
	}
	if stream && env.Changed("content") {
		return cli.Usage("--content and --stream cannot be combined")
	}
	if env.App.Gateway.GetDocument(ctx, id) == nil {
		return docNotFound(id)
	}

	var doc *models.Document
	if env.Changed("title") {
		if doc, err = env.App.Dispatcher.RenameDocument(ctx, id, env.String("title")); err != nil {
			return err
		}
	}

	var saves atomic.Int32
	if env.Changed("content") || stream {
		saver := env.App.Dispatcher.Autosave(id,
			dispatch.WithDelay(env.Duration("delay")),
			dispatch.OnSaved(func(d *models.Document) {
				saves.Add(1)
				doc = d
			}),
		)
		if stream {
			err = streamInto(saver, env.Stdin())
		} else {
			var content string
			if content, err = env.Text("content"); err == nil {
				saver.Update(content)
			}
		}
		if cerr := saver.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
	}

	if doc == nil {
		doc = env.App.Gateway.GetDocument(ctx, id)
	}
	return env.Out.Success(doc, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Document %d saved", id)
		if n := saves.Load(); n > 1 {
			fmt.Fprintf(w, " (%d autosaves)", n)
		}
		fmt.Fprintln(w)
	})
}

// streamInto feeds r to the autosaver line by line, each update carrying all content
// read so far
func streamInto(saver *dispatch.Autosaver, r io.Reader) error {
	br := bufio.NewReader(r)
	var b strings.Builder
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			b.WriteString(line)
			saver.Update(b.String())
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return &cli.CommandError{Code: cli.ExitDataErr, Err: fmt.Errorf("failed to read stdin: %w", err)}
		}
	}
}
