// Package settings holds the commands that read and change the studio config file
package settings

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/studio/internal/cli"
	"github.com/thenoetrevino/studio/internal/cli/styles"
	"github.com/thenoetrevino/studio/internal/config"
)

// ConfigCmd returns the config parent command
func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the studio configuration",
		Long: `Show the effective configuration or change a key in the config file.

Environment variables (STUDIO_DB_PATH, STUDIO_LOG_LEVEL, ...) take precedence
over the file and are never written to it. A running 'studio serve' picks up
log_level changes without a restart.

Examples:
  studio config show
  studio config set log_level debug
  studio config set disable_live true`,
	}

	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(SetCmd())

	return cmd
}

// ShowCmd returns the config show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE:  runShow,
	}
	cli.AddOutputFlags(cmd)
	return cmd
}

// SetCmd returns the config set subcommand
func SetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Write one key to the config file",
		Long:  "Write one key to the config file. Keys: " + strings.Join(config.Keys(), ", "),
		Args:  cobra.ExactArgs(2),
		RunE:  runSet,
	}
	cli.AddOutputFlags(cmd)
	return cmd
}

func runShow(cmd *cobra.Command, _ []string) error {
	out := cli.NewFormatter(cmd)
	cfg, err := config.Load()
	if err != nil {
		return out.Fail(err)
	}
	path, _ := config.Path()

	return out.Success(cfg, func(w io.Writer) {
		fmt.Fprintln(w, styles.TitleStyle.Render("Configuration"))
		if path != "" {
			fmt.Fprintln(w, styles.SubtitleStyle.Render(path))
		}
		row := func(key string, value any) {
			fmt.Fprintf(w, "  %s %v\n", styles.LabelStyle.Render(fmt.Sprintf("%-14s", key)), value)
		}
		row("database_path", cfg.DatabasePath)
		row("socket_path", cfg.SocketPath)
		row("log_path", cfg.LogPath)
		row("log_level", cfg.LogLevel)
		row("web_addr", cfg.WebAddr)
		row("blob_dir", cfg.BlobDir)
		row("disable_live", cfg.DisableLive)
	})
}

func runSet(cmd *cobra.Command, args []string) error {
	out := cli.NewFormatter(cmd)
	key, value := args[0], args[1]

	saved, err := config.Set(key, value)
	switch {
	case errors.Is(err, config.ErrUnknownKey):
		return out.Fail(cli.WithSuggestion(cli.Usage("unknown key %q", key),
			"Keys: "+strings.Join(config.Keys(), ", ")))
	case errors.Is(err, config.ErrInvalidValue):
		return out.Fail(cli.Invalid(err))
	case err != nil:
		return out.Fail(err)
	}

	return out.Success(saved, func(w io.Writer) {
		fmt.Fprintf(w, "✓ %s set to %q\n", key, value)
	})
}
