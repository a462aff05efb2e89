// Package serve holds the command that runs the read-only web server
package serve

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/studio/internal/cli/handler"
	"github.com/thenoetrevino/studio/internal/config"
	"github.com/thenoetrevino/studio/internal/logging"
	"github.com/thenoetrevino/studio/internal/web"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve boards, tasks and documents over HTTP",
		Long: `Run the read-only web server. Pages are cached and dropped from the cache
as soon as the data behind them changes. Browsers can follow changes over the
/ws websocket.

The log level follows the config file while the server runs.

Examples:
  studio serve
  studio serve --addr=0.0.0.0:8080 --origin=studio.example.com
`,
		RunE: handler.Command(runServe),
	}

	cmd.Flags().String("addr", "", "Listen address (defaults to web_addr from the config)")
	cmd.Flags().StringSlice("origin", nil, "Host pattern allowed to open /ws cross-origin (repeatable)")

	return cmd
}

func runServe(ctx context.Context, env *handler.Env) error {
	addr := env.String("addr")
	if addr == "" {
		addr = env.CLI.Config.WebAddr
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	watchConfig(ctx)

	if !env.App.Live() {
		slog.Warn("daemon not reachable, pages are cached until the server restarts")
	}
	srv := env.App.WebServer(addr, web.WithOriginPatterns(env.Strings("origin")...))
	fmt.Fprintf(env.Out.Err, "Serving on http://%s (Ctrl-C to stop)\n", addr)
	return srv.Start(ctx)
}

// watchConfig applies log level changes from the config file until ctx is done
func watchConfig(ctx context.Context) {
	path, err := config.Path()
	if err != nil {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := config.Watch(ctx, path, func(cfg *config.Config) {
		logging.SetLevel(cfg.LogLevel)
	}); err != nil {
		slog.Warn("config changes will not be applied", "error", err)
	}
}
