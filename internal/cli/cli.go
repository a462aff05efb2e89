// Package cli holds the plumbing shared by the studio commands: the application
// container, output formatting and exit codes.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/thenoetrevino/studio/internal/app"
	"github.com/thenoetrevino/studio/internal/cli/styles"
	"github.com/thenoetrevino/studio/internal/config"
	"github.com/thenoetrevino/studio/internal/logging"
)

// CLI represents the CLI application context
type CLI struct {
	App    *app.App
	Config *config.Config

	owned     bool
	logCloser io.Closer
}

// NewCLI loads the config, starts file logging and opens the application. A daemon
// that is not running only means views are refreshed by this process alone.
func NewCLI(ctx context.Context) (*CLI, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	c := &CLI{Config: cfg, owned: true}
	if closer, err := logging.Init(logging.Options{Path: cfg.LogPath, Level: cfg.LogLevel}); err == nil {
		c.logCloser = closer
	}
	styles.Init(cfg.ColorScheme)

	c.App, err = app.Open(ctx, cfg)
	if err != nil {
		c.closeLog()
		return nil, fmt.Errorf("failed to open workspace: %w", err)
	}
	slog.Debug("cli started", "db", cfg.DatabasePath, "live", c.App.Live())
	return c, nil
}

// Close releases the application if this CLI opened it
func (c *CLI) Close() error {
	defer c.closeLog()
	if !c.owned || c.App == nil {
		return nil
	}
	return c.App.Close()
}

func (c *CLI) closeLog() {
	if c.logCloser != nil {
		_ = c.logCloser.Close()
		c.logCloser = nil
	}
}
