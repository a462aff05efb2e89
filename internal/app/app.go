// Package app wires the store, gateway, realtime feed and dispatcher into the
// container every entry point (CLI, web server) works against.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/thenoetrevino/studio/internal/blobstore"
	"github.com/thenoetrevino/studio/internal/config"
	"github.com/thenoetrevino/studio/internal/database"
	"github.com/thenoetrevino/studio/internal/dispatch"
	"github.com/thenoetrevino/studio/internal/events"
	"github.com/thenoetrevino/studio/internal/gateway"
	"github.com/thenoetrevino/studio/internal/models"
	"github.com/thenoetrevino/studio/internal/projection"
	"github.com/thenoetrevino/studio/internal/realtime"
	"github.com/thenoetrevino/studio/internal/revalidate"
	"github.com/thenoetrevino/studio/internal/web"
)

// App holds the wired application components
type App struct {
	Repo       *database.Repository
	Gateway    *gateway.Gateway
	Cache      *revalidate.Cache
	Feed       *realtime.Feed
	Dispatcher *dispatch.Dispatcher

	logger  *slog.Logger
	closers []func() error
}

// New builds an App over an open database. Without a change source an in-process
// bus is used, so local writes still refresh local views.
func New(ctx context.Context, db *sql.DB, opts ...Option) *App {
	cfg := &appConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}

	a := &App{
		Repo:   database.NewRepository(db),
		Cache:  cfg.cache,
		logger: cfg.logger,
	}
	if a.Cache == nil {
		a.Cache = revalidate.New(0)
	}

	source := cfg.source
	if source == nil {
		bus := events.NewBus()
		ep := bus.Endpoint()
		a.closers = append(a.closers, func() error {
			if n := bus.Dropped(); n > 0 {
				a.logger.Debug("local change notifications dropped", "count", n)
			}
			return ep.Close()
		})
		source = ep
	}

	gwOpts := []gateway.Option{
		gateway.WithPublisher(source),
		gateway.WithRevalidator(a.Cache),
		gateway.WithLogger(cfg.logger),
	}
	if cfg.blobs != nil {
		gwOpts = append(gwOpts, gateway.WithBlobStore(cfg.blobs))
	}
	a.Gateway = gateway.New(a.Repo, gwOpts...)

	a.Feed = realtime.NewFeed(ctx, source, realtime.WithLogger(cfg.logger))
	a.closers = append(a.closers, func() error {
		a.Feed.Close()
		return nil
	})

	a.Dispatcher = dispatch.New(a.Gateway, dispatch.WithLogger(cfg.logger))
	return a
}

// Open builds the production App from cfg: the database file, the blob directory and,
// unless disabled, a daemon connection. A daemon that is not running is not an error;
// the App falls back to in-process notifications.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	db, err := database.InitDB(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	blobs, err := blobstore.New(cfg.BlobDir)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	base := []Option{WithBlobStore(blobs)}
	var client *events.Client
	if !cfg.DisableLive {
		client = connectDaemon(ctx, cfg.SocketPath)
		if client != nil {
			base = append(base, WithSource(client))
		}
	}

	a := New(ctx, db, append(base, opts...)...)
	if client != nil {
		a.closers = append(a.closers, client.Close)
	}
	a.closers = append(a.closers, db.Close)
	return a, nil
}

// connectDaemon returns a connected client or nil when the daemon is unreachable
func connectDaemon(ctx context.Context, socketPath string) *events.Client {
	client, err := events.NewClient(socketPath)
	if err != nil {
		slog.Debug("daemon client unavailable", "error", err)
		return nil
	}
	client.SetNotifyFunc(func(level, message string) {
		slog.Debug("daemon", "level", level, "message", message)
	})
	if err := client.Connect(ctx); err != nil {
		de := events.ClassifyDaemonError(err)
		slog.Debug("daemon unreachable, using local notifications",
			"socket_path", socketPath, "reason", de.Message, "hint", de.Hint, "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// Live reports whether the App receives change notifications
func (a *App) Live() bool {
	return a.Feed.Live()
}

// BoardView loads the board of projectID and keeps it live
func (a *App) BoardView(ctx context.Context, projectID int, filter models.TaskFilter) dispatch.BoardView {
	v := projection.NewBoardView(a.Gateway, projectID, filter)
	v.Mount(ctx, a.Feed)
	return v
}

// TaskView loads the aggregate of taskID and keeps it live
func (a *App) TaskView(ctx context.Context, taskID int) dispatch.TaskView {
	v := projection.NewTaskView(a.Gateway, taskID)
	v.Mount(ctx, a.Feed)
	return v
}

// TreeView loads the folder tree of scope and keeps it live
func (a *App) TreeView(ctx context.Context, scope models.Scope) *projection.View[*projection.Tree] {
	v := projection.NewTreeView(a.Gateway, scope)
	v.Mount(ctx, a.Feed)
	return v
}

// FolderView loads one level of a folder tree (the scope root when parent is nil)
// and keeps it live
func (a *App) FolderView(ctx context.Context, parent *int, scope models.Scope) *projection.View[*projection.Listing] {
	v := projection.NewFolderView(a.Gateway, parent, scope)
	v.Mount(ctx, a.Feed)
	return v
}

// DocumentView loads a document and keeps it live
func (a *App) DocumentView(ctx context.Context, id int) *projection.View[*models.Document] {
	v := projection.NewDocumentView(a.Gateway, id)
	v.Mount(ctx, a.Feed)
	return v
}

// DashboardView loads the workspace overview and keeps it live
func (a *App) DashboardView(ctx context.Context) *projection.View[*models.Dashboard] {
	v := projection.NewDashboardView(a.Gateway)
	v.Mount(ctx, a.Feed)
	return v
}

// WebServer returns the read-only HTTP server sharing the App's cache and feed
func (a *App) WebServer(addr string, opts ...web.Option) *web.Server {
	base := []web.Option{web.WithCache(a.Cache), web.WithFeed(a.Feed), web.WithLogger(a.logger)}
	return web.NewServer(addr, a.Gateway, append(base, opts...)...)
}

// Close releases everything the App created, in reverse order
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
