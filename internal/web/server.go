// Package web serves the workspace projections over HTTP. Responses are cached by
// path and dropped when a write or a change notification touches their data; /ws
// streams change notifications to browsers.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/thenoetrevino/studio/internal/events"
	"github.com/thenoetrevino/studio/internal/models"
	"github.com/thenoetrevino/studio/internal/projection"
	"github.com/thenoetrevino/studio/internal/realtime"
	"github.com/thenoetrevino/studio/internal/revalidate"
)

const shutdownTimeout = 5 * time.Second

// Reader is everything the server renders from
type Reader interface {
	projection.BoardSource
	projection.TreeSource
	projection.ListingSource
	projection.TaskSource
	projection.DocumentSource
	projection.DashboardSource
	ListContracts(ctx context.Context, filter models.ContractFilter) []*models.Contract
}

// Server is the HTTP front of the workspace
type Server struct {
	addr    string
	reader  Reader
	cache   *revalidate.Cache
	feed    *realtime.Feed
	logger  *slog.Logger
	origins []string

	mu sync.Mutex
	ln net.Listener
}

// Option configures a Server
type Option func(*Server)

// WithCache sets the render cache; the gateway should invalidate the same cache
func WithCache(c *revalidate.Cache) Option {
	return func(s *Server) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithFeed enables /ws and cache invalidation from change notifications
func WithFeed(f *realtime.Feed) Option {
	return func(s *Server) { s.feed = f }
}

// WithLogger sets the request and error logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithOriginPatterns sets the origins allowed to open /ws from another host
func WithOriginPatterns(patterns ...string) Option {
	return func(s *Server) { s.origins = patterns }
}

// NewServer creates a server that will listen on addr
func NewServer(addr string, reader Reader, opts ...Option) *Server {
	s := &Server{
		addr:   addr,
		reader: reader,
		cache:  revalidate.New(0),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /dashboard", s.handleDashboard)
	mux.HandleFunc("GET /contracts", s.handleContracts)
	mux.HandleFunc("GET /projects/{id}/board", s.handleBoard)
	mux.HandleFunc("GET /tasks/{id}", s.handleTask)
	mux.HandleFunc("GET /scopes/{scope}/tree", s.handleTree)
	mux.HandleFunc("GET /folders/{id}", s.handleFolder)
	mux.HandleFunc("GET /documents/{id}", s.handleDocument)
	mux.HandleFunc("GET /ws", s.handleWS)
	return s.logRequests(mux)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

// Addr returns the address the server listens on, once started
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.addr
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	if s.feed != nil {
		sub := s.feed.Watch(realtime.Scope{
			Name:    "web cache",
			Filters: []events.Filter{{Table: events.AnyTable}},
		}, func(e events.Event) {
			s.cache.Invalidate(revalidate.PathsFor(e)...)
		})
		defer sub.Release()
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("web server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web server shutdown: %w", err)
	}
	s.logger.Info("web server stopped")
	return nil
}
