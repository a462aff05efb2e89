package app

import (
	"log/slog"

	"github.com/thenoetrevino/studio/internal/events"
	"github.com/thenoetrevino/studio/internal/gateway"
	"github.com/thenoetrevino/studio/internal/revalidate"
)

// Source is a change stream that writes publish to and views subscribe on
type Source interface {
	events.Publisher
	events.Subscriber
}

// Option is a functional option for configuring App initialization
type Option func(*appConfig)

// appConfig holds the configuration for App initialization
type appConfig struct {
	source Source
	blobs  gateway.BlobStore
	cache  *revalidate.Cache
	logger *slog.Logger
}

// WithSource sets the change stream (a daemon client or a bus endpoint). The caller
// keeps ownership of it.
func WithSource(src Source) Option {
	return func(cfg *appConfig) {
		cfg.source = src
	}
}

// WithBlobStore sets where attachment uploads are stored
func WithBlobStore(b gateway.BlobStore) Option {
	return func(cfg *appConfig) {
		cfg.blobs = b
	}
}

// WithCache shares a render cache with the App
func WithCache(c *revalidate.Cache) Option {
	return func(cfg *appConfig) {
		cfg.cache = c
	}
}

// WithLogger sets the logger for the application
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *appConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}
