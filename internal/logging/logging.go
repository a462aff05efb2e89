// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the global slog instance for the application
var Logger *slog.Logger

// level is shared by every handler Init creates so it can change at runtime
var level slog.LevelVar

// SetLevel changes the minimum level of the application logger
func SetLevel(s string) {
	level.Set(ParseLevel(s))
}

// Options controls where logs go and which records are kept
type Options struct {
	Path       string
	Level      string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// ParseLevel maps a config string onto a slog level; unknown values mean info
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Writer returns a rotating file writer for path
func Writer(opts Options) io.WriteCloser {
	if opts.MaxSizeMB == 0 {
		opts.MaxSizeMB = 10
	}
	if opts.MaxBackups == 0 {
		opts.MaxBackups = 3
	}
	if opts.MaxAgeDays == 0 {
		opts.MaxAgeDays = 28
	}
	return &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   true,
	}
}

// Init initializes the logging system, writing text records to a rotating log file.
// The returned closer flushes and closes the file.
func Init(opts Options) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return nil, err
	}

	w := Writer(opts)

	// Create text handler (human readable)
	level.Set(ParseLevel(opts.Level))
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: &level,
	})

	Logger = slog.New(handler)
	slog.SetDefault(Logger)

	// Redirect standard log package output (used by the store and daemon) to the same file
	log.SetOutput(w)
	log.SetFlags(log.LstdFlags)

	return w, nil
}
