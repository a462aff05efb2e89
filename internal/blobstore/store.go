// Package blobstore keeps attachment bytes in a local directory and hands back a
// durable reference for the database.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrEmptyName is returned when an upload has no file name
var ErrEmptyName = errors.New("blob name cannot be empty")

// Store is a directory of uploaded files
type Store struct {
	dir string
}

// New creates the store directory if needed
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory %s: %w", dir, err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	return &Store{dir: abs}, nil
}

// Dir returns the absolute directory of the store
func (s *Store) Dir() string { return s.dir }

// Put copies r into a new object named after name and returns its file:// URL and
// size. Each upload gets a unique key, so uploading the same name twice keeps both.
func (s *Store) Put(ctx context.Context, name string, r io.Reader) (string, int64, error) {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "", 0, ErrEmptyName
	}

	key := uuid.NewString() + "-" + base
	path := filepath.Join(s.dir, key)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create blob: %w", err)
	}

	size, err := io.Copy(f, readerWithContext(ctx, r))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("failed to write blob: %w", err)
	}

	return (&url.URL{Scheme: "file", Path: path}).String(), size, nil
}

// Open returns the content behind a URL returned by Put
func (s *Store) Open(ref string) (io.ReadCloser, error) {
	u, err := url.Parse(ref)
	if err != nil || u.Scheme != "file" {
		return nil, fmt.Errorf("not a blob reference: %s", ref)
	}
	path := filepath.Clean(u.Path)
	if filepath.Dir(path) != s.dir {
		return nil, fmt.Errorf("blob %s is outside the store", ref)
	}
	return os.Open(path)
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return ctxReader{ctx: ctx, r: r}
}
