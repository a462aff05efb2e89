package blobstore

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutAndOpen(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	ref, size, err := s.Put(context.Background(), "../../brief.pdf", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)
	assert.True(t, strings.HasPrefix(ref, "file://"))
	assert.True(t, strings.HasSuffix(ref, "-brief.pdf"))

	rc, err := s.Open(ref)
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestPut_SameNameTwice(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	a, _, err := s.Put(context.Background(), "x.txt", strings.NewReader("a"))
	require.NoError(t, err)
	b, _, err := s.Put(context.Background(), "x.txt", strings.NewReader("b"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestPut_Errors(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	_, _, err = s.Put(context.Background(), "  ", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrEmptyName)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = s.Put(ctx, "late.txt", strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpen_RejectsForeignReferences(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = s.Open("https://example.com/a.png")
	assert.Error(t, err)
	_, err = s.Open("file:///etc/passwd")
	assert.Error(t, err)
}
