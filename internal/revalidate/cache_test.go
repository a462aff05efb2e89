package revalidate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/studio/internal/models"
)

func TestPaths(t *testing.T) {
	assert.Equal(t, "/projects/3/board", BoardPath(3))
	assert.Equal(t, "/tasks/9", TaskPath(9))
	assert.Equal(t, "/scopes/client:2/tree", TreePath(models.ClientScope(2)))
	assert.Equal(t, "/folders/4", FolderPath(4))
	assert.Equal(t, "/documents/5", DocumentPath(5))
}

func TestCache_PutGetInvalidate(t *testing.T) {
	c := New(0)

	_, ok := c.Get(DashboardPath)
	assert.False(t, ok)

	c.Put(DashboardPath, []byte(`{"open_tasks":1}`))
	c.Put(BoardPath(1), []byte(`[]`))

	body, ok := c.Get(DashboardPath)
	require.True(t, ok)
	assert.JSONEq(t, `{"open_tasks":1}`, string(body))

	c.Invalidate(DashboardPath, "/never/cached")
	_, ok = c.Get(DashboardPath)
	assert.False(t, ok)

	stats := c.Stats()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(2), stats.Misses)
	assert.Equal(t, int64(1), stats.Invalidations)
}

func TestCache_MaxAge(t *testing.T) {
	c := New(time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Put(ContractsPath, []byte("x"))
	_, ok := c.Get(ContractsPath)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get(ContractsPath)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Stats().Entries)
}

func TestCache_NilInvalidate(t *testing.T) {
	var c *Cache
	assert.NotPanics(t, func() { c.Invalidate(DashboardPath) })
}
