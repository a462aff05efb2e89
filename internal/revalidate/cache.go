// Package revalidate keeps rendered responses keyed by request path and drops them
// when a write touches the data behind the path.
package revalidate

import (
	"strconv"
	"sync"
	"time"

	"github.com/thenoetrevino/studio/internal/models"
)

// Paths of cached renderings
func BoardPath(projectID int) string     { return "/projects/" + strconv.Itoa(projectID) + "/board" }
func TaskPath(taskID int) string         { return "/tasks/" + strconv.Itoa(taskID) }
func TreePath(scope models.Scope) string { return "/scopes/" + scope.Key() + "/tree" }
func FolderPath(folderID int) string     { return "/folders/" + strconv.Itoa(folderID) }
func DocumentPath(docID int) string      { return "/documents/" + strconv.Itoa(docID) }

// DocumentHTMLPath is the rendered HTML variant of a document
func DocumentHTMLPath(docID int) string { return DocumentPath(docID) + "?format=html" }

const (
	DashboardPath = "/dashboard"
	ContractsPath = "/contracts"
)

type entry struct {
	body     []byte
	storedAt time.Time
}

// Stats counts cache activity
type Stats struct {
	Entries       int   `json:"entries"`
	Hits          int64 `json:"hits"`
	Misses        int64 `json:"misses"`
	Invalidations int64 `json:"invalidations"`
}

// Cache is a path-keyed store of rendered bodies. Entries live until invalidated or,
// when maxAge is set, until they are older than maxAge.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	maxAge  time.Duration
	stats   Stats
	now     func() time.Time
}

// New creates an empty cache. maxAge 0 keeps entries until invalidated.
func New(maxAge time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		maxAge:  maxAge,
		now:     time.Now,
	}
}

// Get returns the cached body of path
func (c *Cache) Get(path string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[path]
	if ok && c.maxAge > 0 && c.now().Sub(e.storedAt) > c.maxAge {
		delete(c.entries, path)
		ok = false
	}
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	c.stats.Hits++
	return e.body, true
}

// Put stores the rendered body of path
func (c *Cache) Put(path string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = entry{body: body, storedAt: c.now()}
}

// Invalidate drops the given paths. Unknown paths are ignored.
func (c *Cache) Invalidate(paths ...string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range paths {
		if _, ok := c.entries[p]; ok {
			delete(c.entries, p)
			c.stats.Invalidations++
		}
	}
}

// Stats returns a snapshot of the counters
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Entries = len(c.entries)
	return s
}
