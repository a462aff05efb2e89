package projection

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/studio/internal/events"
	"github.com/thenoetrevino/studio/internal/models"
	"github.com/thenoetrevino/studio/internal/realtime"
)

type counter struct{ n int }

func countingLoader(calls *atomic.Int32) Loader[*counter] {
	return func(ctx context.Context) *counter {
		return &counter{n: int(calls.Add(1))}
	}
}

func TestView_ReloadAndMutate(t *testing.T) {
	var calls atomic.Int32
	v := NewView[*counter](realtime.DashboardScope(), countingLoader(&calls))

	assert.False(t, v.Mutate(func(c *counter) { c.n = 100 }), "nothing to mutate before the first load")

	var updates int
	v.OnUpdate(func() { updates++ })

	require.True(t, v.Reload(context.Background()))
	assert.Equal(t, 1, v.Get().n)

	require.True(t, v.Mutate(func(c *counter) { c.n = 100 }))
	v.Read(func(c *counter, loaded bool) {
		assert.True(t, loaded)
		assert.Equal(t, 100, c.n)
	})

	// Reload is authoritative over local changes
	require.True(t, v.Reload(context.Background()))
	assert.Equal(t, 2, v.Get().n)
	assert.Equal(t, 3, updates)
}

func TestView_StaleReloadDiscarded(t *testing.T) {
	var calls atomic.Int32
	gate := make(chan struct{})
	v := NewView[*counter](realtime.DashboardScope(), func(ctx context.Context) *counter {
		n := int(calls.Add(1))
		if n == 1 {
			<-gate
		}
		return &counter{n: n}
	})

	firstApplied := make(chan bool)
	go func() { firstApplied <- v.Reload(context.Background()) }()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)

	require.True(t, v.Reload(context.Background()))
	close(gate)

	assert.False(t, <-firstApplied)
	assert.Equal(t, 2, v.Get().n)
}

func TestView_CloseDiscardsInFlightReload(t *testing.T) {
	gate := make(chan struct{})
	started := make(chan struct{})
	v := NewView[*counter](realtime.DashboardScope(), func(ctx context.Context) *counter {
		close(started)
		<-gate
		return &counter{n: 1}
	})

	applied := make(chan bool)
	go func() { applied <- v.Reload(context.Background()) }()
	<-started

	v.Close()
	close(gate)

	assert.False(t, <-applied)
	assert.False(t, v.Loaded())
	assert.False(t, v.Reload(context.Background()))
	v.Close()
}

func TestView_BindReloadsOnChange(t *testing.T) {
	bus := events.NewBus()
	ep := bus.Endpoint()
	defer func() { _ = ep.Close() }()
	feed := realtime.NewFeed(context.Background(), ep)
	defer feed.Close()

	var calls atomic.Int32
	v := NewView[*counter](realtime.BoardScope(1), countingLoader(&calls))
	defer v.Close()

	v.Mount(context.Background(), feed)
	assert.True(t, v.Live())
	assert.Equal(t, int32(1), calls.Load())

	require.NoError(t, bus.SendEvent(events.NewChange("tasks", events.OpUpdate, map[string]string{"id": "3", "project_id": "1"})))
	require.Eventually(t, func() bool { return calls.Load() == 2 }, 2*time.Second, 5*time.Millisecond)

	v.Close()
	assert.False(t, v.Live())
	require.NoError(t, bus.SendEvent(events.NewChange("tasks", events.OpUpdate, map[string]string{"id": "3", "project_id": "1"})))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(2), calls.Load())
}

func TestView_MountWithDegradedFeedLoadsOnce(t *testing.T) {
	feed := realtime.NewFeed(context.Background(), nil)
	defer feed.Close()

	var calls atomic.Int32
	v := NewView[*counter](realtime.BoardScope(1), countingLoader(&calls))
	defer v.Close()

	v.Mount(context.Background(), feed)

	assert.True(t, v.Loaded())
	assert.False(t, v.Live())
	assert.Equal(t, int32(1), calls.Load())
}

func TestView_RetargetFollowsNewScope(t *testing.T) {
	bus := events.NewBus()
	ep := bus.Endpoint()
	defer func() { _ = ep.Close() }()
	feed := realtime.NewFeed(context.Background(), ep)
	defer feed.Close()

	var oldCalls, newCalls atomic.Int32
	v := NewView[*counter](realtime.FolderScope(1), countingLoader(&oldCalls))
	defer v.Close()
	v.Mount(context.Background(), feed)

	v.Retarget(context.Background(), realtime.FolderScope(2), countingLoader(&newCalls))
	assert.Equal(t, realtime.FolderScope(2).Name, v.Scope().Name)
	assert.Equal(t, int32(1), newCalls.Load())

	require.NoError(t, bus.SendEvent(events.NewChange("documents", events.OpInsert, map[string]string{"id": "5", "folder_id": "1"})))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), oldCalls.Load(), "old scope no longer triggers reloads")

	require.NoError(t, bus.SendEvent(events.NewChange("documents", events.OpInsert, map[string]string{"id": "6", "folder_id": "2"})))
	require.Eventually(t, func() bool { return newCalls.Load() == 2 }, 2*time.Second, 5*time.Millisecond)
}

// fakeSource serves fixed rows to the concrete views
type fakeSource struct {
	statuses []*models.Status
	tasks    []*models.TaskSummary
	folders  []*models.Folder
	docs     []*models.Document
}

func (f *fakeSource) ListStatuses(ctx context.Context, projectID int) []*models.Status {
	return f.statuses
}

func (f *fakeSource) ListWorkItems(ctx context.Context, projectID int, filter models.TaskFilter) []*models.TaskSummary {
	out := make([]*models.TaskSummary, 0, len(f.tasks))
	for _, t := range f.tasks {
		copied := *t
		out = append(out, &copied)
	}
	return out
}

func (f *fakeSource) ListScopeFolders(ctx context.Context, scope models.Scope) []*models.Folder {
	return f.folders
}

func (f *fakeSource) ListScopeDocuments(ctx context.Context, scope models.Scope) []*models.Document {
	return f.docs
}

func (f *fakeSource) GetContainer(ctx context.Context, id int) *models.Folder {
	for _, fo := range f.folders {
		if fo.ID == id {
			return fo
		}
	}
	return nil
}

func (f *fakeSource) ListContainers(ctx context.Context, parent *int, scope models.Scope) []*models.Folder {
	var out []*models.Folder
	for _, fo := range f.folders {
		if (parent == nil && fo.ParentID == nil) || (parent != nil && fo.ParentID != nil && *fo.ParentID == *parent) {
			out = append(out, fo)
		}
	}
	return out
}

func (f *fakeSource) ListDocuments(ctx context.Context, folder *int, scope models.Scope) []*models.Document {
	var out []*models.Document
	for _, d := range f.docs {
		if (folder == nil && d.FolderID == nil) || (folder != nil && d.FolderID != nil && *d.FolderID == *folder) {
			out = append(out, d)
		}
	}
	return out
}

func TestConcreteViews(t *testing.T) {
	src := &fakeSource{
		statuses: testStatuses(),
		tasks:    []*models.TaskSummary{card(1, 1), card(2, 3)},
		folders:  []*models.Folder{folder(1, nil, "Specs"), folder(2, intPtr(1), "Drafts")},
		docs:     []*models.Document{{ID: 7, FolderID: intPtr(1), Title: "Brief"}},
	}
	ctx := context.Background()

	board := NewBoardView(src, 1, models.TaskFilter{})
	require.True(t, board.Reload(ctx))
	assert.Equal(t, 2, board.Get().Len())
	assert.Equal(t, 1, board.Get().ProjectID)

	tree := NewTreeView(src, models.GlobalScope)
	require.True(t, tree.Reload(ctx))
	assert.Equal(t, 2, tree.Get().Len())
	assert.Len(t, tree.Get().Find(1).Documents, 1)

	listing := NewFolderView(src, intPtr(1), models.GlobalScope)
	require.True(t, listing.Reload(ctx))
	assert.Equal(t, "Specs", listing.Get().Folder.Name)
	assert.Equal(t, 2, listing.Get().Len())

	OpenFolder(ctx, listing, src, nil, models.GlobalScope)
	assert.Nil(t, listing.Get().Folder)
	assert.Equal(t, 1, listing.Get().Len())
	assert.Equal(t, "tree:global", listing.Scope().Name)
}
