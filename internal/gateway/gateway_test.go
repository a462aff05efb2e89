package gateway

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/studio/internal/database"
	"github.com/thenoetrevino/studio/internal/models"
	"github.com/thenoetrevino/studio/internal/revalidate"
	"github.com/thenoetrevino/studio/internal/testutil"
)

type harness struct {
	gw    *Gateway
	repo  *database.Repository
	pub   *testutil.RecordingPublisher
	cache *revalidate.Cache
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupGateway(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		repo:  testutil.SetupTestRepo(t),
		pub:   &testutil.RecordingPublisher{},
		cache: revalidate.New(time.Minute),
	}
	opts = append([]Option{WithPublisher(h.pub), WithRevalidator(h.cache), WithLogger(quietLogger())}, opts...)
	h.gw = New(h.repo, opts...)
	return h
}

// warm puts a rendering in the cache so a test can observe its invalidation
func (h *harness) warm(paths ...string) {
	for _, p := range paths {
		h.cache.Put(p, []byte("cached"))
	}
}

func (h *harness) cached(path string) bool {
	_, ok := h.cache.Get(path)
	return ok
}

func TestReads_FailureYieldsEmpty(t *testing.T) {
	t.Parallel()
	db := testutil.SetupTestDB(t)
	gw := New(database.NewRepository(db), WithLogger(quietLogger()))
	require.NoError(t, db.Close())
	ctx := context.Background()

	projects := gw.ListProjects(ctx, models.ProjectFilter{})
	assert.NotNil(t, projects)
	assert.Empty(t, projects)

	assert.Empty(t, gw.ListStatuses(ctx, 1))
	assert.NotNil(t, gw.ListWorkItems(ctx, 1, models.TaskFilter{}))
	assert.NotNil(t, gw.ListScopeFolders(ctx, models.GlobalScope))
	assert.NotNil(t, gw.ListDocuments(ctx, nil, models.GlobalScope))
	assert.Nil(t, gw.GetProject(ctx, 1))
	assert.Nil(t, gw.GetTaskDetail(ctx, 1))
	assert.Nil(t, gw.Dashboard(ctx))
}

func TestReads_MissingRowIsNil(t *testing.T) {
	t.Parallel()
	h := setupGateway(t)
	ctx := context.Background()

	assert.Nil(t, h.gw.GetProject(ctx, 999))
	assert.Nil(t, h.gw.GetContainer(ctx, 999))
	assert.Nil(t, h.gw.GetDocument(ctx, 999))
	assert.Nil(t, h.gw.GetWorkItem(ctx, 999))
}

func TestReads_EmptyListsAreNotNil(t *testing.T) {
	t.Parallel()
	h := setupGateway(t)
	ctx := context.Background()

	assert.NotNil(t, h.gw.ListClients(ctx))
	assert.NotNil(t, h.gw.ListUsers(ctx))
	assert.NotNil(t, h.gw.ListTags(ctx))
	assert.NotNil(t, h.gw.ListContracts(ctx, models.ContractFilter{}))
}

func TestCreateProject_PublishesAndReturnsRecord(t *testing.T) {
	t.Parallel()
	h := setupGateway(t)
	ctx := context.Background()

	p, err := h.gw.CreateProject(ctx, &models.Project{Name: "  Rebrand  "})
	require.NoError(t, err)
	assert.Equal(t, "Rebrand", p.Name)
	assert.NotZero(t, p.ID)

	assert.Len(t, h.gw.ListStatuses(ctx, p.ID), len(models.DefaultStatuses))
	assert.Contains(t, h.pub.Tables(), "projects")
}

func TestWrite_PublishFailureDoesNotFailWrite(t *testing.T) {
	t.Parallel()
	h := setupGateway(t)
	h.pub.Fail = true

	c, err := h.gw.CreateClient(context.Background(), "Acme", "ops@acme.test")
	require.NoError(t, err)
	assert.Equal(t, "Acme", c.Name)
	assert.Empty(t, h.pub.Events())
}

func TestWrite_ValidationIsInvalid(t *testing.T) {
	t.Parallel()
	h := setupGateway(t)
	ctx := context.Background()

	_, err := h.gw.CreateClient(ctx, "   ", "")
	assert.True(t, IsCode(err, CodeInvalid))
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = h.gw.CreateWorkItem(ctx, &models.Task{ProjectID: 1, Title: ""})
	assert.True(t, IsCode(err, CodeInvalid))

	_, err = h.gw.CreateWorkItem(ctx, &models.Task{ProjectID: 1, Title: "x", Priority: "urgent-ish"})
	assert.ErrorIs(t, err, ErrInvalidPrio)

	_, err = h.gw.CreateContainer(ctx, nil, models.Scope{Kind: "team", RefID: 1}, "Docs")
	assert.True(t, IsCode(err, CodeInvalid))

	assert.Empty(t, h.pub.Events(), "rejected writes must not publish")
}

func TestCreateContract_Months(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 17, 10, 0, 0, 0, time.UTC)
	h := setupGateway(t, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	client, err := h.gw.CreateClient(ctx, "Acme", "")
	require.NoError(t, err)

	in := &models.Contract{ClientID: client.ID, Title: "Retainer"}
	c, err := h.gw.CreateContract(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), c.StartMonth.UTC())
	assert.True(t, in.StartMonth.IsZero(), "input must not be modified")

	end := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)
	_, err = h.gw.CreateContract(ctx, &models.Contract{ClientID: client.ID, Title: "Backwards", EndMonth: &end})
	assert.ErrorIs(t, err, ErrInvalidMonthRange)
	assert.True(t, IsCode(err, CodeInvalid))

	_, err = h.gw.CreateContract(ctx, &models.Contract{ClientID: 4242, Title: "Orphan"})
	assert.True(t, IsCode(err, CodeConflict))
}
