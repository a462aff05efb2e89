package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/studio/internal/events"
	"github.com/thenoetrevino/studio/internal/models"
	"github.com/thenoetrevino/studio/internal/revalidate"
	"github.com/thenoetrevino/studio/internal/testutil"
)

func TestCreateContainer_KeysAndPaths(t *testing.T) {
	t.Parallel()
	h := setupGateway(t)
	ctx := context.Background()
	scope := models.ClientScope(3)

	root, err := h.gw.CreateContainer(ctx, nil, scope, "Briefs")
	require.NoError(t, err)
	h.pub.Reset()
	h.warm(revalidate.TreePath(scope), revalidate.FolderPath(root.ID))

	child, err := h.gw.CreateContainer(ctx, &root.ID, scope, "2026")
	require.NoError(t, err)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, root.ID, *child.ParentID)

	evs := h.pub.Events()
	require.Len(t, evs, 1)
	assert.Equal(t, "folders", evs[0].Table)
	assert.Equal(t, events.ID(root.ID), evs[0].Key("parent_id"))
	assert.Equal(t, scope.Key(), evs[0].Key("scope"))
	assert.False(t, h.cached(revalidate.TreePath(scope)))
	assert.False(t, h.cached(revalidate.FolderPath(root.ID)), "parent listing must be invalidated")
}

func TestCreateContainer_Errors(t *testing.T) {
	t.Parallel()
	h := setupGateway(t)
	ctx := context.Background()

	other := testutil.CreateTestFolder(t, h.repo, models.ProjectScope(1), nil, "Elsewhere")

	_, err := h.gw.CreateContainer(ctx, &other.ID, models.GlobalScope, "Cross")
	assert.True(t, IsCode(err, CodeInvalid), "parent in another scope")

	_, err = h.gw.CreateContainer(ctx, testutil.IntPtr(404), models.GlobalScope, "Lost")
	assert.True(t, IsCode(err, CodeNotFound))

	_, err = h.gw.CreateContainer(ctx, nil, models.GlobalScope, "")
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestRenameAndDeleteContainer(t *testing.T) {
	t.Parallel()
	h := setupGateway(t)
	ctx := context.Background()

	root := testutil.CreateTestFolder(t, h.repo, models.GlobalScope, nil, "Ops")
	child := testutil.CreateTestFolder(t, h.repo, models.GlobalScope, &root.ID, "Runbooks")

	require.NoError(t, h.gw.RenameContainer(ctx, child.ID, "Playbooks"))
	assert.Equal(t, "Playbooks", h.gw.GetContainer(ctx, child.ID).Name)

	require.NoError(t, h.gw.DeleteContainer(ctx, root.ID))
	assert.Nil(t, h.gw.GetContainer(ctx, child.ID), "subfolders go with their parent")
	assert.Empty(t, h.gw.ListScopeFolders(ctx, models.GlobalScope))

	assert.True(t, IsCode(h.gw.RenameContainer(ctx, root.ID, "Gone"), CodeNotFound))
}

func TestDeleteContainer_NotifiesEveryDescendant(t *testing.T) {
	t.Parallel()
	h := setupGateway(t)
	ctx := context.Background()
	scope := models.ClientScope(2)

	root := testutil.CreateTestFolder(t, h.repo, scope, nil, "Brand")
	child := testutil.CreateTestFolder(t, h.repo, scope, &root.ID, "Logos")
	grandchild := testutil.CreateTestFolder(t, h.repo, scope, &child.ID, "Drafts")
	doc, err := h.repo.CreateDocument(ctx, &models.Document{FolderID: &grandchild.ID, Title: "Notes"})
	require.NoError(t, err)
	sibling := testutil.CreateTestFolder(t, h.repo, scope, nil, "Untouched")

	h.pub.Reset()
	h.warm(revalidate.FolderPath(child.ID), revalidate.DocumentPath(doc.ID), revalidate.FolderPath(sibling.ID))

	require.NoError(t, h.gw.DeleteContainer(ctx, root.ID))

	deleted := map[string][]string{}
	for _, ev := range h.pub.Events() {
		assert.Equal(t, events.OpDelete, ev.Op)
		deleted[ev.Table] = append(deleted[ev.Table], ev.Key("id"))
	}
	assert.ElementsMatch(t, []string{events.ID(root.ID), events.ID(child.ID), events.ID(grandchild.ID)}, deleted["folders"])
	assert.Equal(t, []string{events.ID(doc.ID)}, deleted["documents"])

	assert.False(t, h.cached(revalidate.FolderPath(child.ID)))
	assert.False(t, h.cached(revalidate.DocumentPath(doc.ID)))
	assert.True(t, h.cached(revalidate.FolderPath(sibling.ID)))
}

func TestDocuments(t *testing.T) {
	t.Parallel()
	h := setupGateway(t)
	ctx := context.Background()
	scope := models.ProjectScope(7)
	folder := testutil.CreateTestFolder(t, h.repo, scope, nil, "Specs")

	doc, err := h.gw.CreateDocument(ctx, &models.Document{FolderID: &folder.ID, Title: "Kickoff", Content: "# Agenda"})
	require.NoError(t, err)
	assert.Equal(t, scope, doc.Scope, "document takes its folder's scope")

	h.warm(revalidate.DocumentPath(doc.ID), revalidate.FolderPath(folder.ID))
	content := "# Agenda\n\n- intro"
	updated, err := h.gw.UpdateDocument(ctx, doc.ID, DocumentUpdate{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, content, updated.Content)
	assert.Equal(t, "Kickoff", updated.Title)
	assert.False(t, h.cached(revalidate.DocumentPath(doc.ID)))
	assert.False(t, h.cached(revalidate.FolderPath(folder.ID)))

	_, err = h.gw.UpdateDocument(ctx, doc.ID, DocumentUpdate{})
	assert.ErrorIs(t, err, ErrEmptyUpdate)

	assert.Len(t, h.gw.ListDocuments(ctx, &folder.ID, scope), 1)
	require.NoError(t, h.gw.DeleteDocument(ctx, doc.ID))
	assert.Nil(t, h.gw.GetDocument(ctx, doc.ID))
	assert.True(t, IsCode(h.gw.DeleteDocument(ctx, doc.ID), CodeNotFound))
}
