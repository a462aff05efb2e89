package gateway

import (
	"context"
	"strings"

	"github.com/thenoetrevino/studio/internal/events"
	"github.com/thenoetrevino/studio/internal/models"
	"github.com/thenoetrevino/studio/internal/revalidate"
)

func folderPaths(f *models.Folder) []string {
	paths := []string{revalidate.TreePath(f.Scope), revalidate.FolderPath(f.ID)}
	if f.ParentID != nil {
		paths = append(paths, revalidate.FolderPath(*f.ParentID))
	}
	return paths
}

func (g *Gateway) folderChanged(op events.Op, f *models.Folder) {
	g.changed(
		[]events.Event{events.NewChange("folders", op, keys("id", f.ID, "parent_id", f.ParentID, "scope", f.Scope.Key()))},
		folderPaths(f)...,
	)
}

func (g *Gateway) documentChanged(op events.Op, d *models.Document) {
	paths := []string{revalidate.TreePath(d.Scope), revalidate.DocumentPath(d.ID), revalidate.DocumentHTMLPath(d.ID)}
	if d.FolderID != nil {
		paths = append(paths, revalidate.FolderPath(*d.FolderID))
	}
	g.changed(
		[]events.Event{events.NewChange("documents", op, keys("id", d.ID, "folder_id", d.FolderID, "scope", d.Scope.Key()))},
		paths...,
	)
}

// CreateContainer adds a folder under parent (the scope root when nil). The parent
// must live in the same scope.
func (g *Gateway) CreateContainer(ctx context.Context, parent *int, scope models.Scope, name string) (*models.Folder, error) {
	const op = "create container"
	name, err := validateName(name)
	if err != nil {
		return nil, g.fail(op, err, "")
	}
	if err := scope.Validate(); err != nil {
		return nil, g.fail(op, err, "")
	}

	f, err := g.store.CreateFolder(ctx, scope, parent, name)
	if err != nil {
		return nil, g.fail(op, err, "parent folder does not exist")
	}

	g.folderChanged(events.OpInsert, f)
	return f, nil
}

// RenameContainer changes a folder name
func (g *Gateway) RenameContainer(ctx context.Context, id int, name string) error {
	const op = "rename container"
	name, err := validateName(name)
	if err != nil {
		return g.fail(op, err, "")
	}
	f, err := g.folderRef(ctx, op, id)
	if err != nil {
		return err
	}

	if err := g.store.RenameFolder(ctx, id, name); err != nil {
		return g.fail(op, err, "")
	}

	f.Name = name
	g.folderChanged(events.OpUpdate, f)
	return nil
}

// DeleteContainer removes a folder. Subfolders and documents go with it and each
// one gets its own delete notification, so views open on any of them reload.
func (g *Gateway) DeleteContainer(ctx context.Context, id int) error {
	const op = "delete container"
	f, err := g.folderRef(ctx, op, id)
	if err != nil {
		return err
	}
	folders, docs, err := g.store.ListFolderSubtree(ctx, id)
	if err != nil {
		return g.fail(op, err, "")
	}

	if err := g.store.DeleteFolder(ctx, id); err != nil {
		return g.fail(op, err, "")
	}

	g.folderChanged(events.OpDelete, f)
	for _, sub := range folders {
		g.folderChanged(events.OpDelete, sub)
	}
	for _, d := range docs {
		g.documentChanged(events.OpDelete, d)
	}
	return nil
}

func (g *Gateway) folderRef(ctx context.Context, op string, id int) (*models.Folder, error) {
	if err := validateIDs(id); err != nil {
		return nil, g.fail(op, err, "")
	}
	f, err := g.store.GetFolderByID(ctx, id)
	if err != nil {
		return nil, g.fail(op, err, "")
	}
	return f, nil
}

// CreateDocument adds a document. A document in a folder takes the folder's scope.
func (g *Gateway) CreateDocument(ctx context.Context, in *models.Document) (*models.Document, error) {
	const op = "create document"
	title, err := validateTitle(in.Title)
	if err != nil {
		return nil, g.fail(op, err, "")
	}
	if in.FolderID == nil {
		if err := in.Scope.Validate(); err != nil {
			return nil, g.fail(op, err, "")
		}
	}

	d := *in
	d.Title = title
	created, err := g.store.CreateDocument(ctx, &d)
	if err != nil {
		return nil, g.fail(op, err, "folder does not exist")
	}

	g.documentChanged(events.OpInsert, created)
	return created, nil
}

// UpdateDocument changes a document's title and/or content
func (g *Gateway) UpdateDocument(ctx context.Context, id int, upd DocumentUpdate) (*models.Document, error) {
	const op = "update document"
	if upd.Title == nil && upd.Content == nil {
		return nil, g.fail(op, ErrEmptyUpdate, "")
	}
	if upd.Title != nil {
		title, err := validateTitle(*upd.Title)
		if err != nil {
			return nil, g.fail(op, err, "")
		}
		upd.Title = &title
	}
	if err := validateIDs(id); err != nil {
		return nil, g.fail(op, err, "")
	}

	if err := g.store.UpdateDocument(ctx, id, upd); err != nil {
		return nil, g.fail(op, err, "")
	}
	d, err := g.store.GetDocument(ctx, id)
	if err != nil {
		return nil, g.fail(op, err, "")
	}

	g.documentChanged(events.OpUpdate, d)
	return d, nil
}

// DeleteDocument removes a document
func (g *Gateway) DeleteDocument(ctx context.Context, id int) error {
	const op = "delete document"
	if err := validateIDs(id); err != nil {
		return g.fail(op, err, "")
	}
	d, err := g.store.GetDocument(ctx, id)
	if err != nil {
		return g.fail(op, err, "")
	}

	if err := g.store.DeleteDocument(ctx, id); err != nil {
		return g.fail(op, err, "")
	}

	g.documentChanged(events.OpDelete, d)
	return nil
}

// trimmed returns a pointer to the trimmed string, or nil for nil
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
