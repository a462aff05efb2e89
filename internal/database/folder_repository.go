package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/thenoetrevino/studio/internal/models"
)

// FolderRepo handles folder trees and the documents stored in them.
type FolderRepo struct {
	db *sql.DB
}

const folderColumns = `id, parent_id, scope_kind, scope_id, name, created_at`

func scanFolder(row interface{ Scan(...any) error }) (*models.Folder, error) {
	f := &models.Folder{}
	var (
		parent sql.NullInt64
		kind   string
		ref    int
	)
	if err := row.Scan(&f.ID, &parent, &kind, &ref, &f.Name, &f.CreatedAt); err != nil {
		return nil, err
	}
	f.ParentID = nullInt64ToPtr(parent)
	f.Scope = scopeFrom(kind, ref)
	return f, nil
}

// CreateFolder creates a folder under parentID (nil for a root folder). The parent
// must live in the same scope.
func (r *FolderRepo) CreateFolder(ctx context.Context, scope models.Scope, parentID *int, name string) (*models.Folder, error) {
	kind, ref := scopeArgs(scope)
	if parentID != nil {
		parent, err := r.GetFolderByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if pk, pr := scopeArgs(parent.Scope); pk != kind || pr != ref {
			return nil, fmt.Errorf("folder %d: %w", *parentID, ErrScopeMismatch)
		}
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO folders (parent_id, scope_kind, scope_id, name) VALUES (?, ?, ?, ?)`,
		intPtrToArg(parentID), kind, ref, name)
	if err != nil {
		return nil, fmt.Errorf("failed to insert folder '%s': %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get folder ID after insert: %w", err)
	}
	return r.GetFolderByID(ctx, int(id))
}

// GetFolderByID retrieves a folder by its ID
func (r *FolderRepo) GetFolderByID(ctx context.Context, id int) (*models.Folder, error) {
	f, err := scanFolder(r.db.QueryRowContext(ctx, `SELECT `+folderColumns+` FROM folders WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "folder", id)
	}
	return f, nil
}

// ListFolders returns the direct children of parentID (root folders when nil) in scope,
// ordered by name.
func (r *FolderRepo) ListFolders(ctx context.Context, scope models.Scope, parentID *int) ([]*models.Folder, error) {
	kind, ref := scopeArgs(scope)
	query := `SELECT ` + folderColumns + ` FROM folders WHERE scope_kind = ? AND scope_id = ? AND `
	args := []any{kind, ref}
	if parentID == nil {
		query += "parent_id IS NULL"
	} else {
		query += "parent_id = ?"
		args = append(args, *parentID)
	}
	query += " ORDER BY name COLLATE NOCASE, id"
	return r.queryFolders(ctx, query, args...)
}

// ListScopeFolders returns every folder of a scope as a flat list ordered by name;
// callers assemble the tree.
func (r *FolderRepo) ListScopeFolders(ctx context.Context, scope models.Scope) ([]*models.Folder, error) {
	kind, ref := scopeArgs(scope)
	return r.queryFolders(ctx,
		`SELECT `+folderColumns+` FROM folders WHERE scope_kind = ? AND scope_id = ? ORDER BY name COLLATE NOCASE, id`,
		kind, ref)
}

func (r *FolderRepo) queryFolders(ctx context.Context, query string, args ...any) ([]*models.Folder, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query folders: %w", err)
	}
	defer closeRows(rows)

	folders := make([]*models.Folder, 0)
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan folder: %w", err)
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

const subtreeCTE = `WITH RECURSIVE subtree(id) AS (
		SELECT id FROM folders WHERE id = ?
		UNION ALL
		SELECT f.id FROM folders f JOIN subtree s ON f.parent_id = s.id
	)`

// ListFolderSubtree returns the folders strictly below id and every document stored
// in id or any of them. Content is omitted.
func (r *FolderRepo) ListFolderSubtree(ctx context.Context, id int) ([]*models.Folder, []*models.Document, error) {
	folders, err := r.queryFolders(ctx,
		subtreeCTE+` SELECT `+folderColumns+` FROM folders WHERE id IN (SELECT id FROM subtree) AND id != ? ORDER BY id`,
		id, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list subtree of folder %d: %w", id, err)
	}
	docs, err := r.queryDocuments(ctx,
		subtreeCTE+` SELECT id, folder_id, scope_kind, scope_id, title, '', created_at, updated_at
		FROM documents WHERE folder_id IN (SELECT id FROM subtree) ORDER BY id`,
		id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list documents under folder %d: %w", id, err)
	}
	return folders, docs, nil
}

// RenameFolder changes a folder's name
func (r *FolderRepo) RenameFolder(ctx context.Context, id int, name string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE folders SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return fmt.Errorf("failed to rename folder %d: %w", id, err)
	}
	return expectAffected(res, "folder", id)
}

// DeleteFolder removes a folder. Descendant folders and their documents are removed by
// the store's cascading foreign keys.
func (r *FolderRepo) DeleteFolder(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM folders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete folder %d: %w", id, err)
	}
	return expectAffected(res, "folder", id)
}

const documentColumns = `id, folder_id, scope_kind, scope_id, title, content, created_at, updated_at`

func scanDocument(row interface{ Scan(...any) error }) (*models.Document, error) {
	d := &models.Document{}
	var (
		folder sql.NullInt64
		kind   string
		ref    int
	)
	if err := row.Scan(&d.ID, &folder, &kind, &ref, &d.Title, &d.Content, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.FolderID = nullInt64ToPtr(folder)
	d.Scope = scopeFrom(kind, ref)
	return d, nil
}

// CreateDocument stores a document. When FolderID is set the document takes the
// folder's scope.
func (r *FolderRepo) CreateDocument(ctx context.Context, in *models.Document) (*models.Document, error) {
	scope := in.Scope
	if in.FolderID != nil {
		f, err := r.GetFolderByID(ctx, *in.FolderID)
		if err != nil {
			return nil, err
		}
		scope = f.Scope
	}
	kind, ref := scopeArgs(scope)

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (folder_id, scope_kind, scope_id, title, content) VALUES (?, ?, ?, ?, ?)`,
		intPtrToArg(in.FolderID), kind, ref, in.Title, in.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to insert document '%s': %w", in.Title, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get document ID after insert: %w", err)
	}
	return r.GetDocument(ctx, int(id))
}

// GetDocument retrieves a document with its content
func (r *FolderRepo) GetDocument(ctx context.Context, id int) (*models.Document, error) {
	d, err := scanDocument(r.db.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "document", id)
	}
	return d, nil
}

// ListDocuments returns the documents stored directly in folderID (scope root when nil)
// ordered by title. Content is omitted.
func (r *FolderRepo) ListDocuments(ctx context.Context, scope models.Scope, folderID *int) ([]*models.Document, error) {
	kind, ref := scopeArgs(scope)
	query := `SELECT id, folder_id, scope_kind, scope_id, title, '', created_at, updated_at
		FROM documents WHERE scope_kind = ? AND scope_id = ? AND `
	args := []any{kind, ref}
	if folderID == nil {
		query += "folder_id IS NULL"
	} else {
		query += "folder_id = ?"
		args = append(args, *folderID)
	}
	query += " ORDER BY title COLLATE NOCASE, id"
	return r.queryDocuments(ctx, query, args...)
}

// ListScopeDocuments returns every document of a scope regardless of folder, ordered
// by title. Content is omitted.
func (r *FolderRepo) ListScopeDocuments(ctx context.Context, scope models.Scope) ([]*models.Document, error) {
	kind, ref := scopeArgs(scope)
	return r.queryDocuments(ctx,
		`SELECT id, folder_id, scope_kind, scope_id, title, '', created_at, updated_at
		FROM documents WHERE scope_kind = ? AND scope_id = ? ORDER BY title COLLATE NOCASE, id`,
		kind, ref)
}

func (r *FolderRepo) queryDocuments(ctx context.Context, query string, args ...any) ([]*models.Document, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer closeRows(rows)

	docs := make([]*models.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// UpdateDocument applies the non-nil fields of upd
func (r *FolderRepo) UpdateDocument(ctx context.Context, id int, upd DocumentUpdate) error {
	var (
		sets []string
		args []any
	)
	if upd.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Content != nil {
		sets = append(sets, "content = ?")
		args = append(args, *upd.Content)
	}
	if len(sets) == 0 {
		_, err := r.GetDocument(ctx, id)
		return err
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, `UPDATE documents SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("failed to update document %d: %w", id, err)
	}
	return expectAffected(res, "document", id)
}

// DeleteDocument removes a document
func (r *FolderRepo) DeleteDocument(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document %d: %w", id, err)
	}
	return expectAffected(res, "document", id)
}
