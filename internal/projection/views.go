package projection

import (
	"context"

	"github.com/thenoetrevino/studio/internal/models"
	"github.com/thenoetrevino/studio/internal/realtime"
)

// BoardSource reads what a board needs
type BoardSource interface {
	ListStatuses(ctx context.Context, projectID int) []*models.Status
	ListWorkItems(ctx context.Context, projectID int, filter models.TaskFilter) []*models.TaskSummary
}

// TreeSource reads a whole scope's folders and documents
type TreeSource interface {
	ListScopeFolders(ctx context.Context, scope models.Scope) []*models.Folder
	ListScopeDocuments(ctx context.Context, scope models.Scope) []*models.Document
}

// ListingSource reads one level of a folder tree
type ListingSource interface {
	GetContainer(ctx context.Context, id int) *models.Folder
	ListContainers(ctx context.Context, parent *int, scope models.Scope) []*models.Folder
	ListDocuments(ctx context.Context, folder *int, scope models.Scope) []*models.Document
}

// TaskSource reads a task aggregate
type TaskSource interface {
	GetTaskDetail(ctx context.Context, id int) *models.TaskDetail
}

// DocumentSource reads a document
type DocumentSource interface {
	GetDocument(ctx context.Context, id int) *models.Document
}

// DashboardSource reads the workspace overview
type DashboardSource interface {
	Dashboard(ctx context.Context) *models.Dashboard
}

// Listing is the content of one folder (or of the scope root when Folder is nil)
type Listing struct {
	Scope     models.Scope       `json:"scope"`
	Folder    *models.Folder     `json:"folder,omitempty"`
	Folders   []*models.Folder   `json:"folders"`
	Documents []*models.Document `json:"documents"`
}

// Len counts the entries of the listing
func (l *Listing) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Folders) + len(l.Documents)
}

// NewBoardView creates the kanban view of a project
func NewBoardView(src BoardSource, projectID int, filter models.TaskFilter) *View[*Board] {
	return NewView[*Board](realtime.BoardScope(projectID), func(ctx context.Context) *Board {
		b := GroupByStatus(src.ListStatuses(ctx, projectID), src.ListWorkItems(ctx, projectID, filter))
		b.ProjectID = projectID
		return b
	})
}

// NewTreeView creates the folder tree view of a scope
func NewTreeView(src TreeSource, scope models.Scope) *View[*Tree] {
	return NewView[*Tree](realtime.TreeScope(scope), treeLoader(src, scope))
}

func treeLoader(src TreeSource, scope models.Scope) Loader[*Tree] {
	return func(ctx context.Context) *Tree {
		return BuildTree(scope, src.ListScopeFolders(ctx, scope), src.ListScopeDocuments(ctx, scope))
	}
}

// NewFolderView creates the listing of one folder, or of the scope root when parent
// is nil
func NewFolderView(src ListingSource, parent *int, scope models.Scope) *View[*Listing] {
	return NewView[*Listing](ListingScope(parent, scope), listingLoader(src, parent, scope))
}

// ListingScope is the change scope of a folder listing
func ListingScope(parent *int, scope models.Scope) realtime.Scope {
	if parent == nil {
		return realtime.TreeScope(scope)
	}
	return realtime.FolderScope(*parent)
}

func listingLoader(src ListingSource, parent *int, scope models.Scope) Loader[*Listing] {
	return func(ctx context.Context) *Listing {
		l := &Listing{Scope: scope}
		if parent != nil {
			l.Folder = src.GetContainer(ctx, *parent)
		}
		l.Folders = src.ListContainers(ctx, parent, scope)
		l.Documents = src.ListDocuments(ctx, parent, scope)
		return l
	}
}

// OpenFolder retargets a listing view at another folder (nil for the scope root)
func OpenFolder(ctx context.Context, v *View[*Listing], src ListingSource, parent *int, scope models.Scope) {
	v.Retarget(ctx, ListingScope(parent, scope), listingLoader(src, parent, scope))
}

// NewTaskView creates the task page view
func NewTaskView(src TaskSource, taskID int) *View[*TaskAggregate] {
	return NewView[*TaskAggregate](realtime.TaskScope(taskID), func(ctx context.Context) *TaskAggregate {
		return NewTaskAggregate(src.GetTaskDetail(ctx, taskID))
	})
}

// NewDocumentView creates the document page view
func NewDocumentView(src DocumentSource, documentID int) *View[*models.Document] {
	return NewView[*models.Document](realtime.DocumentScope(documentID), func(ctx context.Context) *models.Document {
		return src.GetDocument(ctx, documentID)
	})
}

// NewDashboardView creates the dashboard view
func NewDashboardView(src DashboardSource) *View[*models.Dashboard] {
	return NewView[*models.Dashboard](realtime.DashboardScope(), src.Dashboard)
}
