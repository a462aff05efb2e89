package gateway

import (
	"context"

	"github.com/thenoetrevino/studio/internal/models"
)

// ListClients returns every client ordered by name
func (g *Gateway) ListClients(ctx context.Context) []*models.Client {
	items, err := g.store.ListClients(ctx)
	return list(g, "list clients", items, err)
}

// ListContracts returns the contracts matching filter
func (g *Gateway) ListContracts(ctx context.Context, filter models.ContractFilter) []*models.Contract {
	items, err := g.store.ListContracts(ctx, filter)
	return list(g, "list contracts", items, err)
}

// ListProjects returns the projects matching filter
func (g *Gateway) ListProjects(ctx context.Context, filter models.ProjectFilter) []*models.Project {
	items, err := g.store.ListProjects(ctx, filter)
	return list(g, "list projects", items, err)
}

// GetProject returns a project, or nil
func (g *Gateway) GetProject(ctx context.Context, id int) *models.Project {
	p, err := g.store.GetProjectByID(ctx, id)
	return one(g, "get project", p, err)
}

// ListStatuses returns a project's statuses in position order
func (g *Gateway) ListStatuses(ctx context.Context, projectID int) []*models.Status {
	items, err := g.store.ListStatuses(ctx, projectID)
	return list(g, "list statuses", items, err)
}

// ListContainers returns the folders directly under parent (the scope root when nil),
// ordered by name
func (g *Gateway) ListContainers(ctx context.Context, parent *int, scope models.Scope) []*models.Folder {
	items, err := g.store.ListFolders(ctx, scope, parent)
	return list(g, "list containers", items, err)
}

// GetContainer returns a folder, or nil
func (g *Gateway) GetContainer(ctx context.Context, id int) *models.Folder {
	f, err := g.store.GetFolderByID(ctx, id)
	return one(g, "get container", f, err)
}

// ListScopeFolders returns every folder of a scope as a flat list
func (g *Gateway) ListScopeFolders(ctx context.Context, scope models.Scope) []*models.Folder {
	items, err := g.store.ListScopeFolders(ctx, scope)
	return list(g, "list scope folders", items, err)
}

// ListDocuments returns the documents directly in folder (the scope root when nil)
func (g *Gateway) ListDocuments(ctx context.Context, folder *int, scope models.Scope) []*models.Document {
	items, err := g.store.ListDocuments(ctx, scope, folder)
	return list(g, "list documents", items, err)
}

// ListScopeDocuments returns every document of a scope
func (g *Gateway) ListScopeDocuments(ctx context.Context, scope models.Scope) []*models.Document {
	items, err := g.store.ListScopeDocuments(ctx, scope)
	return list(g, "list scope documents", items, err)
}

// GetDocument returns a document with its content, or nil
func (g *Gateway) GetDocument(ctx context.Context, id int) *models.Document {
	d, err := g.store.GetDocument(ctx, id)
	return one(g, "get document", d, err)
}

// ListWorkItems returns a project's task cards ordered by position, then creation time
func (g *Gateway) ListWorkItems(ctx context.Context, projectID int, filter models.TaskFilter) []*models.TaskSummary {
	items, err := g.store.ListTaskSummaries(ctx, projectID, filter)
	return list(g, "list work items", items, err)
}

// GetWorkItem returns a task row, or nil
func (g *Gateway) GetWorkItem(ctx context.Context, id int) *models.Task {
	t, err := g.store.GetTask(ctx, id)
	return one(g, "get work item", t, err)
}

// GetTaskDetail returns the merged task aggregate, or nil
func (g *Gateway) GetTaskDetail(ctx context.Context, id int) *models.TaskDetail {
	d, err := g.store.GetTaskDetail(ctx, id)
	return one(g, "get task detail", d, err)
}

// ListUsers returns every workspace member
func (g *Gateway) ListUsers(ctx context.Context) []*models.User {
	items, err := g.store.ListUsers(ctx)
	return list(g, "list users", items, err)
}

// ListTags returns every tag
func (g *Gateway) ListTags(ctx context.Context) []*models.Tag {
	items, err := g.store.ListTags(ctx)
	return list(g, "list tags", items, err)
}

// Dashboard returns the workspace overview for the current month, or nil
func (g *Gateway) Dashboard(ctx context.Context) *models.Dashboard {
	d, err := g.store.GetDashboard(ctx, g.now())
	return one(g, "dashboard", d, err)
}
