package database

import (
	"context"
	"time"

	"github.com/thenoetrevino/studio/internal/models"
)

// ProjectReader defines read operations for projects.
type ProjectReader interface {
	GetProjectByID(ctx context.Context, id int) (*models.Project, error)
	ListProjects(ctx context.Context, filter models.ProjectFilter) ([]*models.Project, error)
}

// ProjectWriter defines write operations for projects.
type ProjectWriter interface {
	CreateProject(ctx context.Context, p *models.Project) (*models.Project, error)
}

// ClientReader defines read operations for clients and their contracts.
type ClientReader interface {
	GetClientByID(ctx context.Context, id int) (*models.Client, error)
	ListClients(ctx context.Context) ([]*models.Client, error)
	ListContracts(ctx context.Context, filter models.ContractFilter) ([]*models.Contract, error)
}

// ClientWriter defines write operations for clients and their contracts.
type ClientWriter interface {
	CreateClient(ctx context.Context, name, email string) (*models.Client, error)
	CreateContract(ctx context.Context, c *models.Contract) (*models.Contract, error)
}

// StatusReader defines read operations for status columns.
type StatusReader interface {
	GetStatusByID(ctx context.Context, id int) (*models.Status, error)
	ListStatuses(ctx context.Context, projectID int) ([]*models.Status, error)
}

// StatusWriter defines write operations for status columns.
type StatusWriter interface {
	CreateStatus(ctx context.Context, projectID int, name, color string) (*models.Status, error)
	RenameStatus(ctx context.Context, id int, name string) error
	SetDefaultStatus(ctx context.Context, id int) error
	DeleteStatus(ctx context.Context, id int) error
}

// TaskReader defines read operations for tasks.
type TaskReader interface {
	GetTask(ctx context.Context, id int) (*models.Task, error)
	ListTaskSummaries(ctx context.Context, projectID int, filter models.TaskFilter) ([]*models.TaskSummary, error)
	GetTaskDetail(ctx context.Context, id int) (*models.TaskDetail, error)
}

// TaskWriter defines write operations for tasks.
type TaskWriter interface {
	CreateTask(ctx context.Context, t *models.Task) (*models.Task, error)
	UpdateTask(ctx context.Context, id int, upd TaskUpdate) error
	MoveTask(ctx context.Context, id, statusID int) error
	DeleteTask(ctx context.Context, id int) error
}

// TaskItemWriter defines write operations for the sub-resources attached to a task.
type TaskItemWriter interface {
	AddChecklistItem(ctx context.Context, taskID int, content string) (*models.ChecklistItem, error)
	SetChecklistItemDone(ctx context.Context, taskID, itemID int, done bool) error
	DeleteChecklistItem(ctx context.Context, taskID, itemID int) error
	AddComment(ctx context.Context, c *models.Comment) (*models.Comment, error)
	AddTimeEntry(ctx context.Context, e *models.TimeEntry) (*models.TimeEntry, error)
	AddAssignee(ctx context.Context, taskID, userID int) error
	RemoveAssignee(ctx context.Context, taskID, userID int) error
	AddTaskTag(ctx context.Context, taskID, tagID int) error
	RemoveTaskTag(ctx context.Context, taskID, tagID int) error
	AddAttachment(ctx context.Context, a *models.Attachment) (*models.Attachment, error)
}

// PeopleRepository covers users and tags, the shared vocabularies of tasks.
type PeopleRepository interface {
	CreateUser(ctx context.Context, name, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	CreateTag(ctx context.Context, name, color string) (*models.Tag, error)
	ListTags(ctx context.Context) ([]*models.Tag, error)
}

// FolderReader defines read operations for folder trees and documents.
type FolderReader interface {
	GetFolderByID(ctx context.Context, id int) (*models.Folder, error)
	ListFolders(ctx context.Context, scope models.Scope, parentID *int) ([]*models.Folder, error)
	ListScopeFolders(ctx context.Context, scope models.Scope) ([]*models.Folder, error)
	GetDocument(ctx context.Context, id int) (*models.Document, error)
	ListDocuments(ctx context.Context, scope models.Scope, folderID *int) ([]*models.Document, error)
	ListScopeDocuments(ctx context.Context, scope models.Scope) ([]*models.Document, error)
	ListFolderSubtree(ctx context.Context, id int) ([]*models.Folder, []*models.Document, error)
}

// FolderWriter defines write operations for folder trees and documents.
type FolderWriter interface {
	CreateFolder(ctx context.Context, scope models.Scope, parentID *int, name string) (*models.Folder, error)
	RenameFolder(ctx context.Context, id int, name string) error
	DeleteFolder(ctx context.Context, id int) error
	CreateDocument(ctx context.Context, d *models.Document) (*models.Document, error)
	UpdateDocument(ctx context.Context, id int, upd DocumentUpdate) error
	DeleteDocument(ctx context.Context, id int) error
}

// DashboardReader computes the workspace overview.
type DashboardReader interface {
	GetDashboard(ctx context.Context, now time.Time) (*models.Dashboard, error)
}

// TaskUpdate carries the fields to change on a task; nil fields are left untouched.
type TaskUpdate struct {
	Title        *string
	Description  *string
	Priority     *models.Priority
	DueDate      *time.Time
	ClearDueDate bool
}

// Empty reports whether the update changes nothing
func (u TaskUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Priority == nil && u.DueDate == nil && !u.ClearDueDate
}

// DocumentUpdate carries the fields to change on a document; nil fields are left untouched.
type DocumentUpdate struct {
	Title   *string
	Content *string
}

// DataStore defines the unified interface for all data operations.
// It is composed of smaller, domain-specific interfaces so consumers can depend on
// only what they use.
type DataStore interface {
	ProjectReader
	ProjectWriter
	ClientReader
	ClientWriter
	StatusReader
	StatusWriter
	TaskReader
	TaskWriter
	TaskItemWriter
	PeopleRepository
	FolderReader
	FolderWriter
	DashboardReader
}
