package realtime

import (
	"sort"
	"strings"

	"github.com/thenoetrevino/studio/internal/events"
	"github.com/thenoetrevino/studio/internal/models"
)

// Scope names a slice of the workspace a view depends on, as the set of change
// notification filters that affect it. A scope without filters depends on everything.
type Scope struct {
	Name    string
	Filters []events.Filter
}

// Matches reports whether a change notification affects the scope
func (s Scope) Matches(e events.Event) bool {
	return events.MatchAny(s.Filters, e)
}

func (s Scope) String() string {
	if s.Name != "" {
		return s.Name
	}
	parts := make([]string, len(s.Filters))
	for i, f := range s.Filters {
		parts[i] = f.String()
	}
	return strings.Join(parts, ",")
}

// BoardScope covers a project's statuses, tasks and everything attached to its tasks.
// Every task-related notification carries the project_id key.
func BoardScope(projectID int) Scope {
	id := events.ID(projectID)
	return Scope{
		Name: "board:" + id,
		Filters: []events.Filter{
			{Table: events.AnyTable, Column: "project_id", Value: id},
			{Table: "projects", Column: "id", Value: id},
		},
	}
}

// TreeScope covers every folder and document of a scope
func TreeScope(scope models.Scope) Scope {
	key := scope.Key()
	return Scope{
		Name: "tree:" + key,
		Filters: []events.Filter{
			{Table: "folders", Column: "scope", Value: key},
			{Table: "documents", Column: "scope", Value: key},
		},
	}
}

// FolderScope covers one folder, its direct child folders and its documents
func FolderScope(folderID int) Scope {
	id := events.ID(folderID)
	return Scope{
		Name: "folder:" + id,
		Filters: []events.Filter{
			{Table: "folders", Column: "id", Value: id},
			{Table: "folders", Column: "parent_id", Value: id},
			{Table: "documents", Column: "folder_id", Value: id},
		},
	}
}

// DocumentScope covers a single document
func DocumentScope(documentID int) Scope {
	id := events.ID(documentID)
	return Scope{
		Name:    "document:" + id,
		Filters: []events.Filter{{Table: "documents", Column: "id", Value: id}},
	}
}

// TaskScope covers a task and all of its sub-resources
func TaskScope(taskID int) Scope {
	id := events.ID(taskID)
	return Scope{
		Name: "task:" + id,
		Filters: []events.Filter{
			{Table: "tasks", Column: "id", Value: id},
			{Table: events.AnyTable, Column: "task_id", Value: id},
		},
	}
}

// DashboardScope covers the tables the dashboard aggregates
func DashboardScope() Scope {
	return TableScope("dashboard", "projects", "statuses", "tasks", "time_entries", "contracts")
}

// TableScope covers every change to the named tables
func TableScope(name string, tables ...string) Scope {
	filters := make([]events.Filter, len(tables))
	for i, t := range tables {
		filters[i] = events.Filter{Table: t}
	}
	return Scope{Name: name, Filters: filters}
}

// idleFilter selects nothing; it is sent upstream when no scope is live
var idleFilter = events.Filter{Table: "-"}

// union merges the filters of all scopes, deduplicated and in a stable order.
// It returns nil (every change) when any scope depends on everything.
func union(scopes []Scope) []events.Filter {
	if len(scopes) == 0 {
		return []events.Filter{idleFilter}
	}
	seen := make(map[string]events.Filter)
	for _, s := range scopes {
		if len(s.Filters) == 0 {
			return nil
		}
		for _, f := range s.Filters {
			seen[f.String()] = f
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]events.Filter, len(keys))
	for i, k := range keys {
		out[i] = seen[k]
	}
	return out
}
