package revalidate

import (
	"strconv"

	"github.com/thenoetrevino/studio/internal/events"
	"github.com/thenoetrevino/studio/internal/models"
)

// PathsFor lists the cached renderings a change notification may have made stale.
// It is used for writes made by other processes, which arrive only as notifications.
func PathsFor(e events.Event) []string {
	var paths []string
	add := func(build func(int) string, column string) {
		if id, err := strconv.Atoi(e.Key(column)); err == nil && id > 0 {
			paths = append(paths, build(id))
		}
	}

	switch e.Table {
	case "projects":
		paths = append(paths, DashboardPath)
		add(BoardPath, "id")
	case "statuses":
		add(BoardPath, "project_id")
		paths = append(paths, DashboardPath)
	case "tasks":
		add(BoardPath, "project_id")
		add(TaskPath, "id")
		paths = append(paths, DashboardPath)
	case "checklist_items", "comments", "attachments", "task_assignees", "task_tags":
		add(TaskPath, "task_id")
		add(BoardPath, "project_id")
	case "time_entries":
		add(TaskPath, "task_id")
		add(BoardPath, "project_id")
		paths = append(paths, DashboardPath)
	case "folders":
		add(FolderPath, "id")
		add(FolderPath, "parent_id")
		paths = append(paths, treePath(e)...)
	case "documents":
		add(DocumentPath, "id")
		add(DocumentHTMLPath, "id")
		add(FolderPath, "folder_id")
		paths = append(paths, treePath(e)...)
	case "clients", "contracts":
		paths = append(paths, ContractsPath, DashboardPath)
	}
	return paths
}

func treePath(e events.Event) []string {
	key := e.Key("scope")
	if key == "" {
		return nil
	}
	scope, err := models.ParseScope(key)
	if err != nil {
		return nil
	}
	return []string{TreePath(scope)}
}
