package models

// StatusCount is the number of tasks sitting in statuses with a given name
type StatusCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Dashboard is the workspace overview
type Dashboard struct {
	Projects         int           `json:"projects"`
	OpenTasks        int           `json:"open_tasks"`
	OverdueTasks     int           `json:"overdue_tasks"`
	MinutesThisMonth int           `json:"minutes_this_month"`
	ActiveContracts  int           `json:"active_contracts"`
	TasksByStatus    []StatusCount `json:"tasks_by_status"`
}
