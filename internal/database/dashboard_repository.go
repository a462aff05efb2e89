package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/thenoetrevino/studio/internal/models"
)

// DashboardRepo computes workspace-wide aggregates.
type DashboardRepo struct {
	db *sql.DB
}

// GetDashboard computes the overview as of now. Open tasks are those not in a status
// named Done; overdue tasks are open tasks whose due date is before today.
func (r *DashboardRepo) GetDashboard(ctx context.Context, now time.Time) (*models.Dashboard, error) {
	d := &models.Dashboard{TasksByStatus: []models.StatusCount{}}
	today := now.Format(dateLayout)
	monthStart := models.FirstOfMonth(now).Format(dateLayout)
	month := formatMonth(now)

	err := r.db.QueryRowContext(ctx, `SELECT
			(SELECT COUNT(*) FROM projects),
			(SELECT COUNT(*) FROM tasks t JOIN statuses s ON s.id = t.status_id WHERE s.name <> ?),
			(SELECT COUNT(*) FROM tasks t JOIN statuses s ON s.id = t.status_id
				WHERE s.name <> ? AND t.due_date IS NOT NULL AND t.due_date < ?),
			(SELECT COALESCE(SUM(minutes), 0) FROM time_entries WHERE spent_on >= ? AND spent_on <= ?),
			(SELECT COUNT(*) FROM contracts WHERE status = 'active'
				AND start_month <= ? AND (end_month IS NULL OR end_month >= ?))`,
		models.DoneStatusName, models.DoneStatusName, today, monthStart, today, month, month,
	).Scan(&d.Projects, &d.OpenTasks, &d.OverdueTasks, &d.MinutesThisMonth, &d.ActiveContracts)
	if err != nil {
		return nil, fmt.Errorf("failed to compute dashboard totals: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT s.name, COUNT(t.id)
		FROM statuses s LEFT JOIN tasks t ON t.status_id = s.id
		GROUP BY s.name ORDER BY MIN(s.position), s.name`)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks by status: %w", err)
	}
	defer closeRows(rows)

	for rows.Next() {
		var sc models.StatusCount
		if err := rows.Scan(&sc.Name, &sc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		d.TasksByStatus = append(d.TasksByStatus, sc)
	}
	return d, rows.Err()
}
