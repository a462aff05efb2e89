// Package dashboard holds the workspace overview command
package dashboard

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/studio/internal/cli"
	"github.com/thenoetrevino/studio/internal/cli/handler"
	"github.com/thenoetrevino/studio/internal/cli/styles"
	"github.com/thenoetrevino/studio/internal/models"
)

// DashboardCmd returns the dashboard command
func DashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show workspace totals",
		Long: `Show active projects, open and overdue tasks, time logged this month, running
contracts and how open work is spread across statuses.`,
		RunE: handler.Command(runDashboard),
	}

	cli.AddOutputFlags(cmd)

	return cmd
}

func runDashboard(ctx context.Context, env *handler.Env) error {
	d := env.App.Gateway.Dashboard(ctx)
	if d == nil {
		return fmt.Errorf("dashboard could not be loaded")
	}

	return env.Out.Success(d, func(w io.Writer) { Render(w, d) })
}

// Render writes the overview card
func Render(w io.Writer, d *models.Dashboard) {
	if d == nil {
		fmt.Fprintln(w, "Dashboard unavailable")
		return
	}
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Studio") + "\n\n")
	row := func(label string, value any) {
		fmt.Fprintf(&b, "%s %v\n", styles.LabelStyle.Render(fmt.Sprintf("%-18s", label)), value)
	}
	row("Active projects", d.Projects)
	row("Open tasks", d.OpenTasks)
	if d.OverdueTasks > 0 {
		row("Overdue", styles.ErrorStyle.Render(fmt.Sprint(d.OverdueTasks)))
	} else {
		row("Overdue", 0)
	}
	row("Logged this month", cli.FormatMinutes(d.MinutesThisMonth))
	row("Active contracts", d.ActiveContracts)

	if len(d.TasksByStatus) > 0 {
		b.WriteString("\n" + styles.SectionStyle.Render("Tasks by status") + "\n")
		for _, s := range d.TasksByStatus {
			fmt.Fprintf(&b, "  %-14s %s %d\n", s.Name, strings.Repeat("▇", min(s.Count, 40)), s.Count)
		}
	}
	fmt.Fprintln(w, styles.RenderCard(strings.TrimRight(b.String(), "\n")))
}
