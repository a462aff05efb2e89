package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/studio/internal/models"
)

func month(y int, m time.Month) time.Time { return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC) }

func TestListContracts_MonthOverlap(t *testing.T) {
	t.Parallel()
	repo := setupTestRepo(t)
	ctx := context.Background()

	client, err := repo.CreateClient(ctx, "Acme", "ops@acme.test")
	require.NoError(t, err)

	end := month(2026, time.June)
	_, err = repo.CreateContract(ctx, &models.Contract{ClientID: client.ID, Title: "Spring retainer",
		StartMonth: month(2026, time.March), EndMonth: &end, MonthlyFeeCents: 250000})
	require.NoError(t, err)
	_, err = repo.CreateContract(ctx, &models.Contract{ClientID: client.ID, Title: "Support",
		StartMonth: month(2026, time.May)})
	require.NoError(t, err)

	at := func(m time.Time) []string {
		list, err := repo.ListContracts(ctx, models.ContractFilter{Month: &m})
		require.NoError(t, err)
		titles := make([]string, 0, len(list))
		for _, c := range list {
			titles = append(titles, c.Title)
		}
		return titles
	}

	assert.Empty(t, at(month(2026, time.February)))
	assert.Equal(t, []string{"Spring retainer"}, at(month(2026, time.April)))
	assert.Equal(t, []string{"Spring retainer", "Support"}, at(month(2026, time.June)))
	assert.Equal(t, []string{"Support"}, at(month(2027, time.January)))

	all, err := repo.ListContracts(ctx, models.ContractFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.NotNil(t, all[0].EndMonth)
	assert.Equal(t, time.June, all[0].EndMonth.Month())
}

func TestListContracts_SearchMatchesWildcardsLiterally(t *testing.T) {
	t.Parallel()
	repo := setupTestRepo(t)
	ctx := context.Background()

	client, err := repo.CreateClient(ctx, "Acme", "")
	require.NoError(t, err)
	for _, title := range []string{"Retainer 10% off", "Support", "site_build"} {
		_, err := repo.CreateContract(ctx, &models.Contract{ClientID: client.ID, Title: title,
			StartMonth: month(2026, time.March)})
		require.NoError(t, err)
	}

	titles := func(q string) []string {
		list, err := repo.ListContracts(ctx, models.ContractFilter{Search: q})
		require.NoError(t, err)
		out := make([]string, 0, len(list))
		for _, c := range list {
			out = append(out, c.Title)
		}
		return out
	}

	assert.Equal(t, []string{"Retainer 10% off"}, titles("%"))
	assert.Equal(t, []string{"site_build"}, titles("_"))

	_, err = repo.CreateProject(ctx, &models.Project{Name: "50% launch"})
	require.NoError(t, err)
	_, err = repo.CreateProject(ctx, &models.Project{Name: "Relaunch"})
	require.NoError(t, err)
	projects, err := repo.ListProjects(ctx, models.ProjectFilter{Search: "%"})
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "50% launch", projects[0].Name)
}

func TestProjects_ClientLinkAndFilter(t *testing.T) {
	t.Parallel()
	repo := setupTestRepo(t)
	ctx := context.Background()

	client, err := repo.CreateClient(ctx, "Acme", "")
	require.NoError(t, err)
	p, err := repo.CreateProject(ctx, &models.Project{Name: "Acme site", ClientID: intPtr(client.ID)})
	require.NoError(t, err)
	require.NotNil(t, p.ClientID)
	assert.Equal(t, client.ID, *p.ClientID)
	assert.Equal(t, models.ProjectActive, p.Status)

	_, err = repo.CreateProject(ctx, &models.Project{Name: "Internal", Status: models.ProjectPaused})
	require.NoError(t, err)

	paused, err := repo.ListProjects(ctx, models.ProjectFilter{Status: models.ProjectPaused})
	require.NoError(t, err)
	require.Len(t, paused, 1)
	assert.Equal(t, "Internal", paused[0].Name)

	search, err := repo.ListProjects(ctx, models.ProjectFilter{Search: "acme"})
	require.NoError(t, err)
	assert.Len(t, search, 1)
}

func TestGetDashboard(t *testing.T) {
	t.Parallel()
	repo := setupTestRepo(t)
	ctx := context.Background()
	now := time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)

	p := createTestProject(t, repo, "P")
	done := statusNamed(t, repo, p.ID, "Done")
	open := createTestTask(t, repo, p.ID, 0, "Open")
	due := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
	late, err := repo.CreateTask(ctx, &models.Task{ProjectID: p.ID, Title: "Late", DueDate: &due})
	require.NoError(t, err)
	createTestTask(t, repo, p.ID, done.ID, "Finished")

	_, err = repo.AddTimeEntry(ctx, &models.TimeEntry{TaskID: open.ID, Minutes: 30, SpentOn: now})
	require.NoError(t, err)
	_, err = repo.AddTimeEntry(ctx, &models.TimeEntry{TaskID: late.ID, Minutes: 60, SpentOn: now.AddDate(0, -1, 0)})
	require.NoError(t, err)

	d, err := repo.GetDashboard(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Projects)
	assert.Equal(t, 2, d.OpenTasks)
	assert.Equal(t, 1, d.OverdueTasks)
	assert.Equal(t, 30, d.MinutesThisMonth)
	require.NotEmpty(t, d.TasksByStatus)
	assert.Equal(t, "To Do", d.TasksByStatus[0].Name)
	assert.Equal(t, 2, d.TasksByStatus[0].Count)
}
