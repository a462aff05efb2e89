package project

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/studio/internal/cli"
	"github.com/thenoetrevino/studio/internal/models"
	clitest "github.com/thenoetrevino/studio/internal/testutil/cli"
)

func TestCreateProject(t *testing.T) {
	app := clitest.SetupCLITest(t)

	t.Run("human output lists the workflow", func(t *testing.T) {
		output, err := clitest.ExecuteCLICommand(t, app, CreateCmd(), []string{"--name", "Website relaunch"})
		require.NoError(t, err)
		assert.Contains(t, output, "Website relaunch")
		assert.Contains(t, output, "To Do")
		assert.Contains(t, output, "Done")
	})

	t.Run("quiet prints the ID", func(t *testing.T) {
		output, err := clitest.ExecuteCLICommand(t, app, CreateCmd(), []string{"--name", "Quiet", "--quiet"})
		require.NoError(t, err)
		projects := app.Gateway.ListProjects(t.Context(), models.ProjectFilter{Search: "Quiet"})
		require.Len(t, projects, 1)
		assert.Equal(t, fmt.Sprintf("%d\n", projects[0].ID), output)
	})

	t.Run("json", func(t *testing.T) {
		output, err := clitest.ExecuteCLICommand(t, app, CreateCmd(), []string{"--name", "JSON", "--json"})
		require.NoError(t, err)
		env := clitest.ParseEnvelope[models.Project](t, output)
		assert.True(t, env.Success)
		assert.Equal(t, "JSON", env.Data.Name)
		assert.Equal(t, models.ProjectActive, env.Data.Status)
	})

	t.Run("description from stdin", func(t *testing.T) {
		output, _, err := clitest.ExecuteWithInput(t, app, CreateCmd(),
			[]string{"--name", "Piped", "--description", "-", "--json"}, "from a file")
		require.NoError(t, err)
		env := clitest.ParseEnvelope[models.Project](t, output)
		assert.Equal(t, "from a file", env.Data.Description)
	})
}

func TestCreateProject_Negative(t *testing.T) {
	app := clitest.SetupCLITest(t)

	t.Run("missing name", func(t *testing.T) {
		_, err := clitest.ExecuteCLICommand(t, app, CreateCmd(), nil)
		assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
	})

	t.Run("unknown client", func(t *testing.T) {
		output, err := clitest.ExecuteCLICommand(t, app, CreateCmd(), []string{"--name", "Orphan", "--client", "99", "--json"})
		assert.Equal(t, cli.ExitConflict, cli.ExitCode(err))
		env := clitest.ParseEnvelope[any](t, output)
		assert.False(t, env.Success)
		require.NotNil(t, env.Error)
		assert.Equal(t, "CONFLICT", env.Error.Code)
		assert.Contains(t, env.Error.Suggestion, "studio client list")
	})
}

func TestListProjects(t *testing.T) {
	app := clitest.SetupCLITest(t)

	output, err := clitest.ExecuteCLICommand(t, app, ListCmd(), nil)
	require.NoError(t, err)
	assert.Contains(t, output, "No projects found")

	a := clitest.CreateFixture(t, app, "Alpha")
	b := clitest.CreateFixture(t, app, "Beta")

	output, err = clitest.ExecuteCLICommand(t, app, ListCmd(), []string{"--quiet"})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%d\n%d\n", a.Project.ID, b.Project.ID), output)

	output, err = clitest.ExecuteCLICommand(t, app, ListCmd(), []string{"--search", "bet", "--json"})
	require.NoError(t, err)
	env := clitest.ParseEnvelope[[]models.Project](t, output)
	require.Len(t, env.Data, 1)
	assert.Equal(t, "Beta", env.Data[0].Name)
}

func TestShowProject(t *testing.T) {
	app := clitest.SetupCLITest(t)
	fx := clitest.CreateFixture(t, app, "Launch")

	output, err := clitest.ExecuteCLICommand(t, app, ShowCmd(), []string{fmt.Sprint(fx.Project.ID)})
	require.NoError(t, err)
	assert.Contains(t, output, "Launch")
	assert.Contains(t, output, "Workflow")

	output, err = clitest.ExecuteCLICommand(t, app, ShowCmd(), []string{"--project", fmt.Sprint(fx.Project.ID), "--json"})
	require.NoError(t, err)
	env := clitest.ParseEnvelope[struct {
		Name     string `json:"name"`
		Statuses []struct {
			Name  string `json:"name"`
			Tasks int    `json:"tasks"`
		} `json:"statuses"`
	}](t, output)
	assert.Equal(t, "Launch", env.Data.Name)
	require.Len(t, env.Data.Statuses, len(models.DefaultStatuses))
	assert.Equal(t, 1, env.Data.Statuses[0].Tasks)

	t.Run("project from environment", func(t *testing.T) {
		t.Setenv(cli.ProjectEnv, fmt.Sprint(fx.Project.ID))
		output, err := clitest.ExecuteCLICommand(t, app, ShowCmd(), []string{"--quiet"})
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("%d\n", fx.Project.ID), output)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := clitest.ExecuteCLICommand(t, app, ShowCmd(), []string{"404"})
		assert.Equal(t, cli.ExitNotFound, cli.ExitCode(err))
	})
}

func TestBoard(t *testing.T) {
	app := clitest.SetupCLITest(t)
	fx := clitest.CreateFixture(t, app, "Launch")
	urgent := models.PriorityUrgent
	_, err := app.Gateway.CreateWorkItem(t.Context(), &models.Task{
		ProjectID: fx.Project.ID, StatusID: fx.Statuses[1].ID, Title: "Hotfix", Priority: urgent,
	})
	require.NoError(t, err)

	output, err := clitest.ExecuteCLICommand(t, app, BoardCmd(), []string{fmt.Sprint(fx.Project.ID)})
	require.NoError(t, err)
	assert.Contains(t, output, "First task")
	assert.Contains(t, output, "Hotfix")
	assert.Contains(t, output, "(empty)")

	output, err = clitest.ExecuteCLICommand(t, app, BoardCmd(), []string{fmt.Sprint(fx.Project.ID), "--priority", "urgent", "--json"})
	require.NoError(t, err)
	env := clitest.ParseEnvelope[boardData](t, output)
	require.Len(t, env.Data.Columns, len(fx.Statuses))
	assert.Empty(t, env.Data.Columns[0].Tasks)
	require.Len(t, env.Data.Columns[1].Tasks, 1)
	assert.Equal(t, "Hotfix", env.Data.Columns[1].Tasks[0].Title)
}
