package status

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/studio/internal/cli"
	"github.com/thenoetrevino/studio/internal/models"
	clitest "github.com/thenoetrevino/studio/internal/testutil/cli"
)

func TestListStatuses(t *testing.T) {
	app := clitest.SetupCLITest(t)
	fx := clitest.CreateFixture(t, app, "Launch")

	output, err := clitest.ExecuteCLICommand(t, app, ListCmd(), []string{"--project", fmt.Sprint(fx.Project.ID)})
	require.NoError(t, err)
	for _, s := range models.DefaultStatuses {
		assert.Contains(t, output, s.Name)
	}
	assert.Contains(t, output, "(default)")

	_, err = clitest.ExecuteCLICommand(t, app, ListCmd(), []string{"--project", "404"})
	assert.Equal(t, cli.ExitNotFound, cli.ExitCode(err))
}

func TestCreateStatus(t *testing.T) {
	app := clitest.SetupCLITest(t)
	fx := clitest.CreateFixture(t, app, "Launch")

	output, err := clitest.ExecuteCLICommand(t, app, CreateCmd(), []string{
		"--project", fmt.Sprint(fx.Project.ID), "--name", "Blocked", "--color", "#FF5F5F", "--json",
	})
	require.NoError(t, err)
	env := clitest.ParseEnvelope[models.Status](t, output)
	assert.Equal(t, "Blocked", env.Data.Name)
	assert.Equal(t, "#FF5F5F", env.Data.Color)

	statuses := app.Gateway.ListStatuses(t.Context(), fx.Project.ID)
	assert.Equal(t, "Blocked", statuses[len(statuses)-1].Name)

	t.Run("bad color", func(t *testing.T) {
		_, err := clitest.ExecuteCLICommand(t, app, CreateCmd(), []string{
			"--project", fmt.Sprint(fx.Project.ID), "--name", "Red", "--color", "red",
		})
		assert.Equal(t, cli.ExitValidation, cli.ExitCode(err))
	})
}

func TestRenameAndDefault(t *testing.T) {
	app := clitest.SetupCLITest(t)
	fx := clitest.CreateFixture(t, app, "Launch")
	target := fx.Statuses[1]

	output, err := clitest.ExecuteCLICommand(t, app, RenameCmd(), []string{fmt.Sprint(target.ID), "--name", "Doing"})
	require.NoError(t, err)
	assert.Contains(t, output, "renamed to 'Doing'")

	output, err = clitest.ExecuteCLICommand(t, app, DefaultCmd(), []string{fmt.Sprint(target.ID), "--quiet"})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%d\n", target.ID), output)

	for _, s := range app.Gateway.ListStatuses(t.Context(), fx.Project.ID) {
		if s.ID == target.ID {
			assert.Equal(t, "Doing", s.Name)
			assert.True(t, s.IsDefault)
		} else {
			assert.False(t, s.IsDefault, s.Name)
		}
	}

	_, err = clitest.ExecuteCLICommand(t, app, RenameCmd(), []string{"404", "--name", "Ghost"})
	assert.Equal(t, cli.ExitNotFound, cli.ExitCode(err))
}

func TestDeleteStatus(t *testing.T) {
	app := clitest.SetupCLITest(t)
	fx := clitest.CreateFixture(t, app, "Launch")

	t.Run("status with tasks is refused", func(t *testing.T) {
		output, err := clitest.ExecuteCLICommand(t, app, DeleteCmd(), []string{fmt.Sprint(fx.Statuses[0].ID), "--json"})
		assert.Equal(t, cli.ExitConflict, cli.ExitCode(err))
		env := clitest.ParseEnvelope[any](t, output)
		require.NotNil(t, env.Error)
		assert.Contains(t, env.Error.Suggestion, "studio task move")
		assert.Len(t, app.Gateway.ListStatuses(t.Context(), fx.Project.ID), len(fx.Statuses))
	})

	t.Run("empty status", func(t *testing.T) {
		empty := fx.Statuses[len(fx.Statuses)-1]
		_, err := clitest.ExecuteCLICommand(t, app, DeleteCmd(), []string{fmt.Sprint(empty.ID)})
		require.NoError(t, err)
		assert.Len(t, app.Gateway.ListStatuses(t.Context(), fx.Project.ID), len(fx.Statuses)-1)
	})

	t.Run("invalid id", func(t *testing.T) {
		_, err := clitest.ExecuteCLICommand(t, app, DeleteCmd(), []string{"abc"})
		assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
	})
}
