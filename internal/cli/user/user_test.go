package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/studio/internal/cli"
	"github.com/thenoetrevino/studio/internal/models"
	clitest "github.com/thenoetrevino/studio/internal/testutil/cli"
)

func TestUsers(t *testing.T) {
	app := clitest.SetupCLITest(t)

	output, err := clitest.ExecuteCLICommand(t, app, ListCmd(), nil)
	require.NoError(t, err)
	assert.Contains(t, output, "No users found")

	output, err = clitest.ExecuteCLICommand(t, app, CreateCmd(), []string{"--name", "Alice", "--email", "alice@example.com", "--json"})
	require.NoError(t, err)
	created := clitest.ParseEnvelope[models.User](t, output).Data
	assert.Equal(t, "Alice", created.Name)

	output, err = clitest.ExecuteCLICommand(t, app, ListCmd(), nil)
	require.NoError(t, err)
	assert.Contains(t, output, "@Alice")
	assert.Contains(t, output, "<alice@example.com>")

	_, err = clitest.ExecuteCLICommand(t, app, CreateCmd(), nil)
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
}
