package tag

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/studio/internal/cli"
	"github.com/thenoetrevino/studio/internal/models"
	clitest "github.com/thenoetrevino/studio/internal/testutil/cli"
)

func TestCreateTag(t *testing.T) {
	app := clitest.SetupCLITest(t)

	output, err := clitest.ExecuteCLICommand(t, app, CreateCmd(), []string{"--name", "client-facing", "--color", "#FF0000", "--json"})
	require.NoError(t, err)
	env := clitest.ParseEnvelope[models.Tag](t, output)
	assert.True(t, env.Success)
	assert.Equal(t, "client-facing", env.Data.Name)
	assert.Equal(t, "#FF0000", env.Data.Color)

	output, err = clitest.ExecuteCLICommand(t, app, CreateCmd(), []string{"--name", "internal", "--quiet"})
	require.NoError(t, err)
	tags := app.Gateway.ListTags(t.Context())
	require.Len(t, tags, 2)
	var internal *models.Tag
	for _, tg := range tags {
		if tg.Name == "internal" {
			internal = tg
		}
	}
	require.NotNil(t, internal)
	assert.Equal(t, fmt.Sprintf("%d\n", internal.ID), output)
	assert.NotEmpty(t, internal.Color, "a default color is assigned")
}

func TestCreateTag_Negative(t *testing.T) {
	app := clitest.SetupCLITest(t)

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"missing name", []string{"--color", "#FF0000"}, cli.ExitUsage},
		{"bad color", []string{"--name", "x", "--color", "red"}, cli.ExitValidation},
		{"short color", []string{"--name", "x", "--color", "#FFF"}, cli.ExitValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := clitest.ExecuteCLICommand(t, app, CreateCmd(), tt.args)
			assert.Equal(t, tt.code, cli.ExitCode(err))
		})
	}
	assert.Empty(t, app.Gateway.ListTags(t.Context()))
}

func TestListTags(t *testing.T) {
	app := clitest.SetupCLITest(t)

	output, err := clitest.ExecuteCLICommand(t, app, ListCmd(), nil)
	require.NoError(t, err)
	assert.Contains(t, output, "No tags found")

	_, err = clitest.ExecuteCLICommand(t, app, CreateCmd(), []string{"--name", "print"})
	require.NoError(t, err)

	output, err = clitest.ExecuteCLICommand(t, app, ListCmd(), []string{"--json"})
	require.NoError(t, err)
	env := clitest.ParseEnvelope[[]models.Tag](t, output)
	require.Len(t, env.Data, 1)
	assert.Equal(t, "print", env.Data[0].Name)
}
