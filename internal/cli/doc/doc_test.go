package doc

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/studio/internal/cli"
	"github.com/thenoetrevino/studio/internal/models"
	"github.com/thenoetrevino/studio/internal/testutil"
	clitest "github.com/thenoetrevino/studio/internal/testutil/cli"
)

func TestCreateDocument(t *testing.T) {
	app := clitest.SetupCLITest(t)
	drafts := testutil.CreateTestFolder(t, app.Repo, models.ProjectScope(2), nil, "Drafts")

	t.Run("at a scope root", func(t *testing.T) {
		output, err := clitest.ExecuteCLICommand(t, app, CreateCmd(),
			[]string{"--title", "Brief", "--scope", "client:1", "--content", "# Goals", "--json"})
		require.NoError(t, err)
		d := clitest.ParseEnvelope[models.Document](t, output).Data
		assert.Equal(t, models.ClientScope(1), d.Scope)
		assert.Nil(t, d.FolderID)
		assert.Equal(t, "# Goals", d.Content)
	})

	t.Run("in a folder takes its scope", func(t *testing.T) {
		output, _, err := clitest.ExecuteWithInput(t, app, CreateCmd(),
			[]string{"--title", "Homepage copy", "--folder", strconv.Itoa(drafts.ID), "--content", "-", "--json"}, "Hello **world**")
		require.NoError(t, err)
		d := clitest.ParseEnvelope[models.Document](t, output).Data
		assert.Equal(t, models.ProjectScope(2), d.Scope)
		require.NotNil(t, d.FolderID)
		assert.Equal(t, drafts.ID, *d.FolderID)
		assert.Equal(t, "Hello **world**", d.Content)
	})

	t.Run("missing title", func(t *testing.T) {
		_, err := clitest.ExecuteCLICommand(t, app, CreateCmd(), []string{"--scope", "global"})
		assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
	})

	t.Run("missing folder", func(t *testing.T) {
		_, err := clitest.ExecuteCLICommand(t, app, CreateCmd(), []string{"--title", "x", "--folder", "999"})
		assert.Equal(t, cli.ExitNotFound, cli.ExitCode(err))
	})
}

func TestListDocuments(t *testing.T) {
	app := clitest.SetupCLITest(t)
	drafts := testutil.CreateTestFolder(t, app.Repo, models.GlobalScope, nil, "Drafts")
	_, err := app.Gateway.CreateDocument(t.Context(), &models.Document{FolderID: &drafts.ID, Title: "In folder"})
	require.NoError(t, err)
	_, err = app.Gateway.CreateDocument(t.Context(), &models.Document{Scope: models.GlobalScope, Title: "At root"})
	require.NoError(t, err)

	output, err := clitest.ExecuteCLICommand(t, app, ListCmd(), nil)
	require.NoError(t, err)
	assert.Contains(t, output, "At root")
	assert.NotContains(t, output, "In folder")

	output, err = clitest.ExecuteCLICommand(t, app, ListCmd(), []string{"--folder", strconv.Itoa(drafts.ID), "--json"})
	require.NoError(t, err)
	docs := clitest.ParseEnvelope[[]models.Document](t, output).Data
	require.Len(t, docs, 1)
	assert.Equal(t, "In folder", docs[0].Title)

	output, err = clitest.ExecuteCLICommand(t, app, ListCmd(), []string{"--scope", "project:5"})
	require.NoError(t, err)
	assert.Contains(t, output, "No documents found")
}

func TestShowDocument(t *testing.T) {
	app := clitest.SetupCLITest(t)
	d, err := app.Gateway.CreateDocument(t.Context(), &models.Document{
		Scope:   models.GlobalScope,
		Title:   "Style guide",
		Content: "## Colors\n\nUse the *brand* palette.",
	})
	require.NoError(t, err)
	id := strconv.Itoa(d.ID)

	output, err := clitest.ExecuteCLICommand(t, app, ShowCmd(), []string{id})
	require.NoError(t, err)
	assert.Contains(t, output, "Style guide")
	assert.Contains(t, output, "Colors")
	assert.Contains(t, output, "palette")

	output, err = clitest.ExecuteCLICommand(t, app, ShowCmd(), []string{id, "--raw"})
	require.NoError(t, err)
	assert.Equal(t, d.Content, output)

	_, err = clitest.ExecuteCLICommand(t, app, ShowCmd(), []string{"999"})
	assert.Equal(t, cli.ExitNotFound, cli.ExitCode(err))
}

func TestEditDocument(t *testing.T) {
	app := clitest.SetupCLITest(t)
	d, err := app.Gateway.CreateDocument(t.Context(), &models.Document{Scope: models.GlobalScope, Title: "Notes"})
	require.NoError(t, err)
	id := strconv.Itoa(d.ID)

	t.Run("title", func(t *testing.T) {
		output, err := clitest.ExecuteCLICommand(t, app, EditCmd(), []string{id, "--title", "Meeting notes", "--json"})
		require.NoError(t, err)
		assert.Equal(t, "Meeting notes", clitest.ParseEnvelope[models.Document](t, output).Data.Title)
	})

	t.Run("content", func(t *testing.T) {
		output, err := clitest.ExecuteCLICommand(t, app, EditCmd(), []string{id, "--content", "first draft", "--json"})
		require.NoError(t, err)
		assert.Equal(t, "first draft", clitest.ParseEnvelope[models.Document](t, output).Data.Content)
		assert.Equal(t, "first draft", app.Gateway.GetDocument(t.Context(), d.ID).Content)
	})

	t.Run("stream saves the full input", func(t *testing.T) {
		input := "line one\nline two\nline three"
		_, _, err := clitest.ExecuteWithInput(t, app, EditCmd(), []string{id, "--stream", "--delay", "1h"}, input)
		require.NoError(t, err)
		got := app.Gateway.GetDocument(t.Context(), d.ID)
		assert.Equal(t, input, got.Content)
		assert.Equal(t, "Meeting notes", got.Title)
	})

	t.Run("nothing to edit", func(t *testing.T) {
		_, err := clitest.ExecuteCLICommand(t, app, EditCmd(), []string{id})
		assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
	})

	t.Run("content and stream", func(t *testing.T) {
		_, err := clitest.ExecuteCLICommand(t, app, EditCmd(), []string{id, "--content", "x", "--stream"})
		assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
	})

	t.Run("missing document", func(t *testing.T) {
		_, err := clitest.ExecuteCLICommand(t, app, EditCmd(), []string{"999", "--title", "x"})
		assert.Equal(t, cli.ExitNotFound, cli.ExitCode(err))
	})
}

func TestDeleteDocument(t *testing.T) {
	app := clitest.SetupCLITest(t)
	d, err := app.Gateway.CreateDocument(t.Context(), &models.Document{Scope: models.GlobalScope, Title: "Old"})
	require.NoError(t, err)

	_, err = clitest.ExecuteCLICommand(t, app, DeleteCmd(), []string{strconv.Itoa(d.ID)})
	require.NoError(t, err)
	assert.Nil(t, app.Gateway.GetDocument(t.Context(), d.ID))

	_, err = clitest.ExecuteCLICommand(t, app, DeleteCmd(), []string{strconv.Itoa(d.ID)})
	assert.Equal(t, cli.ExitNotFound, cli.ExitCode(err))
}
