package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/studio/internal/app"
	"github.com/thenoetrevino/studio/internal/models"
	"github.com/thenoetrevino/studio/internal/testutil"
)

// Envelope is the JSON shape every command writes with --json
type Envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
	Error   *struct {
		Code       string `json:"code"`
		Message    string `json:"message"`
		Suggestion string `json:"suggestion"`
	} `json:"error"`
}

// ParseEnvelope decodes --json output
func ParseEnvelope[T any](t *testing.T, output string) Envelope[T] {
	t.Helper()
	var env Envelope[T]
	require.NoError(t, json.Unmarshal([]byte(output), &env), "output: %s", output)
	return env
}

// Fixture is a project with the default workflow and one task in its first status
type Fixture struct {
	Project  *models.Project
	Statuses []*models.Status
	Task     *models.Task
}

// CreateFixture seeds a project named name with one task titled "First task"
func CreateFixture(t *testing.T, a *app.App, name string) Fixture {
	t.Helper()
	p := testutil.CreateTestProject(t, a.Repo, name)
	statuses, err := a.Repo.ListStatuses(t.Context(), p.ID)
	require.NoError(t, err)
	require.NotEmpty(t, statuses)
	task := testutil.CreateTestTask(t, a.Repo, p.ID, statuses[0].ID, "First task")
	return Fixture{Project: p, Statuses: statuses, Task: task}
}
