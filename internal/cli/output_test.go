package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/studio/internal/gateway"
	"github.com/thenoetrevino/studio/internal/models"
)

func newTestFormatter(jsonOut, quiet bool) (*OutputFormatter, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return &OutputFormatter{JSON: jsonOut, Quiet: quiet, Out: &out, Err: &errOut}, &out, &errOut
}

func TestOutputFormatter_Success_JSON(t *testing.T) {
	f, out, _ := newTestFormatter(true, false)

	require.NoError(t, f.Success(&models.Tag{ID: 4, Name: "urgent"}, nil))

	var result struct {
		Success bool       `json:"success"`
		Data    models.Tag `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, "urgent", result.Data.Name)
}

func TestOutputFormatter_Success_Quiet(t *testing.T) {
	tests := []struct {
		name string
		data any
		want string
	}{
		{"single record", &models.Project{ID: 7}, "7\n"},
		{"list of records", []*models.Tag{{ID: 1}, {ID: 2}}, "1\n2\n"},
		{"empty list", []*models.Tag{}, ""},
		{"no id", map[string]int{"count": 3}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, out, _ := newTestFormatter(false, true)
			called := false
			require.NoError(t, f.Success(tt.data, func(io.Writer) { called = true }))
			assert.Equal(t, tt.want, out.String())
			assert.False(t, called, "quiet mode never renders")
		})
	}
}

func TestOutputFormatter_Success_Human(t *testing.T) {
	f, out, _ := newTestFormatter(false, false)
	require.NoError(t, f.Success(&models.Tag{ID: 1}, func(w io.Writer) {
		fmt.Fprintln(w, "rendered")
	}))
	assert.Equal(t, "rendered\n", out.String())

	out.Reset()
	require.NoError(t, f.Success(struct{ N int }{3}, nil))
	assert.Equal(t, "{N:3}\n", out.String())
}

func TestOutputFormatter_ErrorWithSuggestion(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		f, out, errOut := newTestFormatter(true, false)
		require.NoError(t, f.ErrorWithSuggestion("NOT_FOUND", "task 3 not found", "try list"))

		var result map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &result))
		assert.Equal(t, false, result["success"])
		errData := result["error"].(map[string]any)
		assert.Equal(t, "NOT_FOUND", errData["code"])
		assert.Equal(t, "try list", errData["suggestion"])
		assert.Empty(t, errOut.String())
	})

	t.Run("human goes to stderr", func(t *testing.T) {
		f, out, errOut := newTestFormatter(false, false)
		require.NoError(t, f.Error("NOT_FOUND", "task 3 not found"))
		assert.Empty(t, out.String())
		assert.Contains(t, errOut.String(), "task 3 not found")
		assert.NotContains(t, errOut.String(), "Suggestion")
	})
}

func TestOutputFormatter_Fail(t *testing.T) {
	f, out, _ := newTestFormatter(true, false)
	we := &gateway.WriteError{Op: "delete status", Code: gateway.CodeConflict, Message: "status still holds tasks"}

	err := f.Fail(we)
	assert.Equal(t, ExitConflict, ExitCode(err))
	assert.ErrorIs(t, err, we)
	assert.Contains(t, out.String(), `"CONFLICT"`)
	assert.Contains(t, out.String(), "status still holds tasks")

	usage := Usage("missing --name")
	assert.Same(t, usage, f.Fail(usage))

	out.Reset()
	err = f.Fail(WithSuggestion(NotFound("task 3 not found"), "Use 'studio task list'"))
	assert.Equal(t, ExitNotFound, ExitCode(err))
	assert.Contains(t, out.String(), "Use 'studio task list'")
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitSuccess},
		{errors.New("boom"), ExitError},
		{&gateway.WriteError{Code: gateway.CodeInvalid}, ExitValidation},
		{&gateway.WriteError{Code: gateway.CodeNotFound}, ExitNotFound},
		{&gateway.WriteError{Code: gateway.CodeConflict}, ExitConflict},
		{&gateway.WriteError{Code: gateway.CodeInternal}, ExitError},
		{fmt.Errorf("wrapped: %w", NotFound("task %d", 3)), ExitNotFound},
		{Usage("bad"), ExitUsage},
		{Invalid(errors.New("bad")), ExitValidation},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExitCode(tt.err), "%v", tt.err)
	}
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "VALIDATION_ERROR", ErrorCode(&gateway.WriteError{Code: gateway.CodeInvalid}))
	assert.Equal(t, "INTERNAL_ERROR", ErrorCode(&gateway.WriteError{Code: gateway.CodeInternal}))
	assert.Equal(t, "NOT_FOUND", ErrorCode(NotFound("x")))
	assert.Equal(t, "USAGE_ERROR", ErrorCode(Usage("x")))
	assert.Equal(t, "ERROR", ErrorCode(errors.New("x")))
}
