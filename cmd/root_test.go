package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thenoetrevino/studio/internal/cli"
)

func TestRootRegistersCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"project", "status", "task", "folder", "doc", "client", "contract", "user", "tag", "dashboard", "watch", "serve", "use", "config"} {
		assert.True(t, names[want], want)
	}
}

func TestExecute_UnknownCommandIsUsageError(t *testing.T) {
	var stderr bytes.Buffer
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"frobnicate"})
	t.Cleanup(func() {
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := Execute(t.Context())
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
	assert.Contains(t, stderr.String(), "frobnicate")
}
