package client

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/studio/internal/cli"
	"github.com/thenoetrevino/studio/internal/models"
	clitest "github.com/thenoetrevino/studio/internal/testutil/cli"
)

func TestClients(t *testing.T) {
	app := clitest.SetupCLITest(t)

	output, err := clitest.ExecuteCLICommand(t, app, ListCmd(), nil)
	require.NoError(t, err)
	assert.Contains(t, output, "No clients found")

	output, err = clitest.ExecuteCLICommand(t, app, CreateCmd(), []string{"--name", "Acme", "--email", "ops@acme.test", "--json"})
	require.NoError(t, err)
	acme := clitest.ParseEnvelope[models.Client](t, output).Data
	assert.Equal(t, "Acme", acme.Name)

	_, err = clitest.ExecuteCLICommand(t, app, CreateContractCmd(),
		[]string{"--client", strconv.Itoa(acme.ID), "--title", "Retainer", "--start", "2026-01", "--fee", "2,500.50"})
	require.NoError(t, err)

	output, err = clitest.ExecuteCLICommand(t, app, ListCmd(), nil)
	require.NoError(t, err)
	assert.Contains(t, output, "Acme")
	assert.Contains(t, output, "<ops@acme.test>")
	assert.Contains(t, output, "Retainer (active) 2026-01 → open  2500.50/mo")

	_, err = clitest.ExecuteCLICommand(t, app, CreateCmd(), []string{"--name", "  "})
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
}

func TestContracts(t *testing.T) {
	app := clitest.SetupCLITest(t)
	c, err := app.Gateway.CreateClient(t.Context(), "Acme", "")
	require.NoError(t, err)
	clientArg := strconv.Itoa(c.ID)

	output, err := clitest.ExecuteCLICommand(t, app, CreateContractCmd(),
		[]string{"--client", clientArg, "--title", "Spring campaign", "--start", "2026-03", "--end", "2026-05", "--fee", "1200", "--json"})
	require.NoError(t, err)
	k := clitest.ParseEnvelope[models.Contract](t, output).Data
	assert.Equal(t, int64(120000), k.MonthlyFeeCents)
	assert.Equal(t, "2026-03", k.StartMonth.Format("2006-01"))
	require.NotNil(t, k.EndMonth)
	assert.Equal(t, "2026-05", k.EndMonth.Format("2006-01"))

	_, err = clitest.ExecuteCLICommand(t, app, CreateContractCmd(),
		[]string{"--client", clientArg, "--title", "Retainer", "--start", "2026-07"})
	require.NoError(t, err)

	t.Run("month filter", func(t *testing.T) {
		output, err := clitest.ExecuteCLICommand(t, app, ListContractsCmd(), []string{"--month", "2026-04", "--json"})
		require.NoError(t, err)
		env := clitest.ParseEnvelope[[]models.Contract](t, output)
		require.Len(t, env.Data, 1)
		assert.Equal(t, "Spring campaign", env.Data[0].Title)

		output, err = clitest.ExecuteCLICommand(t, app, ListContractsCmd(), []string{"--month", "2027-01", "--json"})
		require.NoError(t, err)
		env = clitest.ParseEnvelope[[]models.Contract](t, output)
		require.Len(t, env.Data, 1)
		assert.Equal(t, "Retainer", env.Data[0].Title)
	})

	t.Run("search", func(t *testing.T) {
		output, err := clitest.ExecuteCLICommand(t, app, ListContractsCmd(), []string{"--search", "spring", "--quiet"})
		require.NoError(t, err)
		assert.Equal(t, strconv.Itoa(k.ID)+"\n", output)
	})

	t.Run("empty", func(t *testing.T) {
		output, err := clitest.ExecuteCLICommand(t, app, ListContractsCmd(), []string{"--client", "999"})
		require.NoError(t, err)
		assert.Contains(t, output, "No contracts found")
	})
}

func TestCreateContract_Negative(t *testing.T) {
	app := clitest.SetupCLITest(t)
	c, err := app.Gateway.CreateClient(t.Context(), "Acme", "")
	require.NoError(t, err)
	clientArg := strconv.Itoa(c.ID)

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"missing client", []string{"--title", "x"}, cli.ExitUsage},
		{"missing title", []string{"--client", clientArg}, cli.ExitUsage},
		{"bad month", []string{"--client", clientArg, "--title", "x", "--start", "March"}, cli.ExitValidation},
		{"bad fee", []string{"--client", clientArg, "--title", "x", "--fee", "lots"}, cli.ExitValidation},
		{"negative fee", []string{"--client", clientArg, "--title", "x", "--fee", "-5"}, cli.ExitValidation},
		{"ends before start", []string{"--client", clientArg, "--title", "x", "--start", "2026-05", "--end", "2026-01"}, cli.ExitValidation},
		{"unknown client", []string{"--client", "999", "--title", "x"}, cli.ExitConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := clitest.ExecuteCLICommand(t, app, CreateContractCmd(), tt.args)
			assert.Equal(t, tt.code, cli.ExitCode(err))
		})
	}
	assert.Empty(t, app.Gateway.ListContracts(t.Context(), models.ContractFilter{}))
}

func TestParseFee(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"2500", 250000},
		{"2,500.50", 250050},
		{"0.1", 10},
		{" 19.99 ", 1999},
	}
	for _, tt := range tests {
		got, err := parseFee(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	assert.Equal(t, "2500", formatFee(250000))
	assert.Equal(t, "19.99", formatFee(1999))
}
