package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/studio/internal/cli"
	"github.com/thenoetrevino/studio/internal/cli/handler"
	"github.com/thenoetrevino/studio/internal/models"
)

// ContractCmd returns the contract parent command
func ContractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contract",
		Short: "Manage client contracts",
	}

	cmd.AddCommand(CreateContractCmd())
	cmd.AddCommand(ListContractsCmd())

	return cmd
}

// CreateContractCmd returns the contract create subcommand
func CreateContractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a contract to a client",
		Long: `Add a monthly retainer contract to a client. Without --end the contract is
open-ended; without --start it begins this month.

Examples:
  studio contract create --client=1 --title="Retainer 2026" --start=2026-01 --end=2026-12 --fee=2500
`,
		RunE: handler.Command(runCreateContract),
	}

	cmd.Flags().Int("client", 0, "Client ID (required)")
	cmd.Flags().String("title", "", "Contract title (required)")
	cmd.Flags().String("start", "", "First month (YYYY-MM)")
	cmd.Flags().String("end", "", "Last month (YYYY-MM)")
	cmd.Flags().String("fee", "", "Monthly fee, e.g. 2500 or 2500.50")
	cli.AddOutputFlags(cmd)

	return cmd
}

// ListContractsCmd returns the contract list subcommand
func ListContractsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contracts",
		Long: `List contracts, optionally narrowed to a client, a status or the contracts
running in a given month.

Examples:
  studio contract list --client=1
  studio contract list --month=2026-03 --json
`,
		RunE: handler.Command(runListContracts),
	}

	cmd.Flags().Int("client", 0, "Only contracts of this client")
	cmd.Flags().String("status", "", "Only contracts with this status")
	cmd.Flags().String("search", "", "Only contracts whose title contains this text")
	cmd.Flags().String("month", "", "Only contracts running in this month (YYYY-MM)")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runCreateContract(ctx context.Context, env *handler.Env) error {
	clientID, err := env.ID("client")
	if err != nil {
		return err
	}
	title, err := env.RequiredString("title")
	if err != nil {
		return err
	}

	in := &models.Contract{ClientID: clientID, Title: title}
	if s := env.String("start"); s != "" {
		if in.StartMonth, err = cli.ParseMonth(s); err != nil {
			return err
		}
	}
	if s := env.String("end"); s != "" {
		end, err := cli.ParseMonth(s)
		if err != nil {
			return err
		}
		in.EndMonth = &end
	}
	if s := env.String("fee"); s != "" {
		if in.MonthlyFeeCents, err = parseFee(s); err != nil {
			return cli.WithSuggestion(cli.Invalid(err), "Use a plain amount like 2500 or 2500.50")
		}
	}

	k, err := env.App.Gateway.CreateContract(ctx, in)
	if err != nil {
		if cli.ExitCode(err) == cli.ExitConflict {
			return cli.WithSuggestion(err, "Use 'studio client list' to see available clients")
		}
		return err
	}
	return env.Out.Success(k, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Contract created (ID: %d)\n", k.ID)
		fmt.Fprintf(w, "  %s\n", contractLine(k))
	})
}

func runListContracts(ctx context.Context, env *handler.Env) error {
	filter := models.ContractFilter{
		ClientID: env.Int("client"),
		Status:   env.String("status"),
		Search:   env.String("search"),
	}
	if s := env.String("month"); s != "" {
		m, err := cli.ParseMonth(s)
		if err != nil {
			return err
		}
		filter.Month = &m
	}

	contracts := env.App.Gateway.ListContracts(ctx, filter)
	return env.Out.Success(contracts, func(w io.Writer) {
		if len(contracts) == 0 {
			fmt.Fprintln(w, "No contracts found")
			return
		}
		for _, k := range contracts {
			fmt.Fprintln(w, contractLine(k))
		}
	})
}

func contractLine(k *models.Contract) string {
	end := "open"
	if k.EndMonth != nil {
		end = k.EndMonth.Format("2006-01")
	}
	return fmt.Sprintf("#%d %s (%s) %s → %s  %s/mo",
		k.ID, k.Title, k.Status, k.StartMonth.Format("2006-01"), end, formatFee(k.MonthlyFeeCents))
}

var errBadFee = errors.New("fee must be a non-negative amount")

// parseFee reads "2500", "2,500" or "2500.50" as cents
func parseFee(s string) (int64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
	if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: %q", errBadFee, s)
	}
	return int64(math.Round(v * 100)), nil
}

func formatFee(cents int64) string {
	if cents%100 == 0 {
		return strconv.FormatInt(cents/100, 10)
	}
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
