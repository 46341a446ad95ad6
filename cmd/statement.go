package cmd

import (
	"errors"
	"fmt"

	"github.com/aarondl/opt/omit"
	"github.com/spf13/cobra"

	"github.com/carson-networks/finance-bot/internal/conversation"
	"github.com/carson-networks/finance-bot/internal/ledger"
	"github.com/carson-networks/finance-bot/internal/statement"
)

var (
	dateFrom string
	dateTo   string
)

var statementCmd = &cobra.Command{
	Use:   "statement <account>",
	Short: "Print an account statement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := windowFromFlags(dateFrom, dateTo)
		if err != nil {
			return err
		}

		a, err := openApp(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		st, err := a.svc.Statement.Statement(cmd.Context(), args[0], w)
		if err != nil && !errors.Is(err, statement.ErrLedgerInconsistency) {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), conversation.FormatStatement(st))
		return err
	},
}

func init() {
	statementCmd.Flags().StringVar(&dateFrom, "from", "", "first day (YYYY-MM-DD)")
	statementCmd.Flags().StringVar(&dateTo, "to", "", "last day (YYYY-MM-DD)")
}

func windowFromFlags(from, to string) (ledger.Window, error) {
	var w ledger.Window
	if from != "" {
		d, err := ledger.ParseDay(from)
		if err != nil {
			return w, fmt.Errorf("invalid --from: %w", err)
		}
		w.From = omit.From(d)
	}
	if to != "" {
		d, err := ledger.ParseDay(to)
		if err != nil {
			return w, fmt.Errorf("invalid --to: %w", err)
		}
		w.To = omit.From(d)
	}
	return w, nil
}
