package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/carson-networks/finance-bot/internal/extractor"
	"github.com/carson-networks/finance-bot/internal/ledger"
)

var dump bool

var parseCmd = &cobra.Command{
	Use:   "parse [text]",
	Short: "Extract transactions from a bank message without posting them",
	Long: `Reads the message from the arguments, or from stdin when none are given,
and prints the transaction candidates the extractor finds.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if text == "" {
			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			text = string(raw)
		}

		ex, err := newExtractor(cfg)
		if err != nil {
			return err
		}
		return printCandidates(cmd.OutOrStdout(), ex.Extract(text, time.Now()), dump)
	},
}

func init() {
	parseCmd.Flags().BoolVar(&dump, "dump", false, "dump the full candidate structs")
}

func printCandidates(out io.Writer, candidates []extractor.ExtractedTransaction, dump bool) error {
	if len(candidates) == 0 {
		return extractor.ErrExtractionEmpty
	}
	if dump {
		spew.Fdump(out, candidates)
		return nil
	}
	for i, tx := range candidates {
		amount, _ := tx.Amount.Get()
		fmt.Fprintf(out, "%d. %s %s on %s at %s [%s]\n",
			i+1, tx.Kind, amount.StringFixed(2), ledger.FormatDay(tx.Date), tx.Counterpart, tx.Category)
	}
	return nil
}
