// Package cmd provides the finance-bot command line.
package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/carson-networks/finance-bot/internal/config"
	"github.com/carson-networks/finance-bot/internal/logging"
)

var (
	envFile string

	cfg    *config.Config
	logger *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "finance-bot",
	Short: "Personal multi-account bookkeeping assistant",
	Long: `finance-bot keeps a personal ledger of accounts, expenses, income and
transfers, and answers through a chat conversation.

Example:
  finance-bot serve
  finance-bot chat
  finance-bot statement cash --from 2025-08-01 --to 2025-08-31`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(envFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
		logger = logging.SetupLogging(cfg.LogLevel, cmd.ErrOrStderr())
		return nil
	},
}

// Execute runs the command line. It is called once by main.main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "env file to load (default is ./.env when present)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(statementCmd)
}
