package cmd

import (
	"github.com/spf13/cobra"

	"github.com/carson-networks/finance-bot/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat and REST API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Info("finance-bot starting")

		a, err := openApp(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		rest := api.Rest{
			Logger:  logger,
			Port:    cfg.HTTPPort,
			Service: a.svc,
			Bot:     a.bot,
			Allowed: cfg.ChatAllowed,
		}
		return rest.Serve()
	},
}
