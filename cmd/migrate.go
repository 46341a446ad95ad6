package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carson-networks/finance-bot/internal/config"
	"github.com/carson-networks/finance-bot/internal/storage/sqlconfig"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations for the sqlite or postgres backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.StoreBackend == config.BackendWorkbook {
			return fmt.Errorf("the %s backend has no schema to migrate", config.BackendWorkbook)
		}
		dialect, err := sqlconfig.ParseDialect(cfg.StoreBackend)
		if err != nil {
			return err
		}
		return sqlconfig.Migrate(dialect, sqlDSN(cfg, dialect), logger)
	},
}
