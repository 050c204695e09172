package cmd

import (
	"NeuraFlow/pkg/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	Run: func(_ *cobra.Command, _ []string) {
		cfg, logger := bootstrap()
		defer logger.Sync() //nolint:errcheck

		db, err := store.Open(cfg.DBDriver, cfg.DBDSN)
		if err != nil {
			logger.Fatal("failed to connect database", zap.Error(err))
		}
		if err := store.Migrate(db); err != nil {
			logger.Fatal("failed migrate", zap.Error(err))
		}
		logger.Info("schema is up to date", zap.String("driver", cfg.DBDriver))
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
