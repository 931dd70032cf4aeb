package main

import (
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.openDB(); err != nil {
				return err
			}

			e.log.Info("migrations complete", "driver", e.cfg.DB.Driver)
			return nil
		},
	}
}
