package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"route_dispatch/internal/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, _, err := bootstrap()
		if err != nil {
			return err
		}
		defer closeDB(db)
		if err := config.Migrate(db); err != nil {
			return err
		}
		logrus.Info("migration complete")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the super admin from SUPERADMIN_* settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, _, err := bootstrap()
		if err != nil {
			return err
		}
		defer closeDB(db)
		return config.SeedSuperAdmin(db, cfg)
	},
}
