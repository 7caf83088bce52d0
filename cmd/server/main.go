package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"route_dispatch/internal/config"
	"route_dispatch/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "route-dispatch",
	Short: "Route and delivery management API",
	Long: `route-dispatch serves the admin, user, route, stop and delivery API.

Without a subcommand it behaves like "serve".`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func main() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration, sets up logging and opens the database.
func bootstrap() (*config.Config, *gorm.DB, io.Writer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	logOut := logger.Setup(logger.Options{File: cfg.LogFile, Level: cfg.LogLevel})
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("environment validation failed: %w", err)
	}
	db, err := config.Connect(cfg, logger.Gorm())
	if err != nil {
		return nil, nil, nil, err
	}
	logrus.WithField("driver", cfg.DBDriver).Info("database connected")
	return cfg, db, logOut, nil
}

func closeDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Warn("error closing database connection")
		return
	}
	logrus.Info("database connection closed")
}
