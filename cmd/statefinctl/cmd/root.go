// Package cmd implements the statefinctl maintenance commands.
package cmd

import (
	"fmt"

	"statefin-backend/internal/config"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	// Version is set at build time
	Version = "1.0.0"

	// loaded by PersistentPreRunE for commands that need it
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "statefinctl",
	Short: "Maintenance CLI for the StateFin API",
	Long: `statefinctl runs maintenance tasks against the StateFin database.

It reads the same environment (and .env file) as the server, so
APP_MODE selects the DEV_ or PROD_ database settings.`,
	Version:      Version,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "hash-password" || cmd.Name() == "routes" {
			return nil
		}
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = config.CloseDatabase()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(hashPasswordCmd)
	rootCmd.AddCommand(routesCmd)
}

func connect() (*gorm.DB, error) {
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		return nil, err
	}
	return db, nil
}
