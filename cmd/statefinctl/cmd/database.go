package cmd

import (
	"fmt"

	"statefin-backend/internal/adapters/persistence/models"
	"statefin-backend/internal/config"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connect()
		if err != nil {
			return err
		}
		if err := models.AutoMigrate(db); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Database migration completed")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed permissions, the built-in roles and the demo accounts",
	Long: `Seed inserts the default permissions, the USER, MANAGER and ADMIN roles
and the demo accounts. Existing rows are left untouched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connect()
		if err != nil {
			return err
		}
		migrate, _ := cmd.Flags().GetBool("migrate")
		if migrate {
			if err := models.AutoMigrate(db); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
		}
		if err := config.NewSeeder(db, cfg.BcryptCost).Run(); err != nil {
			return fmt.Errorf("seeding failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Database seeding completed")
		return nil
	},
}

func init() {
	seedCmd.Flags().Bool("migrate", false, "Run migrations before seeding")
}
