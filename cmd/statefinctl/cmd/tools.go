package cmd

import (
	"fmt"

	"statefin-backend/internal/adapters/http/routes"
	"statefin-backend/internal/config"
	"statefin-backend/internal/jobs"
	"statefin-backend/internal/pkg/password"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Print the bcrypt hash of a password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cost, _ := cmd.Flags().GetInt("cost")
		hash, err := password.NewHasher(cost).Hash(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print every guarded endpoint with its access rule",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := fiber.New()
		// handlers are only mounted, never called, so no database is opened
		table := routes.Setup(app, nil, &config.Config{}, jobs.NewHealthMonitor("@every 1m", nil), nil)
		return table.Print(cmd.OutOrStdout())
	},
}

func init() {
	hashPasswordCmd.Flags().Int("cost", password.DefaultCost, "bcrypt cost")
}
