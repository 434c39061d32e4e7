package system

import (
	"fmt"

	clicfg "github.com/crucial707/district-digest/cmd/cli/config"
	"github.com/crucial707/district-digest/cmd/cli/output"
	"github.com/crucial707/district-digest/internal/config"
	"github.com/crucial707/district-digest/internal/db"
	"github.com/spf13/cobra"
)

// ==========================
// Init System
// ==========================
func InitSystem(rootCmd *cobra.Command) {
	rootCmd.AddCommand(migrateCmd(), districtsCmd())
}

// ==========================
// MIGRATE
// ==========================
func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := clicfg.Load()
			if err != nil {
				return err
			}
			if err := db.Migrate(cfg.DSN()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied.")
			return nil
		},
	}
}

// ==========================
// DISTRICTS
// ==========================
func districtsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "districts",
		Short: "List the districts offered on the dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := clicfg.Load()
			if err != nil {
				return err
			}
			d, err := config.LoadDistricts(cfg.DistrictsFile)
			if err != nil {
				return err
			}
			if asJSON {
				return output.RenderJSON(cmd.OutOrStdout(), d)
			}
			rows := make([][]interface{}, 0, len(d.Names))
			for _, name := range d.Names {
				rows = append(rows, []interface{}{name, d.State})
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"District", "State"}, rows)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output raw JSON instead of a table")
	return cmd
}
