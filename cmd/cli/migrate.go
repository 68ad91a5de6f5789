package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/axellelanca/linkshortener/cmd"
	"github.com/axellelanca/linkshortener/internal/config"
	"github.com/axellelanca/linkshortener/internal/db"
)

// MigrateCmd creates or updates the SQLite tables. Redis needs no schema.
var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Executes database migrations to create or update tables.",
	Long: `This command connects to the configured SQLite store and executes
GORM automatic migrations for the 'links', 'url_index' and 'counters' tables.`,
	RunE: func(c *cobra.Command, args []string) error {
		if cmd.Cfg.Store.Driver != config.DriverSQLite {
			fmt.Fprintf(c.OutOrStdout(), "Store driver %q has no schema, nothing to migrate.\n", cmd.Cfg.Store.Driver)
			return nil
		}

		gdb, err := db.OpenSQLite(cmd.Cfg.Store.SQLite.Name)
		if err != nil {
			return err
		}
		defer db.CloseSQLite(gdb)

		if err := db.Migrate(gdb); err != nil {
			return err
		}
		fmt.Fprintln(c.OutOrStdout(), "Database migrations executed successfully.")
		return nil
	},
}

func init() {
	cmd.RootCmd.AddCommand(MigrateCmd)
}
