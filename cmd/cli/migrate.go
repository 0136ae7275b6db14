package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/axellelanca/coursecatalog/cmd"
	"github.com/axellelanca/coursecatalog/internal/database"
)

// MigrateCmd represents the 'migrate' command
var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Executes database migrations to create or update tables.",
	Long: `This command connects to the configured database (SQLite or PostgreSQL)
and runs GORM automatic migrations for the 'courses' and 'clicks' tables.`,
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		e, err := openEnv(cobraCmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer e.close()

		if err := database.Migrate(e.db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		fmt.Fprintln(cobraCmd.OutOrStdout(), "Database migrations executed successfully.")
		return nil
	},
}

func init() {
	cmd.RootCmd.AddCommand(MigrateCmd)
}
