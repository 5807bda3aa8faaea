package main

import (
	"fmt"
	"os"

	"poshts/internal/config"
	"poshts/internal/db"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	dbDriver string
	dbURL    string
)

var rootCmd = &cobra.Command{
	Use:   "poshtsctl",
	Short: "Poshts admin CLI - database maintenance and user management",
	Long: `poshtsctl talks to the poshts database directly.
Connection settings default to DB_DRIVER / DATABASE_URL (and .env).`,
	SilenceUsage: true,
}

func init() {
	cfg, _ := config.Load()
	rootCmd.PersistentFlags().StringVar(&dbDriver, "driver", cfg.DBDriver, "Database driver: postgres or sqlite")
	rootCmd.PersistentFlags().StringVar(&dbURL, "database-url", cfg.DatabaseURL, "Database DSN")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(promoteAdminCmd)
	rootCmd.AddCommand(setAutoReplyCmd)
}

// openStore connects without migrating; migrate is its own command.
func openStore() (*db.Store, *gorm.DB, error) {
	g, err := db.Open(dbDriver, dbURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	return db.NewStore(g), g, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
