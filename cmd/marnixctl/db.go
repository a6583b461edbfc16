package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/pashioya/marnix13/pkg/db"
	"github.com/pashioya/marnix13/pkg/server"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the database",
	Long:  `Manage the database schema and migrations.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'db' requires a subcommand (migrate, down, status)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(dbCmd)
	rootCmd.PersistentFlags().Bool("db-debug", false, "log every SQL statement")
}

// openStores connects to DATABASE_URL and returns the gorm stores.
func openStores(cmd *cobra.Command) (*gorm.DB, server.Stores, error) {
	debug, _ := cmd.Flags().GetBool("db-debug")
	database, err := db.Connect(db.Config{Debug: debug})
	if err != nil {
		return nil, server.Stores{}, err
	}
	return database, server.GormStores(database), nil
}

// closeDB releases the connection pool behind database.
func closeDB(database *gorm.DB) {
	if sqlDB, err := database.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
