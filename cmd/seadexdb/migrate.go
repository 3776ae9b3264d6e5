package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/varoOP/seadexdb/internal/app"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Seed the metadata cache from a stored metadata.json",
	Long: `Migrate imports the metadata.json of a previous run into the
SQLite metadata cache, so a fresh checkout does not have to refetch
everything from AniList.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rootPath := viper.GetString("root_path")

		application, err := app.NewApp()
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}

		if err := application.SeedCache(rootPath); err != nil {
			return fmt.Errorf("migrate failed: %w", err)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
