package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/varoOP/seadexdb/internal/app"
)

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Normalize the parent-overrides mapping file",
	Long: `Format rewrites parent-overrides.yaml: overrides are sorted by
AniList id, duplicates are dropped, and the informational title field is
filled from stored metadata.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rootPath := viper.GetString("root_path")

		application, err := app.NewApp()
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}

		if err := application.FormatOverrides(rootPath); err != nil {
			return fmt.Errorf("format failed: %w", err)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(formatCmd)
}
