package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/varoOP/seadexdb/internal/app"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Rebuild releases.json from stored entries and metadata",
	Long: `Generate rebuilds releases.json from the entries.json and
metadata.json of a previous run, without any network access. Useful when
iterating on the site or the parent-overrides file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rootPath := viper.GetString("root_path")

		application, err := app.NewApp()
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}

		if err := application.Generate(rootPath); err != nil {
			return fmt.Errorf("generate failed: %w", err)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
}
