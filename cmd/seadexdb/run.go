package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/varoOP/seadexdb/internal/app"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full release-list generation process",
	Long: `Run performs a complete update of the release list:
1. Fetches release-tracking entries from releases.moe
2. Fetches per-title metadata (titles, year, format, relations) from AniList
3. Applies manual parent overrides
4. Reconciles, deduplicates, and orders releases into display rows
5. Writes releases.json

Metadata fetching can be configured via --metadata-mode flag or metadata_mode in config:
  - default: Fetch ids missing from the cache or cached more than 7 days ago (default)
  - missing: Fetch only ids missing from the cache
  - all: Refetch everything, even if already cached
  - skip: Skip fetching entirely, use cache and title fallback only`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rootPath := viper.GetString("root_path")

		// Override metadata mode from CLI flag if provided
		if metadataMode, _ := cmd.Flags().GetString("metadata-mode"); metadataMode != "" {
			viper.Set("metadata_mode", metadataMode)
		}

		// Initialize application
		application, err := app.NewApp()
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}

		// Run the update process
		if err := application.Run(rootPath); err != nil {
			return fmt.Errorf("run failed: %w", err)
		}

		return nil
	},
}

func init() {
	runCmd.Flags().String("metadata-mode", "", "Metadata fetch mode: 'default' (stale or missing), 'missing' (uncached only), 'all' (everything), or 'skip' (cache only)")
	rootCmd.AddCommand(runCmd)
}
