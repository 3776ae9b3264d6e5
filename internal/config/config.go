package config

import (
	"fmt"

	"github.com/spf13/viper"
	"github.com/varoOP/seadexdb/internal/domain"
)

// Load loads configuration from multiple sources:
// 1. Config file (config.yaml / .seadexdb.yaml, optional)
// 2. Environment variables (SEADEXDB_*)
func Load() (*domain.Config, error) {
	cfg := &domain.Config{}

	cfg.DiscordWebhookURL = viper.GetString("discord_webhook_url")
	cfg.CacheDir = viper.GetString("cache_dir")
	cfg.UserAgent = viper.GetString("user_agent")
	if cfg.UserAgent == "" {
		cfg.UserAgent = "seadexdb"
	}

	// Metadata mode (default: "default")
	modeStr := viper.GetString("metadata_mode")
	if modeStr == "" {
		cfg.MetadataMode = domain.FetchModeDefault
	} else {
		cfg.MetadataMode = domain.FetchMode(modeStr)
		if cfg.MetadataMode != domain.FetchModeDefault &&
			cfg.MetadataMode != domain.FetchModeMissing &&
			cfg.MetadataMode != domain.FetchModeAll &&
			cfg.MetadataMode != domain.FetchModeSkip {
			return nil, fmt.Errorf("invalid metadata_mode: %s (must be 'default', 'missing', 'all', or 'skip')", modeStr)
		}
	}

	return cfg, nil
}
