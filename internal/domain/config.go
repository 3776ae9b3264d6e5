package domain

// FetchMode defines the metadata fetching behavior against the cache
type FetchMode string

const (
	// FetchModeDefault - Fetch ids missing from the cache or cached more than 7 days ago
	FetchModeDefault FetchMode = "default"
	// FetchModeMissing - Fetch only ids missing from the cache
	FetchModeMissing FetchMode = "missing"
	// FetchModeAll - Refetch everything, even if already cached
	FetchModeAll FetchMode = "all"
	// FetchModeSkip - Skip fetching entirely, use cache and title fallback only
	FetchModeSkip FetchMode = "skip"
)

type Config struct {
	MetadataMode      FetchMode `toml:"metadata_mode" mapstructure:"metadata_mode"`
	DiscordWebhookURL string    `toml:"discord_webhook_url" mapstructure:"discord_webhook_url"`
	UserAgent         string    `toml:"user_agent" mapstructure:"user_agent"`
	CacheDir          string    `toml:"cache_dir" mapstructure:"cache_dir"`
}
