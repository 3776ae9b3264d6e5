package database

const cacheSchema = `
-- AniList metadata cache: one row per AniList id, relations stored as JSON
CREATE TABLE anilist_cache (
	al_id INTEGER PRIMARY KEY,
	english TEXT NOT NULL DEFAULT '',
	romaji TEXT NOT NULL DEFAULT '',
	year INTEGER NOT NULL DEFAULT 0,
	format TEXT NOT NULL DEFAULT '',
	relations TEXT NOT NULL DEFAULT '[]',
	cached_at TIMESTAMP NOT NULL,
	last_used TIMESTAMP NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX idx_anilist_cached_at ON anilist_cache(cached_at);
CREATE INDEX idx_anilist_last_used ON anilist_cache(last_used);
CREATE INDEX idx_anilist_year ON anilist_cache(year);
CREATE INDEX idx_anilist_format ON anilist_cache(format);
`

// cacheMigrations contains incremental schema changes
// Each migration is applied in order based on the current user_version
// cacheMigrations[0] is empty because version 0 uses the base schema
var cacheMigrations = []string{
	"",
}
