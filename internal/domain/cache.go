package domain

import (
	"context"
	"time"
)

// CacheRepo defines the interface for metadata cache database operations
type CacheRepo interface {
	// GetAll returns every cached metadata record keyed by AniList id
	GetAll(ctx context.Context) (map[int]CachedMetadata, error)

	// Upsert inserts or refreshes a cached metadata record
	Upsert(ctx context.Context, record MetadataRecord) error

	// Delete removes a cached metadata record
	Delete(ctx context.Context, anilistID int) error
}

// CachedMetadata is a metadata record together with its cache timestamp
type CachedMetadata struct {
	Record   MetadataRecord
	CachedAt time.Time
}
