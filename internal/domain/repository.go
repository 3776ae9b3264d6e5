package domain

import (
	"context"
)

// EntryRepository defines the interface for entry data storage
type EntryRepository interface {
	GetEntries(ctx context.Context, path DataPath) ([]Entry, error)
	StoreEntries(ctx context.Context, path DataPath, entries []Entry) error
}

// MetadataRepository defines the interface for metadata storage
type MetadataRepository interface {
	GetMetadata(ctx context.Context, path DataPath) (map[int]MetadataRecord, error)
	StoreMetadata(ctx context.Context, path DataPath, metadata map[int]MetadataRecord) error
}

// RowRepository defines the interface for the final row list output
type RowRepository interface {
	StoreRows(ctx context.Context, path DataPath, rows []Row) error
}

// OverrideRepository defines the interface for the parent-override mapping file
type OverrideRepository interface {
	GetOverrides(ctx context.Context, path DataPath) (*ParentOverrides, error)
	StoreOverrides(ctx context.Context, path DataPath, overrides *ParentOverrides) error
}

// ParentOverrides is the manual family-correction mapping. Each override
// pins the immediate parent of one AniList id; Title is informational only.
type ParentOverrides struct {
	Overrides []ParentOverride `yaml:"ParentMap"`
}

// ParentOverride is a single parent-hint entry
type ParentOverride struct {
	AnilistID int    `yaml:"alid"`
	ParentID  int    `yaml:"parentid"`
	Title     string `yaml:"title,omitempty"`
}
