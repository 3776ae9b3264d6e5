package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"github.com/varoOP/seadexdb/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileRepository implements the entry, metadata, row, and override
// repositories using file storage
type FileRepository struct {
	log zerolog.Logger
}

// NewFileRepository creates a new file-based repository
func NewFileRepository(log zerolog.Logger) *FileRepository {
	return &FileRepository{
		log: log.With().Str("module", "repository").Logger(),
	}
}

// Ensure FileRepository implements all repository interfaces
var _ domain.EntryRepository = (*FileRepository)(nil)
var _ domain.MetadataRepository = (*FileRepository)(nil)
var _ domain.RowRepository = (*FileRepository)(nil)
var _ domain.OverrideRepository = (*FileRepository)(nil)

// GetEntries retrieves entry data from a file
func (r *FileRepository) GetEntries(ctx context.Context, path domain.DataPath) ([]domain.Entry, error) {
	entries := []domain.Entry{}
	if err := r.readJSON(path, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// StoreEntries saves entry data to a file
func (r *FileRepository) StoreEntries(ctx context.Context, path domain.DataPath, entries []domain.Entry) error {
	if err := r.writeJSON(path, entries); err != nil {
		return err
	}
	r.log.Debug().Str("path", string(path)).Int("count", len(entries)).Msg("stored entries")
	return nil
}

// GetMetadata retrieves metadata records from a file
func (r *FileRepository) GetMetadata(ctx context.Context, path domain.DataPath) (map[int]domain.MetadataRecord, error) {
	records := []domain.MetadataRecord{}
	if err := r.readJSON(path, &records); err != nil {
		return nil, err
	}

	metadata := make(map[int]domain.MetadataRecord, len(records))
	for _, record := range records {
		metadata[record.AnilistID] = record
	}
	return metadata, nil
}

// StoreMetadata saves metadata records to a file, sorted by AniList id so
// repeated runs produce identical files
func (r *FileRepository) StoreMetadata(ctx context.Context, path domain.DataPath, metadata map[int]domain.MetadataRecord) error {
	records := make([]domain.MetadataRecord, 0, len(metadata))
	for _, record := range metadata {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].AnilistID < records[j].AnilistID
	})

	if err := r.writeJSON(path, records); err != nil {
		return err
	}
	r.log.Debug().Str("path", string(path)).Int("count", len(records)).Msg("stored metadata")
	return nil
}

// StoreRows saves the final row list to a file
func (r *FileRepository) StoreRows(ctx context.Context, path domain.DataPath, rows []domain.Row) error {
	if err := r.writeJSON(path, rows); err != nil {
		return err
	}
	r.log.Debug().Str("path", string(path)).Int("count", len(rows)).Msg("stored rows")
	return nil
}

// GetOverrides retrieves the parent-override mapping from a file. A
// missing file yields an empty mapping.
func (r *FileRepository) GetOverrides(ctx context.Context, path domain.DataPath) (*domain.ParentOverrides, error) {
	overrides := &domain.ParentOverrides{}

	f, err := os.Open(string(path))
	if err != nil {
		if os.IsNotExist(err) {
			return overrides, nil
		}
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	if err = yaml.Unmarshal(b, overrides); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml from %s: %w", path, err)
	}

	return overrides, nil
}

// StoreOverrides saves the parent-override mapping to a file
func (r *FileRepository) StoreOverrides(ctx context.Context, path domain.DataPath, overrides *domain.ParentOverrides) error {
	b, err := yaml.Marshal(overrides)
	if err != nil {
		return fmt.Errorf("failed to marshal yaml: %w", err)
	}

	if err := r.ensureDir(path); err != nil {
		return err
	}

	f, err := os.Create(string(path))
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer f.Close()

	if _, err = f.Write(b); err != nil {
		return fmt.Errorf("failed to write to file %s: %w", path, err)
	}

	r.log.Debug().Str("path", string(path)).Int("count", len(overrides.Overrides)).Msg("stored overrides")
	return nil
}

func (r *FileRepository) readJSON(path domain.DataPath, v any) error {
	info, err := os.Stat(string(path))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s: %w", path, err)
		}
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}

	f, err := os.Open(string(path))
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer f.Close()

	body, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}

	if err = json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to unmarshal json from %s: %w", path, err)
	}

	return nil
}

func (r *FileRepository) writeJSON(path domain.DataPath, v any) error {
	j, err := json.MarshalIndent(v, "", "   ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	if err := r.ensureDir(path); err != nil {
		return err
	}

	f, err := os.Create(string(path))
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer f.Close()

	if _, err = f.Write(j); err != nil {
		return fmt.Errorf("failed to write to file %s: %w", path, err)
	}

	return nil
}

func (r *FileRepository) ensureDir(path domain.DataPath) error {
	dir := filepath.Dir(string(path))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
