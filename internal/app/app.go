package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/varoOP/seadexdb/internal/anilist"
	"github.com/varoOP/seadexdb/internal/config"
	"github.com/varoOP/seadexdb/internal/database"
	"github.com/varoOP/seadexdb/internal/domain"
	"github.com/varoOP/seadexdb/internal/logger"
	"github.com/varoOP/seadexdb/internal/notification"
	"github.com/varoOP/seadexdb/internal/pipeline"
	"github.com/varoOP/seadexdb/internal/relations"
	"github.com/varoOP/seadexdb/internal/releases"
	"github.com/varoOP/seadexdb/internal/repository"
	"github.com/varoOP/seadexdb/internal/seadex"
	"github.com/varoOP/seadexdb/internal/titles"
)

// App represents the main application with all dependencies initialized
type App struct {
	log                 zerolog.Logger
	config              *domain.Config
	paths               *domain.Paths
	entryRepo           domain.EntryRepository
	metadataRepo        domain.MetadataRepository
	rowRepo             domain.RowRepository
	overrideRepo        domain.OverrideRepository
	seadexService       seadex.Service
	anilistService      anilist.Service
	pipelineService     pipeline.Service
	notificationService domain.NotificationService
}

// NewApp creates a new application instance with all dependencies initialized
func NewApp() (*App, error) {
	// Initialize logger
	log := logger.NewLogger()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize paths (will be set properly when root path is known)
	paths := domain.NewPaths(".")

	// Initialize repositories
	fileRepo := repository.NewFileRepository(log)

	// Initialize services
	seadexService := seadex.NewService(log, cfg)
	anilistService := anilist.NewService(log, cfg)
	pipelineService := pipeline.NewService(log,
		titles.NewService(log),
		releases.NewService(log),
		relations.NewService(log),
	)
	notificationService := notification.NewService(log, cfg.DiscordWebhookURL)

	return &App{
		log:                 log,
		config:              cfg,
		paths:               paths,
		entryRepo:           fileRepo,
		metadataRepo:        fileRepo,
		rowRepo:             fileRepo,
		overrideRepo:        fileRepo,
		seadexService:       seadexService,
		anilistService:      anilistService,
		pipelineService:     pipelineService,
		notificationService: notificationService,
	}, nil
}

// Run executes the full release-list generation process
func (a *App) Run(rootPath string) (err error) {
	ctx := context.Background()

	// Send error notification if run fails
	defer func() {
		if err != nil {
			if notifyErr := a.notificationService.SendError(ctx, err); notifyErr != nil {
				a.log.Warn().Err(notifyErr).Msg("Failed to send error notification")
			}
		}
	}()

	a.paths = domain.NewPaths(rootPath)

	// Fetch entries from releases.moe
	entries, err := a.seadexService.FetchEntries(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch entries: %w", err)
	}

	if err := a.entryRepo.StoreEntries(ctx, a.paths.EntriesPath, entries); err != nil {
		return fmt.Errorf("failed to store entries: %w", err)
	}

	// Initialize metadata cache database
	// Store database in current directory (./) instead of root-path
	db, err := database.NewDB(".", a.log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	cacheRepo := database.NewCacheRepo(a.log, db)

	// Fetch metadata for every distinct AniList id
	result, err := a.anilistService.FetchMetadata(ctx, collectIDs(entries), cacheRepo)
	if err != nil {
		return fmt.Errorf("failed to fetch metadata: %w", err)
	}

	if err := a.metadataRepo.StoreMetadata(ctx, a.paths.MetadataPath, result.Records); err != nil {
		return fmt.Errorf("failed to store metadata: %w", err)
	}

	rows, stats, err := a.generateRows(ctx, entries, result.Records)
	if err != nil {
		return err
	}
	stats.MetadataFetched = result.Fetched
	stats.MetadataFromCache = result.FromCache

	if err := a.rowRepo.StoreRows(ctx, a.paths.ReleasesPath, rows); err != nil {
		return fmt.Errorf("failed to store rows: %w", err)
	}

	a.log.Info().
		Int("total_entries", stats.TotalEntries).
		Int("entries_with_metadata", stats.EntriesWithMetadata).
		Float64("metadata_coverage_pct", stats.MetadataCoveragePercent).
		Int("metadata_fetched", stats.MetadataFetched).
		Int("metadata_from_cache", stats.MetadataFromCache).
		Int("total_rows", stats.TotalRows).
		Int("dropped_entries", stats.DroppedEntries).
		Int("families", stats.Families).
		Int("standalone_entries", stats.StandaloneEntries).
		Msg("=== FINAL STATISTICS ===")

	// Send success notification
	if notifyErr := a.notificationService.SendSuccess(ctx, stats); notifyErr != nil {
		a.log.Warn().Err(notifyErr).Msg("Failed to send success notification")
	}

	return nil
}

// Generate rebuilds releases.json from the stored entries and metadata
// files, without touching the network
func (a *App) Generate(rootPath string) error {
	ctx := context.Background()
	a.paths = domain.NewPaths(rootPath)

	entries, err := a.entryRepo.GetEntries(ctx, a.paths.EntriesPath)
	if err != nil {
		return fmt.Errorf("failed to get entries: %w", err)
	}

	metadata, err := a.metadataRepo.GetMetadata(ctx, a.paths.MetadataPath)
	if err != nil {
		return fmt.Errorf("failed to get metadata: %w", err)
	}

	rows, _, err := a.generateRows(ctx, entries, metadata)
	if err != nil {
		return err
	}

	if err := a.rowRepo.StoreRows(ctx, a.paths.ReleasesPath, rows); err != nil {
		return fmt.Errorf("failed to store rows: %w", err)
	}

	return nil
}

// generateRows applies parent overrides and runs the pipeline
func (a *App) generateRows(ctx context.Context, entries []domain.Entry, metadata map[int]domain.MetadataRecord) ([]domain.Row, domain.Statistics, error) {
	overrides, err := a.overrideRepo.GetOverrides(ctx, a.paths.OverridesPath)
	if err != nil {
		return nil, domain.Statistics{}, fmt.Errorf("failed to get parent overrides: %w", err)
	}

	hints := make(map[int]int, len(overrides.Overrides))
	for _, o := range overrides.Overrides {
		if o.AnilistID > 0 && o.ParentID > 0 {
			hints[o.AnilistID] = o.ParentID
		}
	}
	for i := range entries {
		if parent, ok := hints[entries[i].AnilistID]; ok {
			entries[i].ParentHint = parent
		}
	}

	rows, stats := a.pipelineService.Run(ctx, entries, metadata)
	return rows, stats, nil
}

// FormatOverrides normalizes the parent-overrides file: overrides are
// sorted by AniList id, duplicates dropped, and the informational title
// field filled from stored metadata
func (a *App) FormatOverrides(rootPath string) error {
	ctx := context.Background()
	a.paths = domain.NewPaths(rootPath)

	overrides, err := a.overrideRepo.GetOverrides(ctx, a.paths.OverridesPath)
	if err != nil {
		return fmt.Errorf("failed to get parent overrides: %w", err)
	}

	metadata, err := a.metadataRepo.GetMetadata(ctx, a.paths.MetadataPath)
	if err != nil {
		a.log.Warn().Err(err).Msg("failed to load metadata, formatting without titles")
		metadata = map[int]domain.MetadataRecord{}
	}

	formatted := &domain.ParentOverrides{}
	seen := map[int]struct{}{}
	for _, o := range overrides.Overrides {
		if _, ok := seen[o.AnilistID]; ok {
			continue
		}
		seen[o.AnilistID] = struct{}{}

		if record, ok := metadata[o.AnilistID]; ok {
			if record.EnglishTitle != "" {
				o.Title = record.EnglishTitle
			} else {
				o.Title = record.RomajiTitle
			}
		}
		formatted.Overrides = append(formatted.Overrides, o)
	}

	sort.Slice(formatted.Overrides, func(i, j int) bool {
		return formatted.Overrides[i].AnilistID < formatted.Overrides[j].AnilistID
	})

	return a.overrideRepo.StoreOverrides(ctx, a.paths.OverridesPath, formatted)
}

// SeedCache imports a stored metadata.json into the SQLite metadata cache
func (a *App) SeedCache(rootPath string) error {
	ctx := context.Background()
	a.paths = domain.NewPaths(rootPath)

	metadata, err := a.metadataRepo.GetMetadata(ctx, a.paths.MetadataPath)
	if err != nil {
		return fmt.Errorf("failed to get metadata: %w", err)
	}

	db, err := database.NewDB(".", a.log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	cacheRepo := database.NewCacheRepo(a.log, db)

	ids := make([]int, 0, len(metadata))
	for id := range metadata {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		if err := cacheRepo.Upsert(ctx, metadata[id]); err != nil {
			return fmt.Errorf("failed to seed cache for id %d: %w", id, err)
		}
	}

	a.log.Info().Int("records", len(ids)).Msg("Seeded metadata cache")
	return nil
}

// collectIDs returns the distinct AniList ids of a batch of entries, in
// first-seen order
func collectIDs(entries []domain.Entry) []int {
	seen := map[int]struct{}{}
	ids := []int{}
	for _, entry := range entries {
		if entry.AnilistID <= 0 {
			continue
		}
		if _, ok := seen[entry.AnilistID]; ok {
			continue
		}
		seen[entry.AnilistID] = struct{}{}
		ids = append(ids, entry.AnilistID)
	}
	return ids
}
