package pipeline

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/varoOP/seadexdb/internal/domain"
	"github.com/varoOP/seadexdb/internal/relations"
	"github.com/varoOP/seadexdb/internal/releases"
	"github.com/varoOP/seadexdb/internal/titles"
)

type Service interface {
	// Run transforms one batch of entries plus their metadata records into
	// the final ordered, deduplicated row list.
	Run(ctx context.Context, entries []domain.Entry, metadata map[int]domain.MetadataRecord) ([]domain.Row, domain.Statistics)
}

type service struct {
	log       zerolog.Logger
	titles    titles.Service
	releases  releases.Service
	relations relations.Service
}

func NewService(log zerolog.Logger, titleSvc titles.Service, releaseSvc releases.Service, relationSvc relations.Service) Service {
	return &service{
		log:       log.With().Str("module", "pipeline").Logger(),
		titles:    titleSvc,
		releases:  releaseSvc,
		relations: relationSvc,
	}
}

func (s *service) Run(ctx context.Context, entries []domain.Entry, metadata map[int]domain.MetadataRecord) ([]domain.Row, domain.Statistics) {
	stats := domain.Statistics{
		TotalEntries: len(entries),
	}

	seen := make(map[string]struct{})
	rows := []domain.Row{}
	members := []relations.Member{}

	for _, entry := range entries {
		if _, ok := metadata[entry.AnilistID]; ok {
			stats.EntriesWithMetadata++
		}

		main, alt := s.titles.Resolve(entry, metadata, seen)

		collection := s.releases.Collect(entry.Torrents, strings.TrimSpace(entry.TheoreticalBest))
		best := s.releases.Deduplicate(collection.Best)
		alts := s.releases.Deduplicate(collection.Alt)
		sort.Strings(best)
		sort.Strings(alts)

		if len(best) == 0 && len(alts) == 0 {
			stats.DroppedEntries++
			s.log.Debug().Str("title", main).Int("alid", entry.AnilistID).Msg("Entry has no releases, dropping")
			continue
		}

		row := domain.Row{
			Title:        main,
			AltTitle:     alt,
			Notes:        stripHTML(strings.TrimSpace(entry.Notes)),
			Comparison:   strings.ReplaceAll(strings.TrimSpace(entry.Comparison), ",", "\n"),
			BestReleases: []domain.Release{},
			AltReleases:  []domain.Release{},
		}
		if record, ok := metadata[entry.AnilistID]; ok {
			row.Year = record.ReleaseYear
			row.Format = record.Format
		}

		// The shorter bucket is padded with empty slots so best/alt pairs
		// line up positionally; empty slots are skipped when the emitted
		// lists are built.
		width := len(best)
		if len(alts) > width {
			width = len(alts)
		}
		for i := 0; i < width; i++ {
			if i < len(best) {
				row.BestReleases = append(row.BestReleases, domain.Release{
					Name:   best[i],
					Status: s.releases.Classify(collection.Meta[domain.MetaKey{Group: best[i], Best: true}]),
				})
			}
			if i < len(alts) {
				row.AltReleases = append(row.AltReleases, domain.Release{
					Name:   alts[i],
					Status: s.releases.Classify(collection.Meta[domain.MetaKey{Group: alts[i], Best: false}]),
				})
			}
		}

		members = append(members, relations.Member{
			ID:         entry.AnilistID,
			Title:      main,
			Pos:        len(rows),
			ParentHint: entry.ParentHint,
		})
		rows = append(rows, row)
	}

	ordered := s.relations.Order(members, metadata)

	out := make([]domain.Row, 0, len(rows))
	for _, m := range ordered.Members {
		out = append(out, rows[m.Pos])
	}

	stats.TotalRows = len(out)
	stats.Families = ordered.Families
	stats.StandaloneEntries = ordered.Standalone
	if stats.TotalEntries > 0 {
		stats.MetadataCoveragePercent = (float64(stats.EntriesWithMetadata) / float64(stats.TotalEntries)) * 100
	}

	s.log.Info().
		Int("entries", stats.TotalEntries).
		Int("rows", stats.TotalRows).
		Int("dropped", stats.DroppedEntries).
		Int("families", stats.Families).
		Int("standalone", stats.StandaloneEntries).
		Msg("Pipeline complete")

	return out, stats
}
