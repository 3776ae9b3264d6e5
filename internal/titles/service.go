package titles

import (
	"github.com/rs/zerolog"
	"github.com/varoOP/seadexdb/internal/domain"
)

type Service interface {
	// Resolve picks the (main, alt) title pair for one entry. The seen set
	// holds every main title already assigned in this batch and is updated
	// with the final main title; it must be threaded through all entries in
	// fixed input order.
	Resolve(entry domain.Entry, metadata map[int]domain.MetadataRecord, seen map[string]struct{}) (string, string)
}

type service struct {
	log zerolog.Logger
}

func NewService(log zerolog.Logger) Service {
	return &service{
		log: log.With().Str("module", "titles").Logger(),
	}
}

func (s *service) Resolve(entry domain.Entry, metadata map[int]domain.MetadataRecord, seen map[string]struct{}) (string, string) {
	english := entry.EnglishTitle
	romaji := entry.RomajiTitle
	if record, ok := metadata[entry.AnilistID]; ok {
		english = record.EnglishTitle
		romaji = record.RomajiTitle
	}

	main := english
	alt := romaji
	if main == "" {
		main = romaji
		alt = ""
	}

	if main == alt {
		alt = ""
	}

	// Single-pass disambiguation: if the main title is taken and an alt
	// exists, swap once. A still-colliding swapped main is left as-is.
	if _, taken := seen[main]; taken && alt != "" {
		s.log.Debug().Str("title", main).Str("alt_title", alt).Msg("Duplicate main title, swapping with alt")
		main, alt = alt, main
	}

	seen[main] = struct{}{}
	return main, alt
}
