package releases

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/varoOP/seadexdb/internal/domain"
)

const dualAudioSuffix = " (Dual Audio)"

// Collection is the per-entry result of walking one torrent list: quality
// flags per (group, bestness) key plus the raw best/alt name buckets in
// first-seen order, before deduplication.
type Collection struct {
	Meta map[domain.MetaKey]*domain.GroupMeta
	Best []string
	Alt  []string
}

type Service interface {
	// Collect walks an entry's torrent list and produces its release-group
	// metadata and name buckets. When no best release was found and the
	// entry carries a theoretical-best description, a single synthetic best
	// entry is created from it.
	Collect(torrents []domain.Torrent, theoreticalBest string) *Collection

	// Deduplicate collapses dual-audio/plain duplicates of the same group
	// within one bucket. The dual-audio variant subsumes the plain one.
	Deduplicate(names []string) []string

	// Classify maps accumulated flags to the single status label, by fixed
	// precedence. A nil record yields no caveat.
	Classify(meta *domain.GroupMeta) string
}

type service struct {
	log zerolog.Logger
}

func NewService(log zerolog.Logger) Service {
	return &service{
		log: log.With().Str("module", "releases").Logger(),
	}
}

func (s *service) Collect(torrents []domain.Torrent, theoreticalBest string) *Collection {
	c := &Collection{
		Meta: make(map[domain.MetaKey]*domain.GroupMeta),
	}
	trackers := make(map[string]map[string]struct{})

	for _, tr := range torrents {
		if tr.ReleaseGroup == "" {
			continue
		}

		group := tr.ReleaseGroup
		if tr.DualAudio {
			group += dualAudioSuffix
		}

		// Tracker evidence is recorded per formatted group, independent of
		// bestness.
		if _, ok := trackers[group]; !ok {
			trackers[group] = make(map[string]struct{})
		}
		trackers[group][strings.ToLower(tr.Tracker)] = struct{}{}

		unmuxed, broken, incomplete := parseTags(tr.Tags)

		key := domain.MetaKey{Group: group, Best: tr.IsBest}
		if meta, ok := c.Meta[key]; ok {
			// Flags accumulate monotonically; they never turn back off.
			meta.Unmuxed = meta.Unmuxed || unmuxed
			meta.Broken = meta.Broken || broken
			meta.Incomplete = meta.Incomplete || incomplete
		} else {
			c.Meta[key] = &domain.GroupMeta{
				Unmuxed:    unmuxed,
				Broken:     broken,
				Incomplete: incomplete,
				NotNyaa:    true,
			}
		}

		if tr.IsBest {
			c.Best = appendUnique(c.Best, group)
		} else {
			c.Alt = appendUnique(c.Alt, group)
		}
	}

	for key, meta := range c.Meta {
		_, nyaa := trackers[key.Group]["nyaa"]
		meta.NotNyaa = !nyaa
	}

	if len(c.Best) == 0 && theoreticalBest != "" {
		s.log.Debug().Str("theoretical_best", theoreticalBest).Msg("No best release, synthesizing from theoretical best")
		c.Best = append(c.Best, theoreticalBest)
		c.Meta[domain.MetaKey{Group: theoreticalBest, Best: true}] = &domain.GroupMeta{
			Unmuxed: strings.Contains(theoreticalBest, "+"),
			NotNyaa: true,
		}
	}

	return c
}

func (s *service) Deduplicate(names []string) []string {
	variants := make(map[string][]string)
	order := []string{}

	for _, name := range names {
		base := strings.ReplaceAll(name, dualAudioSuffix, "")
		if _, ok := variants[base]; !ok {
			order = append(order, base)
		}
		variants[base] = append(variants[base], name)
	}

	result := make([]string, 0, len(order))
	for _, base := range order {
		result = append(result, pickVariant(variants[base]))
	}

	return result
}

// pickVariant picks the surviving variant of one base name: the dual-audio
// variant when present among duplicates, else the first seen.
func pickVariant(versions []string) string {
	if len(versions) > 1 {
		for _, version := range versions {
			if strings.HasSuffix(version, dualAudioSuffix) {
				return version
			}
		}
	}
	return versions[0]
}

func (s *service) Classify(meta *domain.GroupMeta) string {
	if meta == nil {
		return domain.StatusNone
	}

	switch {
	case meta.Broken:
		return domain.StatusBroken
	case meta.Incomplete:
		return domain.StatusIncomplete
	case meta.Unmuxed:
		return domain.StatusUnmuxed
	case meta.NotNyaa:
		return domain.StatusNotNyaa
	}

	return domain.StatusNone
}

func parseTags(tags []string) (unmuxed, broken, incomplete bool) {
	for _, tag := range tags {
		switch strings.ToLower(tag) {
		case "unmuxed":
			unmuxed = true
		case "broken":
			broken = true
		case "incomplete":
			incomplete = true
		}
	}
	return unmuxed, broken, incomplete
}

func appendUnique(names []string, name string) []string {
	for _, n := range names {
		if n == name {
			return names
		}
	}
	return append(names, name)
}
