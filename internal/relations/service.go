package relations

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/varoOP/seadexdb/internal/domain"
)

// yearUnknown sorts entries without a release year after everything else.
const yearUnknown = 9999

// Member is one orderable entry: its AniList id (0 for standalone entries),
// its resolved main title, the position of its row in the pipeline's row
// slice, and an optional manual parent hint.
type Member struct {
	ID         int
	Title      string
	Pos        int
	ParentHint int
}

// Ordered is the result of grouping and sorting one batch of members.
type Ordered struct {
	Members    []Member
	Families   int
	Standalone int
}

type Service interface {
	// Order groups members into families rooted at a common ancestor and
	// returns them in final display order: families sorted by their first
	// member's lowercased title, members within a family sorted
	// chronologically, standalone members appended alphabetically.
	Order(members []Member, metadata map[int]domain.MetadataRecord) Ordered
}

type service struct {
	log zerolog.Logger
}

func NewService(log zerolog.Logger) Service {
	return &service{
		log: log.With().Str("module", "relations").Logger(),
	}
}

type family struct {
	root    int
	members []Member
}

func (s *service) Order(members []Member, metadata map[int]domain.MetadataRecord) Ordered {
	standalone := []Member{}
	families := []*family{}
	byRoot := map[int]*family{}

	for _, m := range members {
		if m.ID == 0 {
			standalone = append(standalone, m)
			continue
		}

		root := s.findRoot(m, metadata)
		f, ok := byRoot[root]
		if !ok {
			f = &family{root: root}
			byRoot[root] = f
			families = append(families, f)
		}
		f.members = append(f.members, m)
	}

	for _, f := range families {
		s.sortFamily(f, metadata)
	}

	sort.SliceStable(families, func(i, j int) bool {
		return strings.ToLower(families[i].members[0].Title) < strings.ToLower(families[j].members[0].Title)
	})

	sort.SliceStable(standalone, func(i, j int) bool {
		return strings.ToLower(standalone[i].Title) < strings.ToLower(standalone[j].Title)
	})

	ordered := make([]Member, 0, len(members))
	for _, f := range families {
		ordered = append(ordered, f.members...)
	}
	ordered = append(ordered, standalone...)

	s.log.Debug().
		Int("families", len(families)).
		Int("standalone", len(standalone)).
		Msg("Ordered entries")

	return Ordered{
		Members:    ordered,
		Families:   len(families),
		Standalone: len(standalone),
	}
}

// findRoot follows immediate-parent links until an id with no parent is
// reached. The walk is iterative with a per-walk visited set, so cyclic
// relation graphs terminate at the id that would close the cycle.
func (s *service) findRoot(m Member, metadata map[int]domain.MetadataRecord) int {
	visited := map[int]struct{}{}
	id := m.ID

	for {
		visited[id] = struct{}{}

		parent, ok := s.immediateParent(id, metadata)
		if !ok && id == m.ID && m.ParentHint > 0 {
			// Manual override: the hint seeds the walk only when the record
			// itself yields no parent edge.
			parent, ok = m.ParentHint, true
		}
		if !ok {
			return id
		}
		if _, seen := visited[parent]; seen {
			s.log.Debug().Int("alid", m.ID).Int("cycle_at", parent).Msg("Relation cycle detected, breaking walk")
			return id
		}

		id = parent
	}
}

// immediateParent returns the target of the id's first PARENT edge, else
// its first PREQUEL edge, else nothing.
func (s *service) immediateParent(id int, metadata map[int]domain.MetadataRecord) (int, bool) {
	record, ok := metadata[id]
	if !ok {
		return 0, false
	}

	for _, edge := range record.Relations {
		if edge.Type == domain.RelationParent {
			return edge.TargetID, true
		}
	}
	for _, edge := range record.Relations {
		if edge.Type == domain.RelationPrequel {
			return edge.TargetID, true
		}
	}

	return 0, false
}

// sortFamily orders one family's members by (release year, in-family
// prequel count, lowercased title). The prequel count is a chronology
// heuristic, not a topological rank.
func (s *service) sortFamily(f *family, metadata map[int]domain.MetadataRecord) {
	inFamily := make(map[int]struct{}, len(f.members))
	for _, m := range f.members {
		inFamily[m.ID] = struct{}{}
	}

	years := make(map[int]int, len(f.members))
	ranks := make(map[int]int, len(f.members))
	for _, m := range f.members {
		years[m.ID] = yearUnknown
		if record, ok := metadata[m.ID]; ok {
			if record.ReleaseYear > 0 {
				years[m.ID] = record.ReleaseYear
			}
			for _, edge := range record.Relations {
				if edge.Type != domain.RelationPrequel {
					continue
				}
				if _, ok := inFamily[edge.TargetID]; ok {
					ranks[m.ID]++
				}
			}
		}
	}

	sort.SliceStable(f.members, func(i, j int) bool {
		a, b := f.members[i], f.members[j]
		if years[a.ID] != years[b.ID] {
			return years[a.ID] < years[b.ID]
		}
		if ranks[a.ID] != ranks[b.ID] {
			return ranks[a.ID] < ranks[b.ID]
		}
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	})
}
