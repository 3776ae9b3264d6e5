package relations

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/varoOP/seadexdb/internal/domain"
)

func record(id, year int, edges ...domain.RelationEdge) domain.MetadataRecord {
	return domain.MetadataRecord{
		AnilistID:   id,
		ReleaseYear: year,
		Relations:   edges,
	}
}

func parent(target int) domain.RelationEdge {
	return domain.RelationEdge{Type: domain.RelationParent, TargetID: target}
}

func prequel(target int) domain.RelationEdge {
	return domain.RelationEdge{Type: domain.RelationPrequel, TargetID: target}
}

func titlesOf(members []Member) []string {
	titles := make([]string, 0, len(members))
	for _, m := range members {
		titles = append(titles, m.Title)
	}
	return titles
}

func TestOrderGroupsFamiliesByRoot(t *testing.T) {
	svc := NewService(zerolog.Nop())

	metadata := map[int]domain.MetadataRecord{
		1: record(1, 2010),
		2: record(2, 2012, parent(1)),
		3: record(3, 2011),
	}

	ordered := svc.Order([]Member{
		{ID: 3, Title: "Zeta", Pos: 0},
		{ID: 2, Title: "Alpha II", Pos: 1},
		{ID: 1, Title: "Alpha", Pos: 2},
	}, metadata)

	require.Equal(t, []string{"Alpha", "Alpha II", "Zeta"}, titlesOf(ordered.Members))
	require.Equal(t, 2, ordered.Families)
	require.Equal(t, 0, ordered.Standalone)
}

func TestOrderSharedRootNotPresent(t *testing.T) {
	// Entries sharing a root are grouped even when the root itself has no
	// entry in the batch.
	svc := NewService(zerolog.Nop())

	metadata := map[int]domain.MetadataRecord{
		10: record(10, 2000),
		11: record(11, 2005, parent(10)),
		12: record(12, 2003, prequel(10)),
	}

	ordered := svc.Order([]Member{
		{ID: 11, Title: "Side Story", Pos: 0},
		{ID: 12, Title: "Sequel", Pos: 1},
	}, metadata)

	require.Equal(t, 1, ordered.Families)
	require.Equal(t, []string{"Sequel", "Side Story"}, titlesOf(ordered.Members))
}

func TestOrderChronological(t *testing.T) {
	svc := NewService(zerolog.Nop())

	metadata := map[int]domain.MetadataRecord{
		1: record(1, 2012, parent(2)),
		2: record(2, 2010),
		3: record(3, 0, parent(2)),
	}

	ordered := svc.Order([]Member{
		{ID: 1, Title: "Second", Pos: 0},
		{ID: 2, Title: "First", Pos: 1},
		{ID: 3, Title: "Unknown Year", Pos: 2},
	}, metadata)

	require.Equal(t, []string{"First", "Second", "Unknown Year"}, titlesOf(ordered.Members))
}

func TestOrderPrequelRankTieBreak(t *testing.T) {
	// Same year: the member with more in-family prequels sorts later.
	svc := NewService(zerolog.Nop())

	metadata := map[int]domain.MetadataRecord{
		1: record(1, 2010),
		2: record(2, 2010, prequel(1)),
		3: record(3, 2010, prequel(1), prequel(2)),
	}

	ordered := svc.Order([]Member{
		{ID: 3, Title: "Third", Pos: 0},
		{ID: 2, Title: "Second", Pos: 1},
		{ID: 1, Title: "First", Pos: 2},
	}, metadata)

	require.Equal(t, []string{"First", "Second", "Third"}, titlesOf(ordered.Members))
}

func TestOrderFamiliesAlphabetical(t *testing.T) {
	svc := NewService(zerolog.Nop())

	metadata := map[int]domain.MetadataRecord{
		1: record(1, 2010),
		2: record(2, 2011, parent(1)),
		3: record(3, 2008),
	}

	ordered := svc.Order([]Member{
		{ID: 3, Title: "Beta Series", Pos: 0},
		{ID: 1, Title: "Alpha Series", Pos: 1},
		{ID: 2, Title: "Alpha Series II", Pos: 2},
	}, metadata)

	require.Equal(t, []string{"Alpha Series", "Alpha Series II", "Beta Series"}, titlesOf(ordered.Members))
}

func TestOrderStandaloneAppendedAlphabetically(t *testing.T) {
	svc := NewService(zerolog.Nop())

	metadata := map[int]domain.MetadataRecord{
		1: record(1, 2010),
	}

	ordered := svc.Order([]Member{
		{ID: 0, Title: "zeta ova", Pos: 0},
		{ID: 1, Title: "Series", Pos: 1},
		{ID: 0, Title: "Alpha Special", Pos: 2},
	}, metadata)

	require.Equal(t, []string{"Series", "Alpha Special", "zeta ova"}, titlesOf(ordered.Members))
	require.Equal(t, 1, ordered.Families)
	require.Equal(t, 2, ordered.Standalone)
}

func TestFindRootBreaksCycles(t *testing.T) {
	svc := NewService(zerolog.Nop()).(*service)

	metadata := map[int]domain.MetadataRecord{
		1: record(1, 2010, parent(2)),
		2: record(2, 2011, parent(1)),
	}

	// Walk terminates at the id that would close the cycle.
	require.Equal(t, 2, svc.findRoot(Member{ID: 1}, metadata))
	require.Equal(t, 1, svc.findRoot(Member{ID: 2}, metadata))
}

func TestFindRootSelfCycle(t *testing.T) {
	svc := NewService(zerolog.Nop()).(*service)

	metadata := map[int]domain.MetadataRecord{
		1: record(1, 2010, parent(1)),
	}

	require.Equal(t, 1, svc.findRoot(Member{ID: 1}, metadata))
}

func TestImmediateParentPrefersParentOverPrequel(t *testing.T) {
	svc := NewService(zerolog.Nop()).(*service)

	metadata := map[int]domain.MetadataRecord{
		1: record(1, 2010, prequel(5), parent(7)),
	}

	id, ok := svc.immediateParent(1, metadata)
	require.True(t, ok)
	require.Equal(t, 7, id)
}

func TestParentHintSeedsWalk(t *testing.T) {
	// The manual hint only applies when the record has no parent edge.
	svc := NewService(zerolog.Nop()).(*service)

	metadata := map[int]domain.MetadataRecord{
		1: record(1, 2010),
		2: record(2, 2005),
	}

	require.Equal(t, 2, svc.findRoot(Member{ID: 1, ParentHint: 2}, metadata))

	withParent := map[int]domain.MetadataRecord{
		1: record(1, 2010, parent(3)),
		2: record(2, 2005),
		3: record(3, 2000),
	}
	require.Equal(t, 3, svc.findRoot(Member{ID: 1, ParentHint: 2}, withParent))
}
