package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/varoOP/seadexdb/internal/domain"
)

func TestEntriesRoundTrip(t *testing.T) {
	repo := NewFileRepository(zerolog.Nop())
	path := domain.DataPath(filepath.Join(t.TempDir(), "entries.json"))

	entries := []domain.Entry{
		{
			AnilistID:       1,
			Notes:           "notes",
			TheoreticalBest: "GroupA + GroupB",
			Torrents: []domain.Torrent{
				{ReleaseGroup: "SubsPlease", IsBest: true, DualAudio: true, Tags: []string{"broken"}, Tracker: "nyaa"},
			},
		},
		{AnilistID: 2},
	}

	require.NoError(t, repo.StoreEntries(context.Background(), path, entries))

	got, err := repo.GetEntries(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, entries, got)
}

func TestGetEntriesMissingFile(t *testing.T) {
	repo := NewFileRepository(zerolog.Nop())
	path := domain.DataPath(filepath.Join(t.TempDir(), "entries.json"))

	_, err := repo.GetEntries(context.Background(), path)
	require.Error(t, err)
}

func TestMetadataRoundTripSorted(t *testing.T) {
	repo := NewFileRepository(zerolog.Nop())
	path := domain.DataPath(filepath.Join(t.TempDir(), "metadata.json"))

	metadata := map[int]domain.MetadataRecord{
		5: {AnilistID: 5, EnglishTitle: "Five", ReleaseYear: 2015},
		1: {
			AnilistID:   1,
			RomajiTitle: "Ichi",
			ReleaseYear: 2011,
			Relations:   []domain.RelationEdge{{Type: domain.RelationPrequel, TargetID: 5}},
		},
	}

	require.NoError(t, repo.StoreMetadata(context.Background(), path, metadata))

	got, err := repo.GetMetadata(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, metadata, got)

	// Stored records are ordered by id so repeated runs produce identical
	// files.
	b, err := os.ReadFile(string(path))
	require.NoError(t, err)
	records := []domain.MetadataRecord{}
	require.NoError(t, json.Unmarshal(b, &records))
	require.Equal(t, []int{1, 5}, []int{records[0].AnilistID, records[1].AnilistID})
}

func TestStoreRowsCreatesParentDir(t *testing.T) {
	repo := NewFileRepository(zerolog.Nop())
	path := domain.DataPath(filepath.Join(t.TempDir(), "nested", "releases.json"))

	rows := []domain.Row{
		{
			Title:        "Alpha",
			Year:         2010,
			Format:       "TV",
			BestReleases: []domain.Release{{Name: "SubsPlease"}},
			AltReleases:  []domain.Release{{Name: "Commie", Status: domain.StatusBroken}},
		},
	}

	require.NoError(t, repo.StoreRows(context.Background(), path, rows))

	_, err := os.Stat(string(path))
	require.NoError(t, err)
}

func TestOverridesRoundTrip(t *testing.T) {
	repo := NewFileRepository(zerolog.Nop())
	path := domain.DataPath(filepath.Join(t.TempDir(), "parent-overrides.yaml"))

	overrides := &domain.ParentOverrides{
		Overrides: []domain.ParentOverride{
			{AnilistID: 3, ParentID: 1, Title: "Alpha Movie"},
		},
	}

	require.NoError(t, repo.StoreOverrides(context.Background(), path, overrides))

	got, err := repo.GetOverrides(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, overrides, got)
}

func TestGetOverridesMissingFileIsEmpty(t *testing.T) {
	repo := NewFileRepository(zerolog.Nop())
	path := domain.DataPath(filepath.Join(t.TempDir(), "parent-overrides.yaml"))

	got, err := repo.GetOverrides(context.Background(), path)
	require.NoError(t, err)
	require.Empty(t, got.Overrides)
}
