package titles

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/varoOP/seadexdb/internal/domain"
)

func TestResolve(t *testing.T) {
	metadata := map[int]domain.MetadataRecord{
		1: {AnilistID: 1, EnglishTitle: "Cowboy Bebop", RomajiTitle: "Kaubooi Bebappu"},
		2: {AnilistID: 2, RomajiTitle: "Mononoke Hime"},
		3: {AnilistID: 3, EnglishTitle: "Same", RomajiTitle: "Same"},
	}

	tests := []struct {
		name     string
		entry    domain.Entry
		wantMain string
		wantAlt  string
	}{
		{
			name:     "english main with romaji alt",
			entry:    domain.Entry{AnilistID: 1},
			wantMain: "Cowboy Bebop",
			wantAlt:  "Kaubooi Bebappu",
		},
		{
			name:     "romaji fallback clears alt",
			entry:    domain.Entry{AnilistID: 2},
			wantMain: "Mononoke Hime",
			wantAlt:  "",
		},
		{
			name:     "equal titles clear alt",
			entry:    domain.Entry{AnilistID: 3},
			wantMain: "Same",
			wantAlt:  "",
		},
		{
			name:     "no metadata falls back to inline titles",
			entry:    domain.Entry{AnilistID: 99, EnglishTitle: "Inline", RomajiTitle: "Inrain"},
			wantMain: "Inline",
			wantAlt:  "Inrain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(zerolog.Nop())
			seen := map[string]struct{}{}

			main, alt := svc.Resolve(tt.entry, metadata, seen)

			require.Equal(t, tt.wantMain, main)
			require.Equal(t, tt.wantAlt, alt)
			require.Contains(t, seen, main)
		})
	}
}

func TestResolveDuplicateSwapsOnce(t *testing.T) {
	svc := NewService(zerolog.Nop())
	metadata := map[int]domain.MetadataRecord{
		1: {AnilistID: 1, EnglishTitle: "Show", RomajiTitle: "Shou"},
		2: {AnilistID: 2, EnglishTitle: "Show", RomajiTitle: "Show Alt"},
	}
	seen := map[string]struct{}{}

	main1, alt1 := svc.Resolve(domain.Entry{AnilistID: 1}, metadata, seen)
	require.Equal(t, "Show", main1)
	require.Equal(t, "Shou", alt1)

	main2, alt2 := svc.Resolve(domain.Entry{AnilistID: 2}, metadata, seen)
	require.Equal(t, "Show Alt", main2)
	require.Equal(t, "Show", alt2)
}

func TestResolveDuplicateWithoutAltKeepsMain(t *testing.T) {
	svc := NewService(zerolog.Nop())
	metadata := map[int]domain.MetadataRecord{
		1: {AnilistID: 1, RomajiTitle: "Show"},
		2: {AnilistID: 2, RomajiTitle: "Show"},
	}
	seen := map[string]struct{}{}

	svc.Resolve(domain.Entry{AnilistID: 1}, metadata, seen)
	main, alt := svc.Resolve(domain.Entry{AnilistID: 2}, metadata, seen)

	require.Equal(t, "Show", main)
	require.Equal(t, "", alt)
}

func TestResolveSwappedCollisionNotCorrected(t *testing.T) {
	// Single-pass disambiguation: a swap that lands on another taken title
	// is left alone.
	svc := NewService(zerolog.Nop())
	metadata := map[int]domain.MetadataRecord{
		1: {AnilistID: 1, EnglishTitle: "A", RomajiTitle: "B"},
		2: {AnilistID: 2, EnglishTitle: "B", RomajiTitle: "C"},
		3: {AnilistID: 3, EnglishTitle: "A", RomajiTitle: "B"},
	}
	seen := map[string]struct{}{}

	svc.Resolve(domain.Entry{AnilistID: 1}, metadata, seen)
	svc.Resolve(domain.Entry{AnilistID: 2}, metadata, seen)
	main, alt := svc.Resolve(domain.Entry{AnilistID: 3}, metadata, seen)

	require.Equal(t, "B", main)
	require.Equal(t, "A", alt)
}
