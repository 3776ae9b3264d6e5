package releases

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/varoOP/seadexdb/internal/domain"
)

func TestCollect(t *testing.T) {
	svc := NewService(zerolog.Nop())

	torrents := []domain.Torrent{
		{ReleaseGroup: "SubsPlease", IsBest: true, Tracker: "Nyaa"},
		{ReleaseGroup: "SubsPlease", IsBest: true, Tags: []string{"Incomplete"}, Tracker: "other"},
		{ReleaseGroup: "Commie", IsBest: false, Tags: []string{"unmuxed"}, Tracker: "animebytes"},
		{ReleaseGroup: "", IsBest: true, Tracker: "nyaa"},
		{ReleaseGroup: "Beatrice-Raws", IsBest: true, DualAudio: true, Tracker: "nyaa"},
	}

	c := svc.Collect(torrents, "")

	require.Equal(t, []string{"SubsPlease", "Beatrice-Raws (Dual Audio)"}, c.Best)
	require.Equal(t, []string{"Commie"}, c.Alt)

	// Flags accumulate across repeated sightings of the same key
	sp := c.Meta[domain.MetaKey{Group: "SubsPlease", Best: true}]
	require.NotNil(t, sp)
	require.True(t, sp.Incomplete)
	require.False(t, sp.Unmuxed)
	require.False(t, sp.NotNyaa)

	commie := c.Meta[domain.MetaKey{Group: "Commie", Best: false}]
	require.NotNil(t, commie)
	require.True(t, commie.Unmuxed)
	require.True(t, commie.NotNyaa)
}

func TestCollectFlagsNeverTurnOff(t *testing.T) {
	svc := NewService(zerolog.Nop())

	torrents := []domain.Torrent{
		{ReleaseGroup: "X", IsBest: true, Tags: []string{"broken"}, Tracker: "nyaa"},
		{ReleaseGroup: "X", IsBest: true, Tracker: "nyaa"},
	}

	c := svc.Collect(torrents, "")
	meta := c.Meta[domain.MetaKey{Group: "X", Best: true}]
	require.True(t, meta.Broken)
}

func TestCollectTheoreticalBestFallback(t *testing.T) {
	svc := NewService(zerolog.Nop())

	c := svc.Collect([]domain.Torrent{
		{ReleaseGroup: "Commie", IsBest: false, Tracker: "nyaa"},
	}, "GroupA + GroupB")

	require.Equal(t, []string{"GroupA + GroupB"}, c.Best)

	meta := c.Meta[domain.MetaKey{Group: "GroupA + GroupB", Best: true}]
	require.NotNil(t, meta)
	require.True(t, meta.Unmuxed)
	require.False(t, meta.Broken)
	require.False(t, meta.Incomplete)
	require.True(t, meta.NotNyaa)
}

func TestCollectNoFallbackWhenBestExists(t *testing.T) {
	svc := NewService(zerolog.Nop())

	c := svc.Collect([]domain.Torrent{
		{ReleaseGroup: "SubsPlease", IsBest: true, Tracker: "nyaa"},
	}, "GroupA + GroupB")

	require.Equal(t, []string{"SubsPlease"}, c.Best)
}

func TestDeduplicate(t *testing.T) {
	svc := NewService(zerolog.Nop())

	tests := []struct {
		name  string
		names []string
		want  []string
	}{
		{
			name:  "dual audio subsumes plain",
			names: []string{"X", "X (Dual Audio)"},
			want:  []string{"X (Dual Audio)"},
		},
		{
			name:  "single variants unchanged",
			names: []string{"A", "B (Dual Audio)"},
			want:  []string{"A", "B (Dual Audio)"},
		},
		{
			name:  "order follows first occurrence of base name",
			names: []string{"B", "A (Dual Audio)", "B (Dual Audio)"},
			want:  []string{"B (Dual Audio)", "A (Dual Audio)"},
		},
		{
			name:  "empty input",
			names: []string{},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, svc.Deduplicate(tt.names))
		})
	}
}

func TestClassify(t *testing.T) {
	svc := NewService(zerolog.Nop())

	tests := []struct {
		name string
		meta *domain.GroupMeta
		want string
	}{
		{"nil meta", nil, domain.StatusNone},
		{"clean", &domain.GroupMeta{}, domain.StatusNone},
		{"broken beats unmuxed", &domain.GroupMeta{Broken: true, Unmuxed: true}, domain.StatusBroken},
		{"incomplete beats unmuxed", &domain.GroupMeta{Incomplete: true, Unmuxed: true, NotNyaa: true}, domain.StatusIncomplete},
		{"unmuxed beats not_nyaa", &domain.GroupMeta{Unmuxed: true, NotNyaa: true}, domain.StatusUnmuxed},
		{"not_nyaa", &domain.GroupMeta{NotNyaa: true}, domain.StatusNotNyaa},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, svc.Classify(tt.meta))
		})
	}
}

func TestDualAudioSubsumptionKeepsDualMetadata(t *testing.T) {
	// The surviving dual variant carries its own flags; the plain
	// variant's nyaa evidence does not transfer.
	svc := NewService(zerolog.Nop())

	torrents := []domain.Torrent{
		{ReleaseGroup: "X", IsBest: true, DualAudio: false, Tracker: "nyaa"},
		{ReleaseGroup: "X", IsBest: true, DualAudio: true, Tracker: "other"},
	}

	c := svc.Collect(torrents, "")
	best := svc.Deduplicate(c.Best)
	require.Equal(t, []string{"X (Dual Audio)"}, best)

	meta := c.Meta[domain.MetaKey{Group: "X (Dual Audio)", Best: true}]
	require.NotNil(t, meta)
	require.Equal(t, domain.StatusNotNyaa, svc.Classify(meta))
}
