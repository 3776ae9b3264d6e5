package domain

// Status labels attached to a release group. Empty string means no caveat.
const (
	StatusBroken     = "broken"
	StatusIncomplete = "incomplete"
	StatusUnmuxed    = "unmuxed"
	StatusNotNyaa    = "not_nyaa"
	StatusNone       = ""
)

// MetaKey identifies a release group within one entry: the formatted group
// name (dual-audio suffix included) plus whether it was marked best.
type MetaKey struct {
	Group string
	Best  bool
}

// GroupMeta accumulates quality flags for one (group, bestness) key.
// Unmuxed/Broken/Incomplete only ever turn on; NotNyaa is computed once
// after all torrents for the group have been seen.
type GroupMeta struct {
	Unmuxed    bool
	Broken     bool
	Incomplete bool
	NotNyaa    bool
}

// Release is one named release group with its single status label.
type Release struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// Row is one display row of the final output list.
type Row struct {
	Title        string    `json:"title"`
	AltTitle     string    `json:"alt_title"`
	Year         int       `json:"year,omitempty"`
	Format       string    `json:"format,omitempty"`
	Notes        string    `json:"notes"`
	Comparison   string    `json:"comparison"`
	BestReleases []Release `json:"best_releases"`
	AltReleases  []Release `json:"alt_releases"`
}
