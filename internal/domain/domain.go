package domain

// Entry is one release-tracking record from the releases.moe API, carrying
// the torrent list for a single anime title. Entries are immutable once
// fetched; the pipeline owns them for the duration of one run.
type Entry struct {
	AnilistID       int       `json:"alid,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	TheoreticalBest string    `json:"theoreticalBest,omitempty"`
	Comparison      string    `json:"comparison,omitempty"`
	EnglishTitle    string    `json:"enTitle,omitempty"`
	RomajiTitle     string    `json:"romajiTitle,omitempty"`
	ParentHint      int       `json:"parentHint,omitempty"`
	Torrents        []Torrent `json:"torrents,omitempty"`
}

// Torrent is a single release inside an entry.
type Torrent struct {
	ReleaseGroup string   `json:"releaseGroup"`
	IsBest       bool     `json:"isBest"`
	DualAudio    bool     `json:"dualAudio"`
	Tags         []string `json:"tags,omitempty"`
	Tracker      string   `json:"tracker,omitempty"`
}
