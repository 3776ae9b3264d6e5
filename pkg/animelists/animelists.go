package animelists

import (
	"encoding/json"

	"github.com/gocolly/colly"
)

const mappingURL = "https://raw.githubusercontent.com/anime-and-manga/lists/refs/heads/main/anime-full.json"

// AnimeLists is the anime-full.json title mapping: AniList id to canonical
// english/romaji titles.
type AnimeLists struct {
	titles map[int]Titles
}

type Titles struct {
	English string `json:"english"`
	Romaji  string `json:"romaji"`
}

type mappingEntry struct {
	IDAL   int    `json:"idAL"`
	Titles Titles `json:"titles"`
}

// NewAnimeLists downloads and parses the mapping. The file is large and
// changes rarely, so responses are cached under cacheDir.
func NewAnimeLists(cacheDir string) (*AnimeLists, error) {
	var (
		body     []byte
		fetchErr error
	)

	c := colly.NewCollector(
		colly.AllowedDomains("raw.githubusercontent.com"),
		colly.CacheDir(cacheDir),
	)

	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	c.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	if err := c.Visit(mappingURL); err != nil {
		return nil, err
	}
	if fetchErr != nil {
		return nil, fetchErr
	}

	return Parse(body)
}

// Parse builds the mapping from raw anime-full.json bytes.
func Parse(body []byte) (*AnimeLists, error) {
	raw := []mappingEntry{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}

	al := &AnimeLists{titles: make(map[int]Titles, len(raw))}
	for _, entry := range raw {
		al.titles[entry.IDAL] = entry.Titles
	}

	return al, nil
}

// GetTitles returns the canonical title pair for an AniList id.
func (a *AnimeLists) GetTitles(alID int) (Titles, bool) {
	t, ok := a.titles[alID]
	return t, ok
}
