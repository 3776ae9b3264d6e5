package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/seadexdb/internal/domain"
	"github.com/varoOP/seadexdb/pkg/animelists"
)

const (
	graphqlURL = "https://graphql.anilist.co"
	batchSize  = 50

	// AniList allows ~90 requests per minute; one batch every 700ms stays
	// well under that.
	batchDelay = 700 * time.Millisecond

	// Records older than this are refetched in default mode
	maxCacheAge = 7 * 24 * time.Hour
)

const mediaQuery = `query ($ids: [Int], $perPage: Int) {
  Page(page: 1, perPage: $perPage) {
    media(id_in: $ids, type: ANIME) {
      id
      format
      title {
        english
        romaji
      }
      startDate {
        year
      }
      relations {
        edges {
          relationType
          node {
            id
          }
        }
      }
    }
  }
}`

type Service interface {
	// FetchMetadata resolves a metadata record for every id it can, using
	// the cache per the configured fetch mode and the anime-lists title
	// mapping as a last-resort fallback.
	FetchMetadata(ctx context.Context, ids []int, cacheRepo domain.CacheRepo) (*Result, error)
}

// Result carries the resolved records plus cache-usage counts
type Result struct {
	Records   map[int]domain.MetadataRecord
	Fetched   int
	FromCache int
}

type service struct {
	log    zerolog.Logger
	config *domain.Config
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphqlResponse struct {
	Data struct {
		Page struct {
			Media []struct {
				ID     int    `json:"id"`
				Format string `json:"format"`
				Title  struct {
					English string `json:"english"`
					Romaji  string `json:"romaji"`
				} `json:"title"`
				StartDate struct {
					Year int `json:"year"`
				} `json:"startDate"`
				Relations struct {
					Edges []struct {
						RelationType string `json:"relationType"`
						Node         struct {
							ID int `json:"id"`
						} `json:"node"`
					} `json:"edges"`
				} `json:"relations"`
			} `json:"media"`
		} `json:"Page"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func NewService(log zerolog.Logger, config *domain.Config) Service {
	return &service{
		log:    log.With().Str("module", "anilist").Logger(),
		config: config,
	}
}

func (s *service) FetchMetadata(ctx context.Context, ids []int, cacheRepo domain.CacheRepo) (*Result, error) {
	result := &Result{
		Records: make(map[int]domain.MetadataRecord, len(ids)),
	}

	cached := map[int]domain.CachedMetadata{}
	if cacheRepo != nil {
		var err error
		cached, err = cacheRepo.GetAll(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to read metadata cache, fetching everything")
			cached = map[int]domain.CachedMetadata{}
		}
	}

	toFetch := s.filterIDsToFetch(ids, cached)

	if len(toFetch) > 0 {
		s.log.Info().Int("ids", len(toFetch)).Msg("Fetching metadata from AniList..")
		client := &http.Client{Timeout: 30 * time.Second}

		for start := 0; start < len(toFetch); start += batchSize {
			end := start + batchSize
			if end > len(toFetch) {
				end = len(toFetch)
			}
			batch := toFetch[start:end]

			if start > 0 {
				time.Sleep(batchDelay)
			}

			records, err := s.fetchBatch(ctx, client, batch)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to fetch metadata batch starting at id %d", batch[0])
			}

			for _, record := range records {
				result.Records[record.AnilistID] = record
				result.Fetched++

				if cacheRepo != nil {
					if err := cacheRepo.Upsert(ctx, record); err != nil {
						s.log.Warn().Err(err).Int("alid", record.AnilistID).Msg("failed to update metadata cache")
					}
				}
			}
		}
	}

	// Fill the rest from the cache
	for _, id := range ids {
		if _, ok := result.Records[id]; ok {
			continue
		}
		if cm, ok := cached[id]; ok {
			result.Records[id] = cm.Record
			result.FromCache++
		}
	}

	s.fillFallbackTitles(ids, result)

	s.log.Info().
		Int("resolved", len(result.Records)).
		Int("fetched", result.Fetched).
		Int("from_cache", result.FromCache).
		Msg("Metadata fetch complete")

	return result, nil
}

// filterIDsToFetch filters ids based on the configured metadata mode
func (s *service) filterIDsToFetch(ids []int, cached map[int]domain.CachedMetadata) []int {
	if s.config.MetadataMode == domain.FetchModeSkip {
		return []int{}
	}

	toFetch := []int{}
	for _, id := range ids {
		if id <= 0 {
			continue
		}

		cm, found := cached[id]

		switch s.config.MetadataMode {
		case domain.FetchModeAll:
			// Refetch everything, even if already cached
		case domain.FetchModeMissing:
			if found {
				continue
			}
		default:
			if found && time.Since(cm.CachedAt) < maxCacheAge {
				continue
			}
		}

		toFetch = append(toFetch, id)
	}

	return toFetch
}

func (s *service) fetchBatch(ctx context.Context, client *http.Client, ids []int) ([]domain.MetadataRecord, error) {
	body, err := json.Marshal(graphqlRequest{
		Query: mediaQuery,
		Variables: map[string]any{
			"ids":     ids,
			"perPage": batchSize,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal query")
	}

	resp, retryAfter, err := s.post(ctx, client, body)
	if err != nil {
		return nil, err
	}
	if retryAfter > 0 {
		s.log.Warn().Int("retry_after", retryAfter).Msg("AniList rate limit hit, backing off")
		time.Sleep(time.Duration(retryAfter) * time.Second)
		resp, retryAfter, err = s.post(ctx, client, body)
		if err != nil {
			return nil, err
		}
		if retryAfter > 0 {
			return nil, errors.New("rate limited twice in a row")
		}
	}

	if len(resp.Errors) > 0 {
		return nil, errors.Errorf("graphql error: %s", resp.Errors[0].Message)
	}

	records := make([]domain.MetadataRecord, 0, len(resp.Data.Page.Media))
	for _, media := range resp.Data.Page.Media {
		record := domain.MetadataRecord{
			AnilistID:    media.ID,
			EnglishTitle: media.Title.English,
			RomajiTitle:  media.Title.Romaji,
			ReleaseYear:  media.StartDate.Year,
			Format:       media.Format,
		}
		for _, edge := range media.Relations.Edges {
			record.Relations = append(record.Relations, domain.RelationEdge{
				Type:     domain.RelationType(edge.RelationType),
				TargetID: edge.Node.ID,
			})
		}
		records = append(records, record)
	}

	return records, nil
}

// post sends one GraphQL request. A positive retryAfter means the request
// was rate limited and should be retried after that many seconds.
func (s *service) post(ctx context.Context, client *http.Client, body []byte) (*graphqlResponse, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, graphqlURL, bytes.NewReader(body))
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if s.config.UserAgent != "" {
		req.Header.Set("User-Agent", s.config.UserAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to fetch")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter, err := strconv.Atoi(resp.Header.Get("Retry-After"))
		if err != nil || retryAfter <= 0 {
			retryAfter = 60
		}
		return nil, retryAfter, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to read response body")
	}

	gr := &graphqlResponse{}
	if err = json.Unmarshal(raw, gr); err != nil {
		return nil, 0, errors.Wrap(err, "failed to unmarshal response")
	}

	return gr, 0, nil
}

// fillFallbackTitles gives ids that still have no record a title-only
// record from the anime-lists mapping, so their entries keep canonical
// titles even when AniList could not be reached.
func (s *service) fillFallbackTitles(ids []int, result *Result) {
	missing := []int{}
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := result.Records[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return
	}

	al, err := animelists.NewAnimeLists(s.config.CacheDir)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to load anime-lists mapping, skipping title fallback")
		return
	}

	filled := 0
	for _, id := range missing {
		if titles, ok := al.GetTitles(id); ok {
			result.Records[id] = domain.MetadataRecord{
				AnilistID:    id,
				EnglishTitle: titles.English,
				RomajiTitle:  titles.Romaji,
			}
			filled++
		}
	}

	s.log.Info().Int("missing", len(missing)).Int("filled", filled).Msg("Applied anime-lists title fallback")
}
