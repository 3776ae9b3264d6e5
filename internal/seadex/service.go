package seadex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/seadexdb/internal/domain"
)

const (
	entriesURL = "https://releases.moe/api/collections/entries/records"
	perPage    = 250
)

type Service interface {
	FetchEntries(ctx context.Context) ([]domain.Entry, error)
}

type service struct {
	log    zerolog.Logger
	config *domain.Config
}

// entriesResponse mirrors the PocketBase list endpoint. Torrents arrive
// through the expand=trs relation.
type entriesResponse struct {
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
	TotalItems int `json:"totalItems"`
	Items      []struct {
		AlID            int    `json:"alID"`
		Notes           string `json:"notes"`
		TheoreticalBest string `json:"theoreticalBest"`
		Comparison      string `json:"comparison"`
		Expand          struct {
			Trs []struct {
				ReleaseGroup string   `json:"releaseGroup"`
				IsBest       bool     `json:"isBest"`
				DualAudio    bool     `json:"dualAudio"`
				Tags         []string `json:"tags"`
				Tracker      string   `json:"tracker"`
			} `json:"trs"`
		} `json:"expand"`
	} `json:"items"`
}

type userAgentTransport struct {
	Transport http.RoundTripper
	UserAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Transport == nil {
		t.Transport = http.DefaultTransport
	}
	if t.UserAgent != "" {
		req.Header.Set("User-Agent", t.UserAgent)
	}
	return t.Transport.RoundTrip(req)
}

func NewService(log zerolog.Logger, config *domain.Config) Service {
	return &service{
		log:    log.With().Str("module", "seadex").Logger(),
		config: config,
	}
}

func (s *service) FetchEntries(ctx context.Context) ([]domain.Entry, error) {
	s.log.Info().Msg("Fetching entries from releases.moe..")
	c := &http.Client{
		Transport: &userAgentTransport{UserAgent: s.config.UserAgent},
	}

	entries := []domain.Entry{}
	page := 1
	for {
		resp, err := s.fetchPage(ctx, c, page)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to fetch entries page %d", page)
		}
		if len(resp.Items) == 0 {
			break
		}

		for _, item := range resp.Items {
			entry := domain.Entry{
				AnilistID:       item.AlID,
				Notes:           item.Notes,
				TheoreticalBest: item.TheoreticalBest,
				Comparison:      item.Comparison,
			}
			for _, tr := range item.Expand.Trs {
				entry.Torrents = append(entry.Torrents, domain.Torrent{
					ReleaseGroup: tr.ReleaseGroup,
					IsBest:       tr.IsBest,
					DualAudio:    tr.DualAudio,
					Tags:         tr.Tags,
					Tracker:      tr.Tracker,
				})
			}
			entries = append(entries, entry)
		}

		s.log.Debug().Int("page", page).Int("total_pages", resp.TotalPages).Msg("Fetched entries page")

		if page >= resp.TotalPages {
			break
		}
		page++
	}

	s.log.Info().Int("entries", len(entries)).Msg("Fetched all entries")
	return entries, nil
}

func (s *service) fetchPage(ctx context.Context, c *http.Client, page int) (*entriesResponse, error) {
	url := fmt.Sprintf("%s?expand=trs&perPage=%d&page=%d", entriesURL, perPage, page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	er := &entriesResponse{}
	if err = json.Unmarshal(body, er); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal response")
	}

	return er, nil
}
