package sources

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/daniel/resume-sentinel/internal/fetch"
	"github.com/daniel/resume-sentinel/internal/types"
)

const scorecardBaseURL = "https://api.data.gov/ed/collegescorecard/v1/schools"

const scorecardTTL = time.Hour

// Scorecard searches the US College Scorecard accredited-institution index.
// Requires an api.data.gov key; without one the provider is disabled and
// always returns no results.
type Scorecard struct {
	client  *fetch.Client
	log     zerolog.Logger
	baseURL string
	apiKey  string
}

// NewScorecard creates the College Scorecard provider.
func NewScorecard(client *fetch.Client, log zerolog.Logger, apiKey string) *Scorecard {
	return &Scorecard{
		client:  client,
		log:     log.With().Str("source", "scorecard").Logger(),
		baseURL: scorecardBaseURL,
		apiKey:  apiKey,
	}
}

type scorecardResponse struct {
	Results []struct {
		Name      string `json:"school.name"`
		City      string `json:"school.city"`
		State     string `json:"school.state"`
		Operating int    `json:"school.operating"`
	} `json:"results"`
}

// SearchInstitution returns up to limit schools matching name. Failures and
// a missing API key yield an empty slice.
func (s *Scorecard) SearchInstitution(ctx context.Context, name string, limit int) []types.InstitutionRecord {
	if s.apiKey == "" {
		s.log.Debug().Msg("scorecard api key not configured, skipping search")
		return nil
	}
	if limit <= 0 {
		limit = 3
	}

	var resp scorecardResponse
	err := s.client.GetJSON(ctx, fetch.Request{
		URL: s.baseURL,
		Params: map[string]string{
			"api_key":     s.apiKey,
			"school.name": name,
			"per_page":    strconv.Itoa(limit),
			"fields":      "id,school.name,school.city,school.state,school.operating",
		},
		CachePrefix: "college_scorecard",
		CacheTTL:    scorecardTTL,
	}, &resp)
	if err != nil {
		s.log.Warn().Err(err).Str("name", name).Msg("scorecard search failed")
		return nil
	}

	out := make([]types.InstitutionRecord, 0, len(resp.Results))
	for i, r := range resp.Results {
		if i >= limit {
			break
		}
		out = append(out, types.InstitutionRecord{
			Name:      r.Name,
			City:      r.City,
			State:     r.State,
			Operating: r.Operating == 1,
		})
	}
	s.log.Debug().Str("name", name).Int("results", len(out)).Msg("scorecard search")
	return out
}
