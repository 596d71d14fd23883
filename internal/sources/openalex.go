package sources

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/daniel/resume-sentinel/internal/fetch"
	"github.com/daniel/resume-sentinel/internal/types"
)

const openAlexBaseURL = "https://api.openalex.org"

const openAlexTTL = time.Hour

// OpenAlex searches the OpenAlex academic institution index. No credential
// is required; a contact email opts into the polite pool.
type OpenAlex struct {
	client  *fetch.Client
	log     zerolog.Logger
	baseURL string
	mailto  string
}

// NewOpenAlex creates the OpenAlex provider.
func NewOpenAlex(client *fetch.Client, log zerolog.Logger, mailto string) *OpenAlex {
	return &OpenAlex{
		client:  client,
		log:     log.With().Str("source", "openalex").Logger(),
		baseURL: openAlexBaseURL,
		mailto:  mailto,
	}
}

type openAlexResponse struct {
	Results []struct {
		ID           string `json:"id"`
		DisplayName  string `json:"display_name"`
		CountryCode  string `json:"country_code"`
		Type         string `json:"type"`
		WorksCount   int    `json:"works_count"`
		CitedByCount int    `json:"cited_by_count"`
	} `json:"results"`
}

// SearchInstitutions returns up to limit academic-index records matching
// name. Failures yield an empty slice.
func (o *OpenAlex) SearchInstitutions(ctx context.Context, name string, limit int) []types.AcademicRecord {
	if limit <= 0 {
		limit = 3
	}

	params := map[string]string{
		"search":   name,
		"per-page": strconv.Itoa(limit),
		"sort":     "display_name",
	}
	if o.mailto != "" {
		params["mailto"] = o.mailto
	}

	var resp openAlexResponse
	err := o.client.GetJSON(ctx, fetch.Request{
		URL:         o.baseURL + "/institutions",
		Params:      params,
		CachePrefix: "openalex_institutions",
		CacheTTL:    openAlexTTL,
	}, &resp)
	if err != nil {
		o.log.Warn().Err(err).Str("name", name).Msg("openalex search failed")
		return nil
	}

	out := make([]types.AcademicRecord, 0, len(resp.Results))
	for i, r := range resp.Results {
		if i >= limit {
			break
		}
		out = append(out, types.AcademicRecord{
			ID:           r.ID,
			DisplayName:  r.DisplayName,
			CountryCode:  r.CountryCode,
			Type:         r.Type,
			WorksCount:   r.WorksCount,
			CitedByCount: r.CitedByCount,
		})
	}
	o.log.Debug().Str("name", name).Int("results", len(out)).Msg("openalex institution search")
	return out
}
