package sources

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/daniel/resume-sentinel/internal/fetch"
	"github.com/daniel/resume-sentinel/internal/types"
)

const gleifBaseURL = "https://api.gleif.org/api/v1/lei-records"

// gleifTTL is long because LEI registrations change slowly.
const gleifTTL = time.Hour

// GLEIF searches the Global Legal Entity Identifier index by legal name.
type GLEIF struct {
	client  *fetch.Client
	log     zerolog.Logger
	baseURL string
}

// NewGLEIF creates the GLEIF provider.
func NewGLEIF(client *fetch.Client, log zerolog.Logger) *GLEIF {
	return &GLEIF{
		client:  client,
		log:     log.With().Str("source", "gleif").Logger(),
		baseURL: gleifBaseURL,
	}
}

type gleifResponse struct {
	Data []struct {
		ID         string `json:"id"`
		Attributes struct {
			Entity struct {
				LegalName struct {
					Name string `json:"name"`
				} `json:"legalName"`
				LegalAddress struct {
					Country string `json:"country"`
				} `json:"legalAddress"`
			} `json:"entity"`
			Registration struct {
				Status string `json:"status"`
			} `json:"registration"`
		} `json:"attributes"`
	} `json:"data"`
}

// SearchByName returns up to limit legal-entity records matching name.
// The claim name and all its alias variants are queried; results are merged
// and deduplicated by LEI. Failures yield an empty slice.
func (g *GLEIF) SearchByName(ctx context.Context, name string, limit int) []types.LegalEntityRecord {
	if limit <= 0 {
		limit = 3
	}

	var out []types.LegalEntityRecord
	seen := make(map[string]struct{})

	for _, term := range QueryTerms(name) {
		var resp gleifResponse
		err := g.client.GetJSON(ctx, fetch.Request{
			URL: g.baseURL,
			Params: map[string]string{
				"filter[entity.legalName]": term,
				"page[size]":               strconv.Itoa(limit),
			},
			CachePrefix: "gleif",
			CacheTTL:    gleifTTL,
		}, &resp)
		if err != nil {
			g.log.Warn().Err(err).Str("term", term).Msg("gleif search failed")
			continue
		}

		for _, item := range resp.Data {
			if _, dup := seen[item.ID]; dup {
				continue
			}
			seen[item.ID] = struct{}{}
			out = append(out, types.LegalEntityRecord{
				LEI:       item.ID,
				LegalName: item.Attributes.Entity.LegalName.Name,
				Status:    item.Attributes.Registration.Status,
				Country:   item.Attributes.Entity.LegalAddress.Country,
			})
		}
	}

	if len(out) > limit {
		out = out[:limit]
	}
	g.log.Debug().Str("name", name).Int("results", len(out)).Msg("gleif search")
	return out
}
