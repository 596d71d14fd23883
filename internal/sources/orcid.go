package sources

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/daniel/resume-sentinel/internal/fetch"
	"github.com/daniel/resume-sentinel/internal/types"
)

const orcidBaseURL = "https://pub.orcid.org/v3.0"

const orcidTTL = time.Hour

// ORCID resolves a claimed researcher identifier against the public ORCID
// registry. Presence is informational only; it never feeds a score.
type ORCID struct {
	client  *fetch.Client
	log     zerolog.Logger
	baseURL string
}

// NewORCID creates the ORCID provider.
func NewORCID(client *fetch.Client, log zerolog.Logger) *ORCID {
	return &ORCID{
		client:  client,
		log:     log.With().Str("source", "orcid").Logger(),
		baseURL: orcidBaseURL,
	}
}

type orcidRecord struct {
	Person struct {
		Name struct {
			GivenNames struct {
				Value string `json:"value"`
			} `json:"given-names"`
			FamilyName struct {
				Value string `json:"value"`
			} `json:"family-name"`
		} `json:"name"`
	} `json:"person"`
}

// FetchRecord looks up id and returns the resolved record. A failed or empty
// lookup returns a record with Found false rather than an error.
func (o *ORCID) FetchRecord(ctx context.Context, id string) *types.ResearcherRecord {
	if id == "" {
		return nil
	}

	var rec orcidRecord
	err := o.client.GetJSON(ctx, fetch.Request{
		URL:         o.baseURL + "/" + id + "/record",
		CachePrefix: "orcid_record",
		CacheTTL:    orcidTTL,
	}, &rec)
	if err != nil {
		o.log.Warn().Err(err).Str("orcid", id).Msg("orcid lookup failed")
		return &types.ResearcherRecord{ORCID: id, Found: false}
	}

	name := strings.TrimSpace(rec.Person.Name.GivenNames.Value + " " + rec.Person.Name.FamilyName.Value)
	return &types.ResearcherRecord{
		ORCID: id,
		Name:  name,
		Found: name != "",
	}
}
