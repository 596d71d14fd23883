package sources

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/daniel/resume-sentinel/internal/fetch"
	"github.com/daniel/resume-sentinel/internal/types"
)

const waybackBaseURL = "https://web.archive.org/cdx/search/cdx"

const waybackTTL = 2 * time.Hour

// Wayback queries the Internet Archive CDX index for domain capture history.
// Used to corroborate that an employer's web presence predates a claimed
// start date.
type Wayback struct {
	client  *fetch.Client
	log     zerolog.Logger
	baseURL string
}

// NewWayback creates the Wayback CDX provider.
func NewWayback(client *fetch.Client, log zerolog.Logger) *Wayback {
	return &Wayback{
		client:  client,
		log:     log.With().Str("source", "wayback").Logger(),
		baseURL: waybackBaseURL,
	}
}

// FirstLastCapture returns the earliest and latest successful capture of
// domain, or nil when the domain has no capture history or the query fails.
func (w *Wayback) FirstLastCapture(ctx context.Context, domain string) *types.SnapshotSummary {
	if domain == "" {
		return nil
	}

	// The CDX JSON format is a row-oriented array where row 0 is the header.
	var rows [][]string
	err := w.client.GetJSON(ctx, fetch.Request{
		URL: w.baseURL,
		Params: map[string]string{
			"url":       domain,
			"output":    "json",
			"matchType": "domain",
			"filter":    "statuscode:200",
			"fl":        "timestamp,original,statuscode",
			"limit":     "10",
			"collapse":  "digest",
			"from":      "1996",
			"to":        "2024",
		},
		CachePrefix: "wayback_cdx",
		CacheTTL:    waybackTTL,
	}, &rows)
	if err != nil {
		// Empty CDX responses sometimes arrive as a zero-length body, which
		// fails JSON decoding; treat that the same as no captures.
		var syntaxErr *json.SyntaxError
		if !errors.As(err, &syntaxErr) {
			w.log.Warn().Err(err).Str("domain", domain).Msg("wayback cdx query failed")
		}
		return nil
	}

	if len(rows) < 2 {
		return nil
	}
	// Rows after the header need at least the timestamp column; the CDX
	// endpoint occasionally emits truncated rows.
	captures := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		captures = append(captures, row)
	}
	if len(captures) == 0 {
		return nil
	}
	summary := &types.SnapshotSummary{
		First:    captures[0][0],
		Last:     captures[len(captures)-1][0],
		Captures: len(captures),
	}
	w.log.Debug().Str("domain", domain).Int("captures", summary.Captures).Msg("wayback capture history")
	return summary
}
