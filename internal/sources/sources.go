// Package sources implements the registry adapters behind background
// verification. Each provider calls one external registry through the shared
// cached fetch client, applies the alias table for well-known parent and
// subsidiary name variants, and absorbs every failure: network errors,
// non-2xx responses, malformed payloads and missing credentials all surface
// as empty results, never as errors to callers.
package sources

import (
	"github.com/rs/zerolog"

	"github.com/daniel/resume-sentinel/internal/config"
	"github.com/daniel/resume-sentinel/internal/fetch"
)

// Set bundles one instance of every provider for injection into the
// background verifier.
type Set struct {
	GLEIF     *GLEIF
	SEC       *SEC
	Scorecard *Scorecard
	OpenAlex  *OpenAlex
	GitHub    *GitHub
	Wayback   *Wayback
	ORCID     *ORCID
}

// NewSet builds all providers against their production endpoints.
func NewSet(client *fetch.Client, log zerolog.Logger, cfg *config.Settings) *Set {
	return &Set{
		GLEIF:     NewGLEIF(client, log),
		SEC:       NewSEC(client, log, cfg.SECContactEmail),
		Scorecard: NewScorecard(client, log, cfg.ScorecardKey()),
		OpenAlex:  NewOpenAlex(client, log, cfg.OpenAlexEmail),
		GitHub:    NewGitHub(client, log, cfg.GitHubToken),
		Wayback:   NewWayback(client, log),
		ORCID:     NewORCID(client, log),
	}
}

// Names lists the registries available to this deployment, independent of
// whether they returned data for any particular request.
func Names() []string {
	return []string{"GLEIF", "SEC EDGAR", "OpenAlex", "Wayback CDX", "GitHub", "US College Scorecard"}
}
