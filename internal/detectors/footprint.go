package detectors

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/daniel/resume-sentinel/internal/types"
)

// footprintResultLimit caps how many merged search hits are kept.
const footprintResultLimit = 10

// siteBonus is added when the candidate's stated personal site mentions
// their name.
const siteBonus = 0.1

// professionalPlatforms are the platforms whose presence in search results
// raises the footprint score.
var professionalPlatforms = []string{"linkedin", "github", "stackoverflow", "researchgate", "scholar"}

// SearchService is the web search dependency of the footprint analyzer.
type SearchService interface {
	Search(ctx context.Context, query string, num int64) ([]types.SearchHit, error)
}

// CustomSearch implements SearchService over the Google Programmable Search
// API.
type CustomSearch struct {
	svc *customsearch.Service
	cx  string
}

// NewCustomSearch creates a Google Programmable Search client.
func NewCustomSearch(ctx context.Context, apiKey, cx string) (*CustomSearch, error) {
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	return &CustomSearch{svc: svc, cx: cx}, nil
}

// Search returns up to num organic results for query.
func (c *CustomSearch) Search(ctx context.Context, query string, num int64) ([]types.SearchHit, error) {
	resp, err := c.svc.Cse.List().Cx(c.cx).Q(query).Num(num).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	hits := make([]types.SearchHit, 0, len(resp.Items))
	for _, item := range resp.Items {
		hits = append(hits, types.SearchHit{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: item.Snippet,
		})
	}
	return hits, nil
}

// FootprintAnalyzer measures a candidate's public web presence. More results
// and more professional platforms mean a more established, harder-to-fake
// identity.
type FootprintAnalyzer struct {
	search SearchService
	site   *SiteProber
	log    zerolog.Logger
}

// NewFootprintAnalyzer creates the analyzer over a search service.
func NewFootprintAnalyzer(search SearchService, log zerolog.Logger) *FootprintAnalyzer {
	return &FootprintAnalyzer{
		search: search,
		site:   NewSiteProber(log),
		log:    log.With().Str("detector", "digital_footprint").Logger(),
	}
}

// Analyze searches for the candidate's name and email and scores the
// footprint. A stated personal site that mentions the candidate adds a
// small bonus. Individual query failures are skipped; the score reflects
// whatever results arrived.
func (a *FootprintAnalyzer) Analyze(ctx context.Context, fullName, email, website string) types.FootprintResult {
	queries := []string{
		fmt.Sprintf("%q", fullName),
		fmt.Sprintf("%q linkedin", fullName),
	}
	if email != "" {
		queries = append(queries, fmt.Sprintf("%q", email))
	}

	var merged []types.SearchHit
	seen := make(map[string]struct{})
	for _, q := range queries {
		hits, err := a.search.Search(ctx, q, footprintResultLimit)
		if err != nil {
			a.log.Warn().Err(err).Str("query", q).Msg("footprint query failed")
			continue
		}
		for _, hit := range hits {
			if hit.Link == "" {
				continue
			}
			if _, dup := seen[hit.Link]; dup {
				continue
			}
			seen[hit.Link] = struct{}{}
			merged = append(merged, hit)
		}
	}
	if len(merged) > footprintResultLimit {
		merged = merged[:footprintResultLimit]
	}

	social := make(map[string][]types.SearchHit)
	for _, hit := range merged {
		content := strings.ToLower(hit.Title + " " + hit.Snippet + " " + hit.Link)
		for _, platform := range professionalPlatforms {
			if strings.Contains(content, platform) {
				social[platform] = append(social[platform], hit)
				break
			}
		}
	}

	score := footprintScore(len(merged), social)
	sourcesUsed := []string{"google-customsearch"}

	var siteProbe *types.SiteProbe
	if website != "" {
		siteProbe = a.site.Probe(ctx, website, fullName)
		sourcesUsed = append(sourcesUsed, "personal-site")
		if siteProbe.MentionsName {
			score += siteBonus
			if score > 1.0 {
				score = 1.0
			}
		}
	}

	result := types.FootprintResult{
		SocialPresence:   social,
		SearchResults:    merged,
		PersonalSite:     siteProbe,
		ConsistencyScore: int(score * 100),
		Details:          fmt.Sprintf("%d unique results across %d queries; %d professional platforms", len(merged), len(queries), len(social)),
		SourcesUsed:      sourcesUsed,
	}

	a.log.Info().Int("results", len(merged)).Int("score", result.ConsistencyScore).Msg("footprint analysis completed")
	return result
}

// footprintScore starts at a low base and rewards result volume,
// professional platform presence and LinkedIn specifically, capped at 1.0.
func footprintScore(resultCount int, social map[string][]types.SearchHit) float64 {
	score := 0.3

	switch {
	case resultCount >= 8:
		score += 0.4
	case resultCount >= 5:
		score += 0.3
	case resultCount >= 3:
		score += 0.2
	case resultCount >= 1:
		score += 0.1
	}

	switch {
	case len(social) >= 3:
		score += 0.3
	case len(social) >= 2:
		score += 0.2
	case len(social) >= 1:
		score += 0.1
	}

	if _, ok := social["linkedin"]; ok {
		score += 0.1
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}
