package detectors

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/daniel/resume-sentinel/internal/types"
)

// siteProbeTimeout bounds the personal-site fetch. A slow or dead site is
// just an unreachable probe, not an error.
const siteProbeTimeout = 5 * time.Second

// SiteProber checks whether the candidate's stated personal website exists
// and actually mentions them.
type SiteProber struct {
	client *http.Client
	log    zerolog.Logger
}

// NewSiteProber creates the prober.
func NewSiteProber(log zerolog.Logger) *SiteProber {
	return &SiteProber{
		client: &http.Client{Timeout: siteProbeTimeout},
		log:    log.With().Str("detector", "site_probe").Logger(),
	}
}

// Probe fetches the site and reports its title and whether the candidate's
// name appears in the page text.
func (p *SiteProber) Probe(ctx context.Context, siteURL, fullName string) *types.SiteProbe {
	probe := &types.SiteProbe{URL: siteURL}
	if siteURL == "" {
		return probe
	}
	if !strings.HasPrefix(siteURL, "http://") && !strings.HasPrefix(siteURL, "https://") {
		siteURL = "https://" + siteURL
		probe.URL = siteURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, siteURL, nil)
	if err != nil {
		p.log.Debug().Err(err).Str("url", siteURL).Msg("invalid personal site url")
		return probe
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Debug().Err(err).Str("url", siteURL).Msg("personal site unreachable")
		return probe
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return probe
	}
	probe.Reachable = true

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		p.log.Debug().Err(err).Str("url", siteURL).Msg("personal site not parseable")
		return probe
	}

	probe.Title = strings.TrimSpace(doc.Find("title").First().Text())
	if fullName != "" {
		text := strings.ToLower(doc.Find("body").Text() + " " + probe.Title)
		probe.MentionsName = strings.Contains(text, strings.ToLower(fullName))
	}
	return probe
}
