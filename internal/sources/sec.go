package sources

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/daniel/resume-sentinel/internal/fetch"
	"github.com/daniel/resume-sentinel/internal/match"
	"github.com/daniel/resume-sentinel/internal/types"
)

const secTickersURL = "https://www.sec.gov/files/company_tickers.json"

// secTickersTTL covers the HTTP cache layer; the parsed dataset is also
// memoized for the process lifetime below.
const secTickersTTL = 24 * time.Hour

// secAcceptThreshold is deliberately loose: filer titles abbreviate heavily
// ("Amazon Com Inc"), so pure word overlap under-scores legitimate matches.
const secAcceptThreshold = 0.2

// secBrandBoost is the floor applied when both the claim and a filer title
// carry the same well-known brand token.
const secBrandBoost = 0.8

// SEC matches employer claims against the SEC EDGAR ticker dataset. The full
// dataset is fetched once per process and searched in memory; concurrent
// first-time callers share a single fetch via singleflight, and the first
// successful load wins for the process lifetime.
type SEC struct {
	client       *fetch.Client
	log          zerolog.Logger
	baseURL      string
	contactEmail string

	group   singleflight.Group
	mu      sync.RWMutex
	tickers []types.SECFilerRecord
	loaded  bool
}

// NewSEC creates the SEC provider. contactEmail is sent in the User-Agent
// per SEC fair-access policy.
func NewSEC(client *fetch.Client, log zerolog.Logger, contactEmail string) *SEC {
	return &SEC{
		client:       client,
		log:          log.With().Str("source", "sec").Logger(),
		baseURL:      secTickersURL,
		contactEmail: contactEmail,
	}
}

// FindCompanyLike returns the best filer match for name, or nil when no
// filer clears the acceptance threshold or the dataset is unavailable.
func (s *SEC) FindCompanyLike(ctx context.Context, name string) *types.SECFilerRecord {
	tickers := s.loadTickers(ctx)
	if len(tickers) == 0 {
		return nil
	}

	searchName := strings.ToLower(CanonicalName(name))

	var best *types.SECFilerRecord
	bestSim := 0.0
	for i := range tickers {
		rec := &tickers[i]
		sim := match.WordOverlap(searchName, rec.Title)
		if SharesBrandToken(searchName, rec.Title) && sim < secBrandBoost {
			sim = secBrandBoost
		}
		if sim > bestSim {
			best, bestSim = rec, sim
		}
	}

	if best == nil || bestSim <= secAcceptThreshold {
		return nil
	}
	s.log.Debug().Str("name", name).Str("title", best.Title).Float64("similarity", bestSim).Msg("sec filer match")
	cp := *best
	return &cp
}

// loadTickers returns the memoized dataset, fetching it on first use.
func (s *SEC) loadTickers(ctx context.Context) []types.SECFilerRecord {
	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		return s.tickers
	}
	s.mu.RUnlock()

	v, err, _ := s.group.Do("sec_tickers", func() (any, error) {
		// Re-check: another caller may have completed the load while this
		// one waited on the singleflight slot.
		s.mu.RLock()
		if s.loaded {
			defer s.mu.RUnlock()
			return s.tickers, nil
		}
		s.mu.RUnlock()

		var raw map[string]types.SECFilerRecord
		err := s.client.GetJSON(ctx, fetch.Request{
			URL: s.baseURL,
			Headers: map[string]string{
				"User-Agent": fmt.Sprintf("resume-sentinel/1.0 (%s)", s.contactEmail),
			},
			CachePrefix: "sec_tickers",
			CacheTTL:    secTickersTTL,
		}, &raw)
		if err != nil {
			return nil, err
		}

		list := make([]types.SECFilerRecord, 0, len(raw))
		for _, rec := range raw {
			list = append(list, rec)
		}

		s.mu.Lock()
		s.tickers = list
		s.loaded = true
		s.mu.Unlock()
		return list, nil
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("sec ticker dataset load failed")
		return nil
	}
	return v.([]types.SECFilerRecord)
}
