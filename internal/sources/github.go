package sources

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/daniel/resume-sentinel/internal/fetch"
	"github.com/daniel/resume-sentinel/internal/types"
)

const githubBaseURL = "https://api.github.com"

// githubTTL is short relative to the registries: developer activity changes
// within the day.
const githubTTL = 30 * time.Minute

// GitHub fetches the public developer footprint for a claimed username.
// A token raises the rate limit but is not required.
type GitHub struct {
	client  *fetch.Client
	log     zerolog.Logger
	baseURL string
	token   string
}

// NewGitHub creates the GitHub provider.
func NewGitHub(client *fetch.Client, log zerolog.Logger, token string) *GitHub {
	return &GitHub{
		client:  client,
		log:     log.With().Str("source", "github").Logger(),
		baseURL: githubBaseURL,
		token:   token,
	}
}

func (g *GitHub) headers() map[string]string {
	h := map[string]string{
		"Accept": "application/vnd.github+json",
	}
	if g.token != "" {
		h["Authorization"] = "Bearer " + g.token
	}
	return h
}

// UserOverview returns the public profile for username, or nil when the user
// does not exist or the lookup fails.
func (g *GitHub) UserOverview(ctx context.Context, username string) *types.DeveloperProfile {
	if username == "" {
		return nil
	}

	var profile types.DeveloperProfile
	err := g.client.GetJSON(ctx, fetch.Request{
		URL:         g.baseURL + "/users/" + username,
		Headers:     g.headers(),
		CachePrefix: "github_user",
		CacheTTL:    githubTTL,
	}, &profile)
	if err != nil {
		var fe *fetch.Error
		if errors.As(err, &fe) && fe.StatusCode == http.StatusNotFound {
			g.log.Debug().Str("username", username).Msg("github user not found")
		} else {
			g.log.Warn().Err(err).Str("username", username).Msg("github user lookup failed")
		}
		return nil
	}
	return &profile
}

// Repos returns up to limit public repositories for username ordered by most
// recent update. Failures yield an empty slice.
func (g *GitHub) Repos(ctx context.Context, username string, limit int) []types.RepoSummary {
	if username == "" {
		return nil
	}
	if limit <= 0 {
		limit = 10
	}

	var raw []struct {
		Name     string `json:"name"`
		PushedAt string `json:"pushed_at"`
		Language string `json:"language"`
	}
	err := g.client.GetJSON(ctx, fetch.Request{
		URL: g.baseURL + "/users/" + username + "/repos",
		Params: map[string]string{
			"per_page": strconv.Itoa(limit),
			"sort":     "updated",
		},
		Headers:     g.headers(),
		CachePrefix: "github_repos",
		CacheTTL:    githubTTL,
	}, &raw)
	if err != nil {
		g.log.Warn().Err(err).Str("username", username).Msg("github repo listing failed")
		return nil
	}

	out := make([]types.RepoSummary, 0, len(raw))
	for i, r := range raw {
		if i >= limit {
			break
		}
		out = append(out, types.RepoSummary{
			Name:     r.Name,
			PushedAt: r.PushedAt,
			Language: r.Language,
		})
	}
	return out
}
