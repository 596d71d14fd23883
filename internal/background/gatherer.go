package background

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/daniel/resume-sentinel/internal/types"
)

// registrySearchLimit caps per-registry results for one claim. A handful of
// candidates is enough for name matching.
const registrySearchLimit = 3

// developerRepoLimit caps the repository listing fetched for a developer
// username.
const developerRepoLimit = 50

// Gatherer issues the per-claim provider fan-out. Sibling lookups for one
// claim run concurrently and fail independently: a provider returning
// nothing leaves its slot in the bundle empty and never disturbs the others.
type Gatherer struct {
	providers Providers
	log       zerolog.Logger
}

// NewGatherer creates a gatherer over the given provider bundle.
func NewGatherer(p Providers, log zerolog.Logger) *Gatherer {
	return &Gatherer{
		providers: p,
		log:       log.With().Str("component", "gatherer").Logger(),
	}
}

// CompanyEvidence looks up one employer claim in the legal-entity and
// securities-filer registries concurrently.
func (g *Gatherer) CompanyEvidence(ctx context.Context, employerName string) *types.CompanyEvidence {
	ev := &types.CompanyEvidence{}

	var eg errgroup.Group
	eg.Go(func() error {
		ev.LegalEntities = g.providers.Legal.SearchByName(ctx, employerName, registrySearchLimit)
		return nil
	})
	eg.Go(func() error {
		ev.Filer = g.providers.Filers.FindCompanyLike(ctx, employerName)
		return nil
	})
	_ = eg.Wait()

	g.log.Debug().
		Str("employer", employerName).
		Int("legal_entities", len(ev.LegalEntities)).
		Bool("filer", ev.Filer != nil).
		Msg("company evidence gathered")
	return ev
}

// EducationEvidence looks up one institution claim in the accredited-school
// and academic indexes concurrently.
func (g *Gatherer) EducationEvidence(ctx context.Context, institutionName string) *types.EducationEvidence {
	ev := &types.EducationEvidence{}

	var eg errgroup.Group
	eg.Go(func() error {
		ev.Scorecard = g.providers.Institutions.SearchInstitution(ctx, institutionName, registrySearchLimit)
		return nil
	})
	eg.Go(func() error {
		ev.OpenAlex = g.providers.Academic.SearchInstitutions(ctx, institutionName, registrySearchLimit)
		return nil
	})
	_ = eg.Wait()

	g.log.Debug().
		Str("institution", institutionName).
		Int("scorecard", len(ev.Scorecard)).
		Int("openalex", len(ev.OpenAlex)).
		Msg("education evidence gathered")
	return ev
}

// DeveloperEvidence fetches the developer footprint for username. An empty
// username short-circuits with no network call; repositories are fetched
// only when the profile resolves.
func (g *Gatherer) DeveloperEvidence(ctx context.Context, username string) types.DeveloperEvidence {
	if username == "" {
		return types.DeveloperEvidence{}
	}

	user := g.providers.Developers.UserOverview(ctx, username)
	if user == nil {
		return types.DeveloperEvidence{}
	}
	return types.DeveloperEvidence{
		User:  user,
		Repos: g.providers.Developers.Repos(ctx, username, developerRepoLimit),
	}
}
