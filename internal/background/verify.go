package background

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/daniel/resume-sentinel/internal/sources"
	"github.com/daniel/resume-sentinel/internal/types"
)

// claimConcurrency bounds how many claims are verified at once. Each claim
// already fans out two or three provider calls internally.
const claimConcurrency = 4

// rationale describes the verification method. Fixed strings, not per-claim
// commentary.
var rationale = []string{
	"Company identity checked via GLEIF and SEC EDGAR.",
	"Education validated via College Scorecard and OpenAlex.",
	"Timeline plausibility uses registry presence and optional Wayback snapshots (if employer_domain supplied).",
	"Developer evidence from GitHub profile and repo activity (optional).",
}

// Verifier is the background-verification entry point.
type Verifier struct {
	gatherer *Gatherer
	log      zerolog.Logger
}

// NewVerifier creates a verifier over the given provider bundle.
func NewVerifier(p Providers, log zerolog.Logger) *Verifier {
	return &Verifier{
		gatherer: NewGatherer(p, log),
		log:      log.With().Str("component", "background").Logger(),
	}
}

// Run verifies every claim in the request and assembles the report. Claims
// are independent and verified concurrently; a claim whose evidence cannot
// be gathered degrades to its category's neutral default. The only error
// returned is the context's, when the caller's deadline elapses before the
// report is complete.
func (v *Verifier) Run(ctx context.Context, req types.BackgroundRequest) (*types.BackgroundReport, error) {
	v.log.Info().
		Str("full_name", req.FullName).
		Int("positions", len(req.Positions)).
		Int("educations", len(req.Educations)).
		Msg("background verification started")

	report := &types.BackgroundReport{
		CompanyEvidence:    make(map[string]*types.CompanyEvidence, len(req.Positions)),
		EducationEvidence:  make(map[string]*types.EducationEvidence, len(req.Educations)),
		TimelineAssessment: make(map[string]*types.TimelineAssessment, len(req.Positions)),
		Rationale:          rationale,
		SourcesUsed:        sources.Names(),
	}

	var mu sync.Mutex
	eg := &errgroup.Group{}
	eg.SetLimit(claimConcurrency)

	// Evidence is keyed by employer name, so two positions at the same
	// employer share one entry (last write wins; the evidence is the same).
	for _, pos := range req.Positions {
		eg.Go(func() error {
			ev := v.gatherer.CompanyEvidence(ctx, pos.EmployerName)
			assessment := v.gatherer.AssessTimeline(ctx, pos, ev)
			mu.Lock()
			report.CompanyEvidence[pos.EmployerName] = ev
			report.TimelineAssessment[pos.EmployerName] = assessment
			mu.Unlock()
			return nil
		})
	}

	for _, edu := range req.Educations {
		eg.Go(func() error {
			ev := v.gatherer.EducationEvidence(ctx, edu.InstitutionName)
			mu.Lock()
			report.EducationEvidence[edu.InstitutionName] = ev
			mu.Unlock()
			return nil
		})
	}

	eg.Go(func() error {
		if req.Identifiers == nil {
			return nil
		}
		ev := v.gatherer.DeveloperEvidence(ctx, req.Identifiers.GitHubUsername)
		var researcher *types.ResearcherRecord
		if req.Identifiers.ORCIDID != "" {
			researcher = v.gatherer.providers.Researchers.FetchRecord(ctx, req.Identifiers.ORCIDID)
		}
		mu.Lock()
		report.DeveloperEvidence = ev
		report.Researcher = researcher
		mu.Unlock()
		return nil
	})

	_ = eg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	companyScores := make([]float64, 0, len(req.Positions))
	timelineWeights := make([]float64, 0, len(req.Positions))
	for _, pos := range req.Positions {
		companyScores = append(companyScores, CompanyIdentityScore(pos.EmployerName, report.CompanyEvidence[pos.EmployerName]))
		timelineWeights = append(timelineWeights, timelineWeight(report.TimelineAssessment[pos.EmployerName]))
	}

	educationScores := make([]float64, 0, len(req.Educations))
	for _, edu := range req.Educations {
		educationScores = append(educationScores, EducationInstitutionScore(edu.InstitutionName, report.EducationEvidence[edu.InstitutionName]))
	}

	companyOK := round2(mean(companyScores, 0.5))
	educationOK := round2(mean(educationScores, 0.5))
	timelineOK := round2(mean(timelineWeights, 0.5))
	devOK := DeveloperFootprintScore(report.DeveloperEvidence)

	report.Score = CompositeScore(companyOK, educationOK, timelineOK, devOK)

	v.log.Info().
		Str("full_name", req.FullName).
		Float64("composite", report.Score.Composite).
		Msg("background verification completed")
	return report, nil
}

// mean averages xs, returning fallback for an empty slice so that a request
// with no claims in a category still produces a defined neutral score.
func mean(xs []float64, fallback float64) float64 {
	if len(xs) == 0 {
		return fallback
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
