// Package background implements the evidence-aggregation and scoring engine
// behind background verification. For each claim it fans out concurrent
// registry lookups, reconciles fuzzy matches against the claimed names, and
// collapses the results into calibrated sub-scores and a timeline
// plausibility verdict. Provider failures degrade individual scores to
// defined neutrals; they never abort a verification run.
package background

import (
	"context"

	"github.com/daniel/resume-sentinel/internal/sources"
	"github.com/daniel/resume-sentinel/internal/types"
)

// LegalEntityRegistry searches a legal-entity identifier index by name.
type LegalEntityRegistry interface {
	SearchByName(ctx context.Context, name string, limit int) []types.LegalEntityRecord
}

// FilerRegistry matches a claimed employer against a securities filer index.
type FilerRegistry interface {
	FindCompanyLike(ctx context.Context, name string) *types.SECFilerRecord
}

// InstitutionIndex searches an accredited-institution index by name.
type InstitutionIndex interface {
	SearchInstitution(ctx context.Context, name string, limit int) []types.InstitutionRecord
}

// AcademicIndex searches an academic institution index by name.
type AcademicIndex interface {
	SearchInstitutions(ctx context.Context, name string, limit int) []types.AcademicRecord
}

// DeveloperIndex fetches the public developer footprint for a username.
type DeveloperIndex interface {
	UserOverview(ctx context.Context, username string) *types.DeveloperProfile
	Repos(ctx context.Context, username string, limit int) []types.RepoSummary
}

// SnapshotIndex returns domain capture history from a web archive.
type SnapshotIndex interface {
	FirstLastCapture(ctx context.Context, domain string) *types.SnapshotSummary
}

// ResearcherIndex resolves a researcher identifier.
type ResearcherIndex interface {
	FetchRecord(ctx context.Context, id string) *types.ResearcherRecord
}

// Providers holds one collaborator per registry. Every field is an interface
// so tests can substitute stubs per source.
type Providers struct {
	Legal        LegalEntityRegistry
	Filers       FilerRegistry
	Institutions InstitutionIndex
	Academic     AcademicIndex
	Developers   DeveloperIndex
	Snapshots    SnapshotIndex
	Researchers  ResearcherIndex
}

// FromSources adapts a production source set into a Providers bundle.
func FromSources(s *sources.Set) Providers {
	return Providers{
		Legal:        s.GLEIF,
		Filers:       s.SEC,
		Institutions: s.Scorecard,
		Academic:     s.OpenAlex,
		Developers:   s.GitHub,
		Snapshots:    s.Wayback,
		Researchers:  s.ORCID,
	}
}
