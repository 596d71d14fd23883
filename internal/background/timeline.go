package background

import (
	"context"
	"strconv"

	"github.com/daniel/resume-sentinel/internal/match"
	"github.com/daniel/resume-sentinel/internal/types"
)

// Timeline note texts. Fixed strings so reports stay comparable across runs.
const (
	noteRegistryCorroborated = "Employer exists in authoritative/open registries."
	noteNoCorroboration      = "No registry corroboration available; neutral."
	noteEarlyStart           = "Claimed start precedes earliest public captures of employer domain; may still be ok, informational."
	noteSnapshotUnavailable  = "Web archive data unavailable for employer domain."
)

// AssessTimeline produces the plausibility verdict for one position claim
// given the company evidence gathered for its employer.
//
// The verdict is deliberately asymmetric: registry presence marks the claim
// plausible, but registry absence leaves it unknown rather than implausible,
// so a data gap is never reported as a lie. Web-archive capture history, when
// an employer domain was supplied, only ever adds informational notes.
func (g *Gatherer) AssessTimeline(ctx context.Context, pos types.PositionClaim, ev *types.CompanyEvidence) *types.TimelineAssessment {
	startYear, _ := match.ParseYearMonth(pos.Start)

	assessment := &types.TimelineAssessment{Notes: []string{}}
	if ev.HasAny() {
		plausible := true
		assessment.Plausible = &plausible
		assessment.Notes = append(assessment.Notes, noteRegistryCorroborated)
	} else {
		assessment.Notes = append(assessment.Notes, noteNoCorroboration)
	}

	if pos.EmployerDomain != "" {
		summary := g.providers.Snapshots.FirstLastCapture(ctx, pos.EmployerDomain)
		if summary == nil {
			assessment.Notes = append(assessment.Notes, noteSnapshotUnavailable)
		} else {
			assessment.Wayback = summary
			if startYear > 0 && len(summary.First) >= 4 {
				if firstYear, err := strconv.Atoi(summary.First[:4]); err == nil && startYear < firstYear {
					assessment.Notes = append(assessment.Notes, noteEarlyStart)
				}
			}
		}
	}

	return assessment
}

// timelineWeight maps one assessment to its contribution to the aggregate
// timeline score: corroborated positions count fully, everything else
// counts as half.
func timelineWeight(a *types.TimelineAssessment) float64 {
	if a != nil && a.Plausible != nil && *a.Plausible {
		return 1.0
	}
	return 0.5
}
