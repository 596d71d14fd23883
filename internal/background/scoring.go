package background

import (
	"math"
	"strings"

	"github.com/daniel/resume-sentinel/internal/match"
	"github.com/daniel/resume-sentinel/internal/types"
)

// majorBrands are globally recognized company names. A claim containing one
// of these gets relaxed matching thresholds and a higher no-data neutral,
// because large companies file registry entries under holding-company names
// that diverge lexically from the common brand.
var majorBrands = []string{
	"amazon web services", "aws", "amazon", "microsoft", "google", "apple",
	"meta", "facebook", "tesla", "netflix", "uber", "airbnb", "spotify",
	"twitter", "linkedin", "salesforce", "oracle", "ibm", "intel",
}

// Identity-scorer thresholds and neutrals.
const (
	identityThresholdMajor = 0.6
	identityThresholdOther = 0.75
	identityNeutralMajor   = 0.6
	identityNeutralOther   = 0.3
)

// Education-scorer thresholds and neutrals.
const (
	educationMatchThreshold = 0.8
	educationInconclusive   = 0.6
	educationNeutral        = 0.5
)

// Developer-scorer increments. The maximum reachable score is 0.6.
const (
	devProfileCredit   = 0.3
	devRepoListCredit  = 0.2
	devActivityCredit  = 0.1
	devScoreCap        = 0.6
	devRepoListMinimum = 5
	devActivityMinimum = 10
)

// Composite weights.
const (
	weightCompany   = 0.40
	weightEducation = 0.20
	weightTimeline  = 0.25
	weightDeveloper = 0.15
)

func isMajorBrand(name string) bool {
	low := strings.ToLower(name)
	for _, brand := range majorBrands {
		if strings.Contains(low, brand) {
			return true
		}
	}
	return false
}

// CompanyIdentityScore calibrates how confidently the evidence corroborates
// the claimed employer's legal identity.
//
// Each available source contributes to a signal fraction: a legal-entity
// record whose name clears the similarity threshold is a full signal, and a
// securities filer's mere presence is a full signal. A major brand with
// legal-entity records but no clean name match still earns half a signal,
// since presence under a plausible subsidiary structure is informative. With
// no sources at all the score falls back to a brand-aware neutral.
func CompanyIdentityScore(employerName string, ev *types.CompanyEvidence) float64 {
	major := isMajorBrand(employerName)

	signals := 0.0
	total := 0

	if ev != nil && len(ev.LegalEntities) > 0 {
		total++
		threshold := identityThresholdOther
		if major {
			threshold = identityThresholdMajor
		}
		matched := false
		for _, rec := range ev.LegalEntities {
			if match.Ratio(employerName, rec.LegalName) > threshold {
				matched = true
				break
			}
		}
		switch {
		case matched:
			signals++
		case major:
			signals += 0.5
		}
	}

	if ev != nil && ev.Filer != nil {
		total++
		signals++
	}

	if total == 0 {
		if major {
			return identityNeutralMajor
		}
		return identityNeutralOther
	}
	return math.Min(1.0, math.Max(0.0, signals/float64(total)))
}

// EducationInstitutionScore calibrates how confidently the evidence
// corroborates the claimed institution. Either registry alone is
// authoritative: any strong name match yields the full score, data without a
// qualifying match is inconclusive, and no data is neutral.
func EducationInstitutionScore(institutionName string, ev *types.EducationEvidence) float64 {
	if ev != nil {
		for _, rec := range ev.Scorecard {
			if match.Ratio(institutionName, rec.Name) > educationMatchThreshold {
				return 1.0
			}
		}
		for _, rec := range ev.OpenAlex {
			if match.Ratio(institutionName, rec.DisplayName) > educationMatchThreshold {
				return 1.0
			}
		}
	}
	if ev.HasAny() {
		return educationInconclusive
	}
	return educationNeutral
}

// DeveloperFootprintScore is purely additive over positive evidence, capped
// at 0.6. No username or no resolvable profile stays at zero: unscored, not
// penalized.
func DeveloperFootprintScore(ev types.DeveloperEvidence) float64 {
	if ev.User == nil {
		return 0.0
	}
	score := devProfileCredit
	if len(ev.Repos) >= devRepoListMinimum {
		score += devRepoListCredit
	}
	if ev.User.PublicRepos > devActivityMinimum {
		score += devActivityCredit
	}
	return math.Min(devScoreCap, score)
}

// CompositeScore blends the category scores with fixed weights. The
// developer score arrives in [0, 0.6] and is normalized to [0, 1] before
// weighting; all presented scores are rounded to two decimals.
func CompositeScore(companyOK, educationOK, timelineOK, devOK float64) types.BackgroundScore {
	normalizedDev := 0.0
	if devOK > 0 {
		normalizedDev = math.Min(1.0, devOK/devScoreCap)
	}
	composite := weightCompany*companyOK +
		weightEducation*educationOK +
		weightTimeline*timelineOK +
		weightDeveloper*normalizedDev

	return types.BackgroundScore{
		CompanyIdentity:       round2(companyOK),
		EducationInstitution:  round2(educationOK),
		TimelineCorroboration: round2(timelineOK),
		DeveloperFootprint:    round2(devOK),
		Composite:             round2(composite),
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
