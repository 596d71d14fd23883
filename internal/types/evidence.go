package types

// LegalEntityRecord is one GLEIF LEI record matched against an employer claim.
type LegalEntityRecord struct {
	LEI       string `json:"lei"`
	LegalName string `json:"legal_name"`
	Status    string `json:"status"`
	Country   string `json:"country"`
}

// SECFilerRecord is a securities filer matched from the SEC ticker dataset.
type SECFilerRecord struct {
	CIK    int    `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

// CompanyEvidence bundles the registry records retrieved for one employer claim.
// Built fresh per verification call and never persisted.
type CompanyEvidence struct {
	LegalEntities []LegalEntityRecord `json:"gleif"`
	Filer         *SECFilerRecord     `json:"sec"`
}

// HasAny reports whether any source produced a record for this employer.
func (e *CompanyEvidence) HasAny() bool {
	return e != nil && (len(e.LegalEntities) > 0 || e.Filer != nil)
}

// InstitutionRecord is one College Scorecard school record.
type InstitutionRecord struct {
	Name      string `json:"name"`
	City      string `json:"city"`
	State     string `json:"state"`
	Operating bool   `json:"operating"`
}

// AcademicRecord is one OpenAlex institution record.
type AcademicRecord struct {
	ID           string `json:"id"`
	DisplayName  string `json:"display_name"`
	CountryCode  string `json:"country_code"`
	Type         string `json:"type"`
	WorksCount   int    `json:"works_count"`
	CitedByCount int    `json:"cited_by_count"`
}

// EducationEvidence bundles the registry records retrieved for one institution claim.
type EducationEvidence struct {
	Scorecard []InstitutionRecord `json:"scorecard"`
	OpenAlex  []AcademicRecord    `json:"openalex"`
}

// HasAny reports whether any source produced a record for this institution.
func (e *EducationEvidence) HasAny() bool {
	return e != nil && (len(e.Scorecard) > 0 || len(e.OpenAlex) > 0)
}

// DeveloperProfile is the projected GitHub user overview.
type DeveloperProfile struct {
	Login       string `json:"login"`
	Name        string `json:"name,omitempty"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// RepoSummary is the projection of one repository kept in developer evidence.
type RepoSummary struct {
	Name     string `json:"name"`
	PushedAt string `json:"pushed_at,omitempty"`
	Language string `json:"language,omitempty"`
}

// DeveloperEvidence bundles the optional developer-platform footprint.
// A zero value means no username was supplied or nothing was found.
type DeveloperEvidence struct {
	User  *DeveloperProfile `json:"user,omitempty"`
	Repos []RepoSummary     `json:"repos,omitempty"`
}

// ResearcherRecord is the projection of an ORCID record lookup.
type ResearcherRecord struct {
	ORCID string `json:"orcid"`
	Name  string `json:"name,omitempty"`
	Found bool   `json:"found"`
}

// SnapshotSummary condenses a Wayback CDX response to its first and last
// capture timestamps plus a total count. The full capture list is never kept.
type SnapshotSummary struct {
	First    string `json:"first"`
	Last     string `json:"last"`
	Captures int    `json:"captures"`
}

// TimelineAssessment is the plausibility verdict for one position claim.
// Plausible is tri-state: true, or nil for unknown/neutral. Registry absence
// maps to nil rather than false so that a data gap is never reported as a lie.
type TimelineAssessment struct {
	Plausible *bool            `json:"plausible"`
	Notes     []string         `json:"notes"`
	Wayback   *SnapshotSummary `json:"wayback,omitempty"`
}
