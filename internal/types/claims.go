// Package types provides type definitions for structured data used throughout the resume-sentinel system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// PositionClaim is a candidate-asserted employment at a company, awaiting corroboration.
type PositionClaim struct {
	EmployerName   string `json:"employer_name" validate:"required"`
	Title          string `json:"title,omitempty"`
	Start          string `json:"start,omitempty"` // "YYYY", "YYYY-MM" or "present"
	End            string `json:"end,omitempty"`   // "YYYY", "YYYY-MM" or "present"
	Location       string `json:"location,omitempty"`
	EmployerDomain string `json:"employer_domain,omitempty"` // e.g. example.com
}

// EducationClaim is a candidate-asserted credential at an institution.
type EducationClaim struct {
	InstitutionName string `json:"institution_name" validate:"required"`
	Degree          string `json:"degree,omitempty"`
	StartYear       *int   `json:"start_year,omitempty"`
	EndYear         *int   `json:"end_year,omitempty"`
}

// Identifiers holds optional external identifiers for the candidate.
type Identifiers struct {
	GitHubUsername string `json:"github_username,omitempty"`
	ORCIDID        string `json:"orcid_id,omitempty"` // e.g. 0000-0002-1825-0097
	PersonalSite   string `json:"personal_site,omitempty" validate:"omitempty,url"`
}

// BackgroundRequest is the full claim set for one background verification call.
type BackgroundRequest struct {
	FullName    string           `json:"full_name" validate:"required"`
	Positions   []PositionClaim  `json:"positions" validate:"dive"`
	Educations  []EducationClaim `json:"educations" validate:"dive"`
	Identifiers *Identifiers     `json:"identifiers,omitempty"`
}

// CandidateInfo is the contact block extracted from a resume.
type CandidateInfo struct {
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Website  string `json:"website,omitempty"`
}
