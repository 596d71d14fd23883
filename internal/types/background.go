package types

// BackgroundScore holds the four category sub-scores plus the weighted
// composite. Sub-scores are in [0,1] except DeveloperFootprint, which is
// stored pre-normalization in [0,0.6]. All values are rounded to two decimals.
type BackgroundScore struct {
	CompanyIdentity       float64 `json:"company_identity_score"`
	EducationInstitution  float64 `json:"education_institution_score"`
	TimelineCorroboration float64 `json:"timeline_corroboration_score"`
	DeveloperFootprint    float64 `json:"developer_footprint_score"`
	Composite             float64 `json:"composite"`
}

// BackgroundReport is the full output of one background verification call.
type BackgroundReport struct {
	CompanyEvidence    map[string]*CompanyEvidence    `json:"company_evidence"`
	EducationEvidence  map[string]*EducationEvidence  `json:"education_evidence"`
	DeveloperEvidence  DeveloperEvidence              `json:"developer_evidence"`
	Researcher         *ResearcherRecord              `json:"researcher,omitempty"`
	TimelineAssessment map[string]*TimelineAssessment `json:"timeline_assessment"`
	Score              BackgroundScore                `json:"score"`
	Rationale          []string                       `json:"rationale"`
	SourcesUsed        []string                       `json:"sources_used"`
}
