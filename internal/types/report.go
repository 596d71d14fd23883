package types

import "time"

// AIDetectionResult is the AI-authorship verdict for the resume text.
type AIDetectionResult struct {
	IsAIGenerated bool   `json:"is_ai_generated"`
	Confidence    int    `json:"confidence"` // 0-100
	Model         string `json:"model"`
	Rationale     string `json:"rationale,omitempty"`
}

// DocumentAuthenticityResult is the metadata-forensics verdict for the file.
type DocumentAuthenticityResult struct {
	FileName             string   `json:"file_name"`
	FileSize             int      `json:"file_size"`
	FileType             string   `json:"file_type"`
	CreationDate         string   `json:"creation_date,omitempty"`
	ModificationDate     string   `json:"modification_date,omitempty"`
	Author               string   `json:"author,omitempty"`
	Creator              string   `json:"creator,omitempty"`
	Producer             string   `json:"producer,omitempty"`
	Title                string   `json:"title,omitempty"`
	Subject              string   `json:"subject,omitempty"`
	Keywords             string   `json:"keywords,omitempty"`
	PDFVersion           string   `json:"pdf_version,omitempty"`
	PageCount            int      `json:"page_count"`
	IsEncrypted          bool     `json:"is_encrypted"`
	HasDigitalSignature  bool     `json:"has_digital_signature"`
	SoftwareUsed         string   `json:"software_used,omitempty"`
	SuspiciousIndicators []string `json:"suspicious_indicators"`
	AuthenticityScore    int      `json:"authenticity_score"` // 0-100
	Rationale            string   `json:"rationale"`
}

// EmailCheck holds the per-signal results of email verification.
type EmailCheck struct {
	Input             string   `json:"input"`
	Normalized        string   `json:"normalized,omitempty"`
	SyntaxValid       bool     `json:"syntax_valid"`
	RegistrableDomain string   `json:"domain_registrable,omitempty"`
	MXRecordsFound    bool     `json:"mx_records_found"`
	IsDisposable      bool     `json:"is_disposable"`
	IsRole            bool     `json:"is_role"`
	Notes             []string `json:"notes,omitempty"`
}

// PhoneCheck holds the per-signal results of phone verification.
type PhoneCheck struct {
	Input       string   `json:"input"`
	E164        string   `json:"e164,omitempty"`
	Valid       bool     `json:"valid"`
	CountryCode string   `json:"country_code,omitempty"`
	RegionHint  string   `json:"region_hint,omitempty"`
	TollFree    bool     `json:"toll_free"`
	Notes       []string `json:"notes,omitempty"`
}

// GeoCheck compares the phone's region against the stated location.
type GeoCheck struct {
	StatedLocation     string `json:"stated_location"`
	PhoneCountryMatch  bool   `json:"phone_country_matches"`
	PhoneRegionMatch   bool   `json:"phone_region_matches"`
	TollFreeConflict   bool   `json:"toll_free_conflict"`
	PhoneRegion        string `json:"phone_region,omitempty"`
	PhoneCountry       string `json:"phone_country,omitempty"`
}

// ContactScore holds the weighted contact verification sub-scores.
type ContactScore struct {
	Email     float64 `json:"email_score"`
	Phone     float64 `json:"phone_score"`
	Geo       float64 `json:"geo_score"`
	Composite float64 `json:"composite"`
}

// ContactVerificationResult is the combined contact verification output.
type ContactVerificationResult struct {
	Email     *EmailCheck  `json:"email"`
	Phone     *PhoneCheck  `json:"phone,omitempty"`
	Geo       *GeoCheck    `json:"geo_consistency,omitempty"`
	Score     ContactScore `json:"score"`
	Rationale []string     `json:"rationale"`
}

// SearchHit is one web search result kept as footprint evidence.
type SearchHit struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet,omitempty"`
}

// SiteProbe is the result of checking the candidate's stated personal
// website.
type SiteProbe struct {
	URL          string `json:"url"`
	Reachable    bool   `json:"reachable"`
	Title        string `json:"title,omitempty"`
	MentionsName bool   `json:"mentions_name"`
}

// FootprintResult is the digital footprint analysis output.
type FootprintResult struct {
	SocialPresence   map[string][]SearchHit `json:"social_presence"`
	SearchResults    []SearchHit            `json:"search_results"`
	PersonalSite     *SiteProbe             `json:"personal_site,omitempty"`
	ConsistencyScore int                    `json:"consistency_score"` // 0-100
	Details          string                 `json:"details"`
	SourcesUsed      []string               `json:"sources_used"`
}

// Threat is one finding from the file security scan.
type Threat struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Severity string `json:"severity"` // high, medium or low
}

// SecurityScanResult is the file security scan output. A high-severity threat
// marks the file unsafe and short-circuits the rest of the analysis.
type SecurityScanResult struct {
	IsSafe   bool     `json:"is_safe"`
	Threats  []Threat `json:"threats_detected"`
	Warnings []Threat `json:"warnings"`
	MIMEType string   `json:"mime_type,omitempty"`
	SHA256   string   `json:"sha256,omitempty"`
}

// RiskSlice is one labeled 0-100 category score in the aggregated report.
type RiskSlice struct {
	Label       string `json:"label"`
	Score       int    `json:"score"`
	Description string `json:"description"`
}

// ReportEvidence collects the raw detector outputs behind the aggregate.
type ReportEvidence struct {
	Contact              *ContactVerificationResult  `json:"contact,omitempty"`
	AI                   *AIDetectionResult          `json:"ai,omitempty"`
	DocumentAuthenticity *DocumentAuthenticityResult `json:"document_authenticity,omitempty"`
	Background           *BackgroundReport           `json:"background,omitempty"`
	DigitalFootprint     *FootprintResult            `json:"digital_footprint,omitempty"`
	Security             *SecurityScanResult         `json:"security,omitempty"`
}

// AggregatedReport is the final weighted fraud-risk assessment.
type AggregatedReport struct {
	OverallScore   int                `json:"overall_score"` // 0-100
	WeightsApplied map[string]float64 `json:"weights_applied"`
	Slices         []RiskSlice        `json:"slices"`
	Evidence       ReportEvidence     `json:"evidence"`
	Rationale      []string           `json:"rationale"`
	GeneratedAt    time.Time          `json:"generated_at"`
	Version        string             `json:"version"`
}

// AnalysisResponse is the full response for one analyzed resume file.
type AnalysisResponse struct {
	ExtractedText        string                      `json:"extracted_text"`
	CandidateInfo        CandidateInfo               `json:"candidate_info"`
	AIDetection          *AIDetectionResult          `json:"ai_detection"`
	DocumentAuthenticity *DocumentAuthenticityResult `json:"document_authenticity"`
	ContactVerification  *ContactVerificationResult  `json:"contact_verification,omitempty"`
	BackgroundReport     *BackgroundReport           `json:"background_verification,omitempty"`
	DigitalFootprint     *FootprintResult            `json:"digital_footprint,omitempty"`
	Aggregated           AggregatedReport            `json:"aggregated_report"`
	RequestID            string                      `json:"request_id"`
}
