// Package extraction turns raw resume text into structured claims: candidate
// contact details, employment positions and education credentials. The model
// output is validated against JSON Schemas before use, and contact extraction
// falls back to pattern matching when the model response is unusable.
package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/daniel/resume-sentinel/internal/llm"
	"github.com/daniel/resume-sentinel/internal/types"
)

// Truncation limits for model prompts.
const (
	candidateTextLimit = 2000
	claimsTextLimit    = 4000
)

// unknownCandidate is used when no name can be recovered from the text.
const unknownCandidate = "Unknown Candidate"

var githubURLRe = regexp.MustCompile(`github\.com/([\w-]+)`)

// Extractor pulls structured claims out of resume text.
type Extractor struct {
	llm llm.Client
	log zerolog.Logger
}

// NewExtractor creates an extractor over an LLM client.
func NewExtractor(client llm.Client, log zerolog.Logger) *Extractor {
	return &Extractor{
		llm: client,
		log: log.With().Str("component", "extraction").Logger(),
	}
}

// ExtractCandidate returns the candidate's contact block. Model failure or an
// invalid response falls back to regex extraction; the result always carries
// at least a name placeholder.
func (e *Extractor) ExtractCandidate(ctx context.Context, text string) types.CandidateInfo {
	raw, err := e.llm.GenerateJSON(ctx, candidatePrompt(truncate(text, candidateTextLimit)), llm.TierLite)
	if err != nil {
		e.log.Warn().Err(err).Msg("candidate extraction call failed, using fallback")
		return fallbackCandidate(text)
	}
	if err := validateAgainst(candidateSchema, raw); err != nil {
		e.log.Warn().Err(err).Msg("candidate extraction response rejected, using fallback")
		return fallbackCandidate(text)
	}

	var info types.CandidateInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		e.log.Warn().Err(err).Msg("unparseable candidate response, using fallback")
		return fallbackCandidate(text)
	}
	if info.FullName == "" {
		info.FullName = unknownCandidate
	}
	return info
}

// ExtractPositions returns the employment claims found in the text. Failures
// yield an empty slice, never an error.
func (e *Extractor) ExtractPositions(ctx context.Context, text string) []types.PositionClaim {
	raw, err := e.llm.GenerateJSON(ctx, positionsPrompt(truncate(text, claimsTextLimit)), llm.TierStandard)
	if err != nil {
		e.log.Warn().Err(err).Msg("position extraction call failed")
		return nil
	}
	if err := validateAgainst(positionsSchema, raw); err != nil {
		e.log.Warn().Err(err).Msg("position extraction response rejected")
		return nil
	}

	var payload struct {
		Positions []types.PositionClaim `json:"positions"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		e.log.Warn().Err(err).Msg("unparseable positions response")
		return nil
	}

	positions := payload.Positions[:0]
	for _, pos := range payload.Positions {
		if pos.EmployerName != "" {
			positions = append(positions, pos)
		}
	}
	e.log.Debug().Int("positions", len(positions)).Msg("positions extracted")
	return positions
}

// ExtractEducations returns the education claims found in the text.
func (e *Extractor) ExtractEducations(ctx context.Context, text string) []types.EducationClaim {
	raw, err := e.llm.GenerateJSON(ctx, educationsPrompt(truncate(text, claimsTextLimit)), llm.TierStandard)
	if err != nil {
		e.log.Warn().Err(err).Msg("education extraction call failed")
		return nil
	}
	if err := validateAgainst(educationsSchema, raw); err != nil {
		e.log.Warn().Err(err).Msg("education extraction response rejected")
		return nil
	}

	var payload struct {
		Educations []types.EducationClaim `json:"educations"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		e.log.Warn().Err(err).Msg("unparseable educations response")
		return nil
	}

	educations := payload.Educations[:0]
	for _, edu := range payload.Educations {
		if edu.InstitutionName != "" {
			educations = append(educations, edu)
		}
	}
	e.log.Debug().Int("educations", len(educations)).Msg("educations extracted")
	return educations
}

// BuildBackgroundRequest assembles the verification request from extracted
// claims. The GitHub username is derived from the candidate's profile URL.
func BuildBackgroundRequest(info types.CandidateInfo, positions []types.PositionClaim, educations []types.EducationClaim) types.BackgroundRequest {
	req := types.BackgroundRequest{
		FullName:   info.FullName,
		Positions:  positions,
		Educations: educations,
	}
	username := GitHubUsername(info.GitHub)
	if username != "" || info.Website != "" {
		req.Identifiers = &types.Identifiers{
			GitHubUsername: username,
			PersonalSite:   info.Website,
		}
	}
	return req
}

// GitHubUsername extracts the account name from a github.com profile URL.
// Returns "" when the input is not a GitHub URL.
func GitHubUsername(url string) string {
	m := githubURLRe.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}

func truncate(text string, limit int) string {
	if len(text) > limit {
		return text[:limit]
	}
	return text
}

func candidatePrompt(text string) string {
	return fmt.Sprintf(`Extract candidate contact information from this resume. Respond with ONLY a JSON object in this exact format:

{
  "full_name": "First Last",
  "email": "email@example.com",
  "phone": "+1234567890",
  "location": "City, State/Country",
  "linkedin": "https://linkedin.com/in/username",
  "github": "https://github.com/username",
  "website": "https://website.com"
}

Extract the person's full name, email, phone, location, and any social media profiles. Omit any field that is not present in the text.

Resume text:
%s`, text)
}

func positionsPrompt(text string) string {
	return fmt.Sprintf(`Extract work experience from this resume. Respond with ONLY a JSON object in this exact format:

{
  "positions": [
    {
      "employer_name": "Company Name",
      "title": "Job Title",
      "start": "YYYY-MM",
      "end": "YYYY-MM or 'present'",
      "location": "City, State/Country",
      "employer_domain": "company.com"
    }
  ]
}

IMPORTANT:
- Extract each work position separately, even if the formatting is poor
- Company names are usually followed by job titles and dates
- For company names, use the main company name without abbreviations in parentheses
  - "Amazon Web Services (AWS)" becomes "Amazon Web Services"
  - "Microsoft (MSFT)" becomes "Microsoft"

If no work experience is found, return an empty positions array.

Resume text:
%s`, text)
}

func educationsPrompt(text string) string {
	return fmt.Sprintf(`Extract education from this resume. Respond with ONLY a JSON object in this exact format:

{
  "educations": [
    {
      "institution_name": "University Name",
      "degree": "Degree Type",
      "start_year": 2015,
      "end_year": 2019
    }
  ]
}

IMPORTANT: For institution_name, extract ONLY the parent university/college name, NOT the specific school or department.

Examples:
- "University of Virginia, School of Engineering and Applied Sciences" becomes "University of Virginia"
- "Stanford University, School of Medicine" becomes "Stanford University"
- "Harvard Business School" becomes "Harvard University"

If no education is found, return an empty educations array.

Resume text:
%s`, text)
}
