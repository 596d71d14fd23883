package detectors

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/daniel/resume-sentinel/internal/docparse"
	"github.com/daniel/resume-sentinel/internal/llm"
	"github.com/daniel/resume-sentinel/internal/types"
)

// DocAuthDetector judges document authenticity from file metadata: who made
// it, with what software, and whether the properties look fabricated.
type DocAuthDetector struct {
	llm llm.Client
	log zerolog.Logger
}

// NewDocAuthDetector creates the detector over an LLM client.
func NewDocAuthDetector(client llm.Client, log zerolog.Logger) *DocAuthDetector {
	return &DocAuthDetector{
		llm: client,
		log: log.With().Str("detector", "document_auth").Logger(),
	}
}

// suspiciousSoftware are producer/creator name fragments associated with
// fabricated documents.
var suspiciousSoftware = []string{"fake", "forged", "crack", "resume generator", "cv generator", "ai resume"}

type authVerdict struct {
	SuspiciousIndicators []string `json:"suspiciousIndicators"`
	AuthenticityScore    int      `json:"authenticityScore"`
	Rationale            string   `json:"rationale"`
}

// Analyze extracts document metadata and asks the model for an authenticity
// judgment. Metadata extraction or model failure yields the neutral
// 50-score result.
func (d *DocAuthDetector) Analyze(ctx context.Context, content []byte, filename string) types.DocumentAuthenticityResult {
	mimeType := docparse.DetectMIME(content, filename)
	result := types.DocumentAuthenticityResult{
		FileName:             filename,
		FileSize:             len(content),
		FileType:             mimeType,
		SuspiciousIndicators: []string{},
	}

	meta, err := docparse.ExtractMetadata(content, filename)
	if err != nil {
		d.log.Error().Err(err).Str("file", filename).Msg("metadata extraction failed")
		result.SuspiciousIndicators = []string{"Analysis failed"}
		result.AuthenticityScore = 50
		result.Rationale = fmt.Sprintf("Unable to analyze document: %v", err)
		return result
	}

	result.CreationDate = meta.CreationDate
	result.ModificationDate = meta.ModificationDate
	result.Author = meta.Author
	result.Creator = meta.Creator
	result.Producer = meta.Producer
	result.Title = meta.Title
	result.Subject = meta.Subject
	result.Keywords = meta.Keywords
	result.PDFVersion = meta.PDFVersion
	result.PageCount = meta.PageCount
	result.IsEncrypted = meta.Encrypted
	result.SoftwareUsed = meta.SoftwareUsed

	structural := structuralIndicators(&result)

	verdict, err := d.judgeMetadata(ctx, &result, structural)
	if err != nil {
		d.log.Error().Err(err).Str("file", filename).Msg("authenticity judgment failed")
		result.SuspiciousIndicators = structural
		if result.SuspiciousIndicators == nil {
			result.SuspiciousIndicators = []string{}
		}
		result.AuthenticityScore = 50
		result.Rationale = "Unable to analyze document metadata"
		return result
	}

	result.SuspiciousIndicators = mergeIndicators(structural, verdict.SuspiciousIndicators)
	result.AuthenticityScore = clampScore(verdict.AuthenticityScore)
	result.Rationale = verdict.Rationale

	d.log.Info().Str("file", filename).Int("score", result.AuthenticityScore).Msg("authenticity analysis completed")
	return result
}

// structuralIndicators runs the metadata checks that need no model: missing
// provenance fields, impossible dates, suspicious producer software. Both
// PDF (D:YYYYMMDD...) and DOCX (ISO 8601) date strings order correctly under
// plain string comparison.
func structuralIndicators(r *types.DocumentAuthenticityResult) []string {
	var indicators []string
	if r.Author == "" {
		indicators = append(indicators, "Missing author metadata")
	}
	if r.Producer == "" && r.Creator == "" {
		indicators = append(indicators, "Missing producer and creator metadata")
	}
	if r.CreationDate != "" && r.CreationDate == r.ModificationDate {
		indicators = append(indicators, "Creation and modification timestamps are identical")
	}
	if r.CreationDate != "" && r.ModificationDate != "" && r.CreationDate > r.ModificationDate {
		indicators = append(indicators, "Creation date is after modification date")
	}
	software := strings.ToLower(r.Producer + " " + r.Creator + " " + r.SoftwareUsed)
	for _, name := range suspiciousSoftware {
		if strings.Contains(software, name) {
			indicators = append(indicators, "Suspicious producer software: "+name)
			break
		}
	}
	if r.PageCount == 0 {
		indicators = append(indicators, "Document reports zero pages")
	}
	if r.IsEncrypted {
		indicators = append(indicators, "Document is encrypted")
	}
	return indicators
}

// mergeIndicators appends the model's indicators to the structural ones,
// dropping exact duplicates.
func mergeIndicators(structural, fromModel []string) []string {
	merged := make([]string, 0, len(structural)+len(fromModel))
	seen := make(map[string]struct{}, len(structural)+len(fromModel))
	for _, list := range [][]string{structural, fromModel} {
		for _, ind := range list {
			if _, dup := seen[ind]; dup {
				continue
			}
			seen[ind] = struct{}{}
			merged = append(merged, ind)
		}
	}
	return merged
}

func (d *DocAuthDetector) judgeMetadata(ctx context.Context, r *types.DocumentAuthenticityResult, structural []string) (*authVerdict, error) {
	raw, err := d.llm.GenerateJSON(ctx, authenticityPrompt(r, structural), llm.TierStandard)
	if err != nil {
		return nil, err
	}
	var verdict authVerdict
	if err := json.Unmarshal([]byte(raw), &verdict); err != nil {
		return nil, fmt.Errorf("unparseable authenticity response: %w", err)
	}
	return &verdict, nil
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func authenticityPrompt(r *types.DocumentAuthenticityResult, structural []string) string {
	flagged := "None"
	if len(structural) > 0 {
		flagged = strings.Join(structural, "; ")
	}
	return fmt.Sprintf(`Analyze the following document metadata for authenticity and fraud indicators. Return ONLY a JSON object with the exact structure shown below.

Document Metadata:
- File Type: %s
- File Size: %d bytes
- Creation Date: %s
- Modification Date: %s
- Author: %s
- Creator: %s
- Producer: %s
- Title: %s
- Subject: %s
- Keywords: %s
- PDF Version: %s
- Page Count: %d
- Is Encrypted: %t
- Software Used: %s

Structural checks already flagged: %s

Analyze for these fraud indicators:
1. Suspicious software names (e.g., "AI Resume Generator", "Fake Document Creator")
2. Unrealistic creation/modification times (same second, future dates)
3. Missing or suspicious author information
4. Unusual file properties (extremely small/large sizes)
5. Version inconsistencies
6. Generic or suspicious titles/subjects
7. Missing standard metadata fields
8. Signs of automated generation

Return JSON in this exact format:
{
  "suspiciousIndicators": ["indicator1", "indicator2"],
  "authenticityScore": 85,
  "rationale": "Brief explanation of the analysis"
}

Where authenticityScore is 0-100 (0 = highly suspicious, 100 = very authentic).`,
		r.FileType, r.FileSize, orUnknown(r.CreationDate), orUnknown(r.ModificationDate),
		orUnknown(r.Author), orUnknown(r.Creator), orUnknown(r.Producer), orUnknown(r.Title),
		orUnknown(r.Subject), orUnknown(r.Keywords), orUnknown(r.PDFVersion), r.PageCount,
		r.IsEncrypted, orUnknown(r.SoftwareUsed), flagged)
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
