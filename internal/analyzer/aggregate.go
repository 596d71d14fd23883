package analyzer

import (
	"fmt"
	"time"

	"github.com/daniel/resume-sentinel/internal/types"
)

// Slice labels, keyed into riskWeights.
const (
	labelContact    = "Contact Info"
	labelAI         = "AI Content"
	labelBackground = "Background"
	labelFootprint  = "Digital Footprint"
	labelDocAuth    = "Document Authenticity"
	labelSecurity   = "File Security"
)

// riskWeights is how much each detector contributes to the overall score.
var riskWeights = map[string]float64{
	labelContact:    0.20,
	labelAI:         0.30,
	labelBackground: 0.20,
	labelFootprint:  0.10,
	labelDocAuth:    0.10,
	labelSecurity:   0.10,
}

// contactVerifiedThreshold marks a contact score as verified rather than
// needing review.
const contactVerifiedThreshold = 70

// aggregate folds every detector result into the weighted report. Detectors
// that did not run contribute the neutral 50 slice.
func aggregate(
	ai *types.AIDetectionResult,
	doc *types.DocumentAuthenticityResult,
	contact *types.ContactVerificationResult,
	bg *types.BackgroundReport,
	footprint *types.FootprintResult,
	security *types.SecurityScanResult,
) types.AggregatedReport {
	var slices []types.RiskSlice

	// High confidence that text is AI-written lowers the slice, high
	// confidence it is human raises it.
	aiScore := ai.Confidence
	aiLabel := "Human Written"
	if ai.IsAIGenerated {
		aiScore = 100 - ai.Confidence
		aiLabel = "AI Generated"
	}
	slices = append(slices, types.RiskSlice{
		Label:       labelAI,
		Score:       aiScore,
		Description: fmt.Sprintf("%s (confidence: %d%%)", aiLabel, ai.Confidence),
	})

	slices = append(slices, types.RiskSlice{
		Label:       labelDocAuth,
		Score:       doc.AuthenticityScore,
		Description: fmt.Sprintf("Authenticity score: %d%%", doc.AuthenticityScore),
	})

	if contact != nil {
		score := int(contact.Score.Composite * 100)
		desc := fmt.Sprintf("Contact verification score: %d%%", score)
		if score < contactVerifiedThreshold {
			desc += " (needs review)"
		}
		slices = append(slices, types.RiskSlice{Label: labelContact, Score: score, Description: desc})
	} else {
		slices = append(slices, types.RiskSlice{Label: labelContact, Score: 50, Description: "Contact verification not performed"})
	}

	if bg != nil {
		score := int(bg.Score.Composite * 100)
		slices = append(slices, types.RiskSlice{
			Label:       labelBackground,
			Score:       score,
			Description: fmt.Sprintf("Background verification score: %d%%", score),
		})
	} else {
		slices = append(slices, types.RiskSlice{Label: labelBackground, Score: 50, Description: "Background verification not performed"})
	}

	if footprint != nil {
		slices = append(slices, types.RiskSlice{
			Label:       labelFootprint,
			Score:       footprint.ConsistencyScore,
			Description: fmt.Sprintf("Digital footprint consistency: %d%%", footprint.ConsistencyScore),
		})
	} else {
		slices = append(slices, types.RiskSlice{Label: labelFootprint, Score: 50, Description: "Digital footprint analysis not performed"})
	}

	slices = append(slices, securitySlice(security))

	overall := 0.0
	for _, s := range slices {
		overall += float64(s.Score) * riskWeights[s.Label]
	}

	return types.AggregatedReport{
		OverallScore:   int(overall),
		WeightsApplied: riskWeights,
		Slices:         slices,
		Evidence: types.ReportEvidence{
			Contact:              contact,
			AI:                   ai,
			DocumentAuthenticity: doc,
			Background:           bg,
			DigitalFootprint:     footprint,
			Security:             security,
		},
		Rationale:   aggregateRationale(ai, doc, contact, bg),
		GeneratedAt: time.Now().UTC(),
		Version:     reportVersion,
	}
}

func securitySlice(security *types.SecurityScanResult) types.RiskSlice {
	if security == nil {
		return types.RiskSlice{Label: labelSecurity, Score: 50, Description: "Security scan not performed"}
	}
	if security.IsSafe {
		if len(security.Warnings) > 0 {
			return types.RiskSlice{
				Label:       labelSecurity,
				Score:       50,
				Description: fmt.Sprintf("File has %d security warnings", len(security.Warnings)),
			}
		}
		return types.RiskSlice{Label: labelSecurity, Score: 100, Description: "File passed security scan"}
	}

	high := 0
	for _, threat := range security.Threats {
		if threat.Severity == "high" {
			high++
		}
	}
	return types.RiskSlice{
		Label:       labelSecurity,
		Score:       0,
		Description: fmt.Sprintf("File failed security scan: %d high-severity threats", high),
	}
}

func aggregateRationale(ai *types.AIDetectionResult, doc *types.DocumentAuthenticityResult, contact *types.ContactVerificationResult, bg *types.BackgroundReport) []string {
	aiRisk := "Low risk"
	if ai.IsAIGenerated {
		aiRisk = "High risk"
	}
	rationale := []string{
		fmt.Sprintf("AI Content: %s (%d%% confidence)", aiRisk, ai.Confidence),
		fmt.Sprintf("Document Authenticity: %d%% authentic", doc.AuthenticityScore),
	}
	if contact != nil {
		rationale = append(rationale, fmt.Sprintf("Contact Verification: %.0f%% score", contact.Score.Composite*100))
	} else {
		rationale = append(rationale, "Contact Verification: Not performed")
	}
	if bg != nil {
		rationale = append(rationale, fmt.Sprintf("Background Verification: %.0f%% score", bg.Score.Composite*100))
	} else {
		rationale = append(rationale, "Background Verification: Not performed")
	}
	return rationale
}

// quarantinedResponse is the early return for files that fail the security
// scan. Nothing beyond candidate extraction has run.
func quarantinedResponse(requestID, filename string, content []byte, text string, info types.CandidateInfo, scan *types.SecurityScanResult) *types.AnalysisResponse {
	indicators := make([]string, 0, len(scan.Threats))
	for _, threat := range scan.Threats {
		indicators = append(indicators, threat.Message)
	}

	ai := types.AIDetectionResult{
		IsAIGenerated: false,
		Confidence:    0,
		Model:         "security-scanner",
		Rationale:     "File failed security scan and was not processed",
	}
	doc := types.DocumentAuthenticityResult{
		FileName:             filename,
		FileSize:             len(content),
		FileType:             scan.MIMEType,
		SuspiciousIndicators: indicators,
		AuthenticityScore:    0,
		Rationale:            "File failed security scan",
	}

	return &types.AnalysisResponse{
		ExtractedText:        preview(text),
		CandidateInfo:        info,
		AIDetection:          &ai,
		DocumentAuthenticity: &doc,
		Aggregated: types.AggregatedReport{
			OverallScore:   0,
			WeightsApplied: riskWeights,
			Slices:         []types.RiskSlice{},
			Evidence: types.ReportEvidence{
				AI:                   &ai,
				DocumentAuthenticity: &doc,
				Security:             scan,
			},
			Rationale:   []string{"File failed security scan and was not processed"},
			GeneratedAt: time.Now().UTC(),
			Version:     reportVersion,
		},
		RequestID: requestID,
	}
}
