package analyzer

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel/resume-sentinel/internal/background"
	"github.com/daniel/resume-sentinel/internal/detectors"
	"github.com/daniel/resume-sentinel/internal/extraction"
	"github.com/daniel/resume-sentinel/internal/llm"
	"github.com/daniel/resume-sentinel/internal/types"
)

// routedLLM answers each prompt kind with its own canned response.
type routedLLM struct {
	routes map[string]string
}

func (r *routedLLM) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	return r.GenerateJSON(context.Background(), prompt, llm.TierStandard)
}

func (r *routedLLM) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	for marker, response := range r.routes {
		if strings.Contains(prompt, marker) {
			return response, nil
		}
	}
	return "", errors.New("no canned response for prompt")
}

func (r *routedLLM) GetModel(llm.ModelTier) string { return "gemini-2.5-flash" }

func (r *routedLLM) Close() error { return nil }

func newTestAnalyzer(client llm.Client) *Analyzer {
	log := zerolog.Nop()
	return New(Deps{
		Extractor: extraction.NewExtractor(client, log),
		AI:        detectors.NewAITextDetector(client, log),
		DocAuth:   detectors.NewDocAuthDetector(client, log),
		Contact:   detectors.NewContactVerifier(log, "US"),
		Security:  detectors.NewSecurityScanner(log),
		Verifier:  background.NewVerifier(background.Providers{}, log),
	}, log)
}

func buildResumeDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>` + body + `</w:t></w:r></w:p></w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestAggregateWeightedOverallScore(t *testing.T) {
	ai := &types.AIDetectionResult{IsAIGenerated: false, Confidence: 80}
	doc := &types.DocumentAuthenticityResult{AuthenticityScore: 70}
	contact := &types.ContactVerificationResult{Score: types.ContactScore{Composite: 0.9}}
	bg := &types.BackgroundReport{Score: types.BackgroundScore{Composite: 0.8}}
	footprint := &types.FootprintResult{ConsistencyScore: 60}
	security := &types.SecurityScanResult{IsSafe: true}

	report := aggregate(ai, doc, contact, bg, footprint, security)

	// 80*0.3 + 70*0.1 + 90*0.2 + 80*0.2 + 60*0.1 + 100*0.1 = 81
	assert.Equal(t, 81, report.OverallScore)
	assert.Len(t, report.Slices, 6)
	assert.Equal(t, "1.0.0", report.Version)
	assert.Contains(t, report.Rationale, "AI Content: Low risk (80% confidence)")
	assert.Contains(t, report.Rationale, "Contact Verification: 90% score")
}

func TestAggregateFlaggedAIInvertsSlice(t *testing.T) {
	ai := &types.AIDetectionResult{IsAIGenerated: true, Confidence: 90}
	doc := &types.DocumentAuthenticityResult{AuthenticityScore: 50}
	security := &types.SecurityScanResult{IsSafe: true}

	report := aggregate(ai, doc, nil, nil, nil, security)

	var aiSlice types.RiskSlice
	for _, s := range report.Slices {
		if s.Label == "AI Content" {
			aiSlice = s
		}
	}
	assert.Equal(t, 10, aiSlice.Score)
	assert.Contains(t, aiSlice.Description, "AI Generated")
	assert.Contains(t, report.Rationale, "AI Content: High risk (90% confidence)")
}

func TestAggregateMissingDetectorsAreNeutral(t *testing.T) {
	ai := &types.AIDetectionResult{Confidence: 50}
	doc := &types.DocumentAuthenticityResult{AuthenticityScore: 50}
	security := &types.SecurityScanResult{IsSafe: true}

	report := aggregate(ai, doc, nil, nil, nil, security)

	// 50*0.3 + 50*0.1 + 50*0.2 + 50*0.2 + 50*0.1 + 100*0.1 = 55
	assert.Equal(t, 55, report.OverallScore)
	for _, s := range report.Slices {
		switch s.Label {
		case "Contact Info", "Background", "Digital Footprint":
			assert.Equal(t, 50, s.Score)
			assert.Contains(t, s.Description, "not performed")
		}
	}
}

func TestSecuritySliceWarningsOnly(t *testing.T) {
	s := securitySlice(&types.SecurityScanResult{
		IsSafe:   true,
		Warnings: []types.Threat{{Severity: "medium"}},
	})
	assert.Equal(t, 50, s.Score)
}

func TestSecuritySliceUnsafe(t *testing.T) {
	s := securitySlice(&types.SecurityScanResult{
		IsSafe:  false,
		Threats: []types.Threat{{Severity: "high"}, {Severity: "high"}},
	})
	assert.Equal(t, 0, s.Score)
	assert.Contains(t, s.Description, "2 high-severity threats")
}

func TestAnalyzeFileQuarantinesUnsafeUpload(t *testing.T) {
	a := newTestAnalyzer(&routedLLM{})

	resp := a.AnalyzeFile(context.Background(), []byte("MZ\x90\x00payload"), "resume.exe")

	assert.Equal(t, 0, resp.Aggregated.OverallScore)
	assert.Equal(t, "security-scanner", resp.AIDetection.Model)
	assert.Equal(t, "File failed security scan and was not processed", resp.AIDetection.Rationale)
	assert.Equal(t, 0, resp.DocumentAuthenticity.AuthenticityScore)
	assert.NotEmpty(t, resp.DocumentAuthenticity.SuspiciousIndicators)
	assert.True(t, strings.HasPrefix(resp.RequestID, "req_"))
	assert.Nil(t, resp.BackgroundReport)
	assert.Nil(t, resp.ContactVerification)
}

func TestAnalyzeFileEndToEnd(t *testing.T) {
	client := &routedLLM{routes: map[string]string{
		"contact information": `{"full_name": "Jane Doe", "location": "Mountain View, CA"}`,
		"work experience":     `{"positions": []}`,
		"Extract education":   `{"educations": []}`,
		"writing forensics":   `{"ai_likelihood": 0.2, "rationale": "specific, human detail"}`,
		"document metadata":   `{"suspiciousIndicators": [], "authenticityScore": 85, "rationale": "standard word processor output"}`,
	}}
	a := newTestAnalyzer(client)

	content := buildResumeDocx(t, "Jane Doe, Software Engineer")
	resp := a.AnalyzeFile(context.Background(), content, "resume.docx")

	assert.Equal(t, "Jane Doe", resp.CandidateInfo.FullName)
	require.NotNil(t, resp.AIDetection)
	assert.False(t, resp.AIDetection.IsAIGenerated)
	assert.Equal(t, 20, resp.AIDetection.Confidence)
	require.NotNil(t, resp.DocumentAuthenticity)
	assert.Equal(t, 85, resp.DocumentAuthenticity.AuthenticityScore)

	// No email, no claims, no search service: those slices stay neutral.
	assert.Nil(t, resp.ContactVerification)
	assert.Nil(t, resp.BackgroundReport)
	assert.Nil(t, resp.DigitalFootprint)

	// 20*0.3 + 85*0.1 + 50*0.2 + 50*0.2 + 50*0.1 + 100*0.1 = 49.5
	assert.Equal(t, 49, resp.Aggregated.OverallScore)
	assert.Contains(t, resp.ExtractedText, "Jane Doe")
}

func TestAnalyzeFootprintWithoutServiceReportsDisabled(t *testing.T) {
	a := newTestAnalyzer(&routedLLM{})
	_, ok := a.AnalyzeFootprint(context.Background(), "Jane Doe", "", "")
	assert.False(t, ok)
}
