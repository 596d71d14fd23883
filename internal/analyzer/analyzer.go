// Package analyzer orchestrates the full resume fraud analysis: file
// security gate, claim extraction, concurrent detector fan-out and the
// weighted aggregate report.
package analyzer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/daniel/resume-sentinel/internal/background"
	"github.com/daniel/resume-sentinel/internal/detectors"
	"github.com/daniel/resume-sentinel/internal/docparse"
	"github.com/daniel/resume-sentinel/internal/extraction"
	"github.com/daniel/resume-sentinel/internal/types"
)

// reportVersion is stamped on every aggregated report.
const reportVersion = "1.0.0"

// backgroundTimeout bounds the slowest detector; registry fan-out past this
// budget degrades to the neutral background slice.
const backgroundTimeout = 30 * time.Second

// extractedTextPreviewLimit caps the text echoed back in responses.
const extractedTextPreviewLimit = 1000

// Analyzer runs every detector against one uploaded resume.
type Analyzer struct {
	extractor *extraction.Extractor
	ai        *detectors.AITextDetector
	docauth   *detectors.DocAuthDetector
	contact   *detectors.ContactVerifier
	footprint *detectors.FootprintAnalyzer
	security  *detectors.SecurityScanner
	verifier  *background.Verifier
	log       zerolog.Logger
}

// Deps are the detector dependencies of the analyzer. Footprint may be nil
// when no search credentials are configured; its slice then reports not
// performed.
type Deps struct {
	Extractor *extraction.Extractor
	AI        *detectors.AITextDetector
	DocAuth   *detectors.DocAuthDetector
	Contact   *detectors.ContactVerifier
	Footprint *detectors.FootprintAnalyzer
	Security  *detectors.SecurityScanner
	Verifier  *background.Verifier
}

// New creates the analyzer.
func New(deps Deps, log zerolog.Logger) *Analyzer {
	return &Analyzer{
		extractor: deps.Extractor,
		ai:        deps.AI,
		docauth:   deps.DocAuth,
		contact:   deps.Contact,
		footprint: deps.Footprint,
		security:  deps.Security,
		verifier:  deps.Verifier,
		log:       log.With().Str("component", "analyzer").Logger(),
	}
}

// AnalyzeFile runs the complete pipeline for one uploaded resume. A file
// that fails the security scan is quarantined: no content analysis runs and
// the report scores it zero.
func (a *Analyzer) AnalyzeFile(ctx context.Context, content []byte, filename string) *types.AnalysisResponse {
	requestID := "req_" + uuid.NewString()
	log := a.log.With().Str("request_id", requestID).Str("file", filename).Logger()
	log.Info().Int("size", len(content)).Msg("starting analysis")

	text, err := docparse.ExtractText(content, filename)
	if err != nil {
		log.Warn().Err(err).Msg("text extraction failed")
		text = ""
	}

	scan := a.security.Scan(filename, content)
	if !scan.IsSafe {
		log.Warn().Int("threats", len(scan.Threats)).Msg("file quarantined by security scan")
		info := a.extractor.ExtractCandidate(ctx, text)
		return quarantinedResponse(requestID, filename, content, text, info, &scan)
	}

	info := a.extractor.ExtractCandidate(ctx, text)

	var (
		aiResult        types.AIDetectionResult
		docResult       types.DocumentAuthenticityResult
		contactResult   *types.ContactVerificationResult
		backgroundRep   *types.BackgroundReport
		footprintResult *types.FootprintResult
	)

	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		aiResult = a.ai.Detect(gctx, text)
		return nil
	})
	eg.Go(func() error {
		docResult = a.docauth.Analyze(gctx, content, filename)
		return nil
	})
	eg.Go(func() error {
		if info.Email == "" {
			return nil
		}
		r := a.contact.Verify(gctx, info.Email, info.Phone, info.Location)
		contactResult = &r
		return nil
	})
	eg.Go(func() error {
		backgroundRep = a.verifyBackground(gctx, info, text)
		return nil
	})
	eg.Go(func() error {
		if a.footprint == nil || info.FullName == "" {
			return nil
		}
		r := a.footprint.Analyze(gctx, info.FullName, info.Email, info.Website)
		footprintResult = &r
		return nil
	})
	_ = eg.Wait()

	aggregated := aggregate(&aiResult, &docResult, contactResult, backgroundRep, footprintResult, &scan)
	log.Info().Int("overall", aggregated.OverallScore).Msg("analysis completed")

	return &types.AnalysisResponse{
		ExtractedText:        preview(text),
		CandidateInfo:        info,
		AIDetection:          &aiResult,
		DocumentAuthenticity: &docResult,
		ContactVerification:  contactResult,
		BackgroundReport:     backgroundRep,
		DigitalFootprint:     footprintResult,
		Aggregated:           aggregated,
		RequestID:            requestID,
	}
}

// verifyBackground extracts employment and education claims from the text
// and runs registry verification under the background budget. Any failure
// returns nil, which aggregates as the neutral slice.
func (a *Analyzer) verifyBackground(ctx context.Context, info types.CandidateInfo, text string) *types.BackgroundReport {
	ctx, cancel := context.WithTimeout(ctx, backgroundTimeout)
	defer cancel()

	positions := a.extractor.ExtractPositions(ctx, text)
	educations := a.extractor.ExtractEducations(ctx, text)
	if len(positions) == 0 && len(educations) == 0 && info.GitHub == "" {
		a.log.Debug().Msg("no verifiable claims extracted")
		return nil
	}

	req := extraction.BuildBackgroundRequest(info, positions, educations)
	report, err := a.verifier.Run(ctx, req)
	if err != nil {
		a.log.Warn().Err(err).Msg("background verification failed")
		return nil
	}
	return report
}

// VerifyBackground runs registry verification for an explicit claim set.
func (a *Analyzer) VerifyBackground(ctx context.Context, req types.BackgroundRequest) (*types.BackgroundReport, error) {
	ctx, cancel := context.WithTimeout(ctx, backgroundTimeout)
	defer cancel()
	return a.verifier.Run(ctx, req)
}

// DetectAI runs only the authorship detector.
func (a *Analyzer) DetectAI(ctx context.Context, text string) types.AIDetectionResult {
	return a.ai.Detect(ctx, text)
}

// AnalyzeDocument runs only the document authenticity detector.
func (a *Analyzer) AnalyzeDocument(ctx context.Context, content []byte, filename string) types.DocumentAuthenticityResult {
	return a.docauth.Analyze(ctx, content, filename)
}

// VerifyContact runs only contact verification.
func (a *Analyzer) VerifyContact(ctx context.Context, email, phone, location string) types.ContactVerificationResult {
	return a.contact.Verify(ctx, email, phone, location)
}

// AnalyzeFootprint runs only the digital footprint analysis. Returns false
// when no search service is configured.
func (a *Analyzer) AnalyzeFootprint(ctx context.Context, fullName, email, website string) (types.FootprintResult, bool) {
	if a.footprint == nil {
		return types.FootprintResult{}, false
	}
	return a.footprint.Analyze(ctx, fullName, email, website), true
}

func preview(text string) string {
	if len(text) > extractedTextPreviewLimit {
		return text[:extractedTextPreviewLimit] + "..."
	}
	return text
}
