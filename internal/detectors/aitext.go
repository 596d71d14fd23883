// Package detectors implements the independent verification signals behind
// resume analysis: AI-authorship detection, document metadata forensics,
// contact validation, digital footprint search and file security scanning.
// Each detector degrades to a defined neutral result when its external
// dependency is unavailable.
package detectors

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/daniel/resume-sentinel/internal/llm"
	"github.com/daniel/resume-sentinel/internal/types"
)

// maxDetectionTextLength caps the text sent for authorship analysis.
const maxDetectionTextLength = 6000

// aiFlagThreshold is the likelihood above which text is flagged as
// AI-generated.
const aiFlagThreshold = 0.6

// AITextDetector estimates whether resume text was machine-written.
type AITextDetector struct {
	llm llm.Client
	log zerolog.Logger
}

// NewAITextDetector creates the detector over an LLM client.
func NewAITextDetector(client llm.Client, log zerolog.Logger) *AITextDetector {
	return &AITextDetector{
		llm: client,
		log: log.With().Str("detector", "ai_text").Logger(),
	}
}

type aiVerdict struct {
	AILikelihood float64 `json:"ai_likelihood"`
	Rationale    string  `json:"rationale"`
}

// Detect analyzes text and returns the authorship verdict. Any failure
// yields the neutral 50-confidence unflagged result rather than an error.
func (d *AITextDetector) Detect(ctx context.Context, text string) types.AIDetectionResult {
	if len(text) > maxDetectionTextLength {
		d.log.Warn().Int("length", len(text)).Msg("text truncated for detection")
		text = text[:maxDetectionTextLength]
	}

	model := d.llm.GetModel(llm.TierStandard)
	raw, err := d.llm.GenerateJSON(ctx, detectionPrompt(text), llm.TierStandard)
	if err != nil {
		d.log.Error().Err(err).Msg("ai detection call failed")
		return fallbackAIResult(model)
	}

	var verdict aiVerdict
	if err := json.Unmarshal([]byte(raw), &verdict); err != nil {
		d.log.Warn().Err(err).Msg("unparseable ai detection response")
		return fallbackAIResult(model)
	}

	likelihood := verdict.AILikelihood
	if likelihood < 0 {
		likelihood = 0
	} else if likelihood > 1 {
		likelihood = 1
	}

	result := types.AIDetectionResult{
		IsAIGenerated: likelihood >= aiFlagThreshold,
		Confidence:    int(likelihood * 100),
		Model:         model,
		Rationale:     verdict.Rationale,
	}
	d.log.Info().Bool("flagged", result.IsAIGenerated).Int("confidence", result.Confidence).Msg("ai detection completed")
	return result
}

func fallbackAIResult(model string) types.AIDetectionResult {
	return types.AIDetectionResult{
		IsAIGenerated: false,
		Confidence:    50,
		Model:         model,
		Rationale:     "Analysis failed - unable to determine AI content",
	}
}

func detectionPrompt(text string) string {
	return fmt.Sprintf(`You are a writing forensics assistant. Analyze the following resume content and determine if it was likely AI-generated.

Consider these factors:
- Repetitiveness and generic phrasing
- Overuse of power verbs and buzzwords
- Unnatural consistency in tone
- Lack of concrete, specific details
- Overly perfect formatting or structure
- Generic job descriptions without specific achievements
- Unusual patterns in language or structure

Resume content:
%s

Respond with ONLY a JSON object in this exact format:
{
  "ai_likelihood": 0.75,
  "rationale": "Brief explanation of your analysis"
}

Where ai_likelihood is a number between 0 and 1 (0 = definitely human-written, 1 = definitely AI-generated).`, text)
}
