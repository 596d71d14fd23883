package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain json untouched",
			input:    `{"ai_likelihood": 0.4}`,
			expected: `{"ai_likelihood": 0.4}`,
		},
		{
			name:     "json fence",
			input:    "```json\n{\"ai_likelihood\": 0.4}\n```",
			expected: `{"ai_likelihood": 0.4}`,
		},
		{
			name:     "generic fence",
			input:    "```\n{\"ai_likelihood\": 0.4}\n```",
			expected: `{"ai_likelihood": 0.4}`,
		},
		{
			name:     "fence with language identifier",
			input:    "```javascript\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "fence opening directly into payload",
			input:    "```{\"key\": \"value\"}```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "surrounding whitespace",
			input:    "  \n{\"key\": 1}\n  ",
			expected: `{"key": 1}`,
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestConfigGetModelFallback(t *testing.T) {
	cfg := &Config{
		Provider: ProviderGemini,
		Models:   map[ModelTier]string{TierLite: "gemini-2.5-flash-lite"},
	}
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.GetModel(TierAdvanced))

	cfg = DefaultConfig()
	assert.Equal(t, "gemini-2.5-pro", cfg.GetModel(TierAdvanced))
	assert.Equal(t, "gemini-2.5-flash", cfg.GetModel(TierStandard))
}

func TestConfigWithModelDoesNotMutate(t *testing.T) {
	base := DefaultConfig()
	derived := base.WithModel(TierAdvanced, "gemini-exp")
	assert.Equal(t, "gemini-exp", derived.GetModel(TierAdvanced))
	assert.Equal(t, "gemini-2.5-pro", base.GetModel(TierAdvanced))
}
