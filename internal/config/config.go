// Package config provides configuration loading and validation for the service.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Settings holds all service configuration. Every external credential is
// optional: a missing key disables the provider that needs it rather than
// failing startup. Load environment files with godotenv at the entry point
// before calling FromEnv.
type Settings struct {
	// Server
	Port int // PORT, default 8080

	// LLM
	GeminiAPIKey string // GEMINI_API_KEY

	// Search (Google Custom Search, used by the digital footprint detector)
	SearchAPIKey string // SEARCH_API_KEY
	SearchCX     string // SEARCH_CX

	// Registry credentials and contact addresses
	GitHubToken         string // GITHUB_TOKEN
	CollegeScorecardKey string // COLLEGE_SCORECARD_KEY
	DataGovKey          string // DATAGOV_API_KEY (fallback for Scorecard)
	SECContactEmail     string // SEC_CONTACT_EMAIL (sent in the SEC User-Agent)
	OpenAlexEmail       string // OPENALEX_CONTACT_EMAIL (polite pool)

	// Infrastructure
	RedisURL    string // REDIS_URL, empty means in-memory cache
	DatabaseURL string // DATABASE_URL, empty disables report persistence
}

// FromEnv builds Settings from the process environment.
func FromEnv() (*Settings, error) {
	s := &Settings{
		Port:                8080,
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		SearchAPIKey:        os.Getenv("SEARCH_API_KEY"),
		SearchCX:            os.Getenv("SEARCH_CX"),
		GitHubToken:         os.Getenv("GITHUB_TOKEN"),
		CollegeScorecardKey: os.Getenv("COLLEGE_SCORECARD_KEY"),
		DataGovKey:          os.Getenv("DATAGOV_API_KEY"),
		SECContactEmail:     os.Getenv("SEC_CONTACT_EMAIL"),
		OpenAlexEmail:       os.Getenv("OPENALEX_CONTACT_EMAIL"),
		RedisURL:            os.Getenv("REDIS_URL"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
	}

	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		s.Port = p
	}

	if s.SECContactEmail == "" {
		s.SECContactEmail = "contact@example.com"
	}

	return s, s.Validate()
}

// Validate checks value ranges. Missing credentials are not errors.
func (s *Settings) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("config error: port %d out of range", s.Port)
	}
	return nil
}

// ScorecardKey returns the College Scorecard credential, falling back to the
// generic data.gov key. Empty means the Scorecard provider is disabled.
func (s *Settings) ScorecardKey() string {
	if s.CollegeScorecardKey != "" {
		return s.CollegeScorecardKey
	}
	return s.DataGovKey
}
