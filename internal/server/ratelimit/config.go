package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointRule is the rate limit for a path pattern. A trailing "/" in Path
// means prefix matching.
type EndpointRule struct {
	Path   string
	Method string
	Limit  int // requests per Window
	Window time.Duration
	Burst  int // bucket capacity, defaults to Limit
}

// Config holds limiter configuration.
type Config struct {
	Enabled       bool
	DefaultLimit  int
	DefaultWindow time.Duration
	SweepInterval time.Duration
	Whitelist     map[string]bool
	Blacklist     map[string]bool
	EndpointRules []EndpointRule
}

// LoadConfig builds limiter configuration from environment variables.
func LoadConfig() *Config {
	enabled := getEnvBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:       true,
		DefaultLimit:  getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 300),
		DefaultWindow: getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		SweepInterval: getEnvDuration("RATE_LIMIT_SWEEP_INTERVAL", 5*time.Minute),
		Whitelist:     parseIPList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:     parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointRules: DefaultEndpointRules(),
	}
}

// DefaultEndpointRules tiers the API by cost. Full analysis fans out to the
// model and every registry, so it gets the tightest budget; single-detector
// endpoints sit in the middle; reads fall through to the default limit.
func DefaultEndpointRules() []EndpointRule {
	return []EndpointRule{
		{Path: "/analyze", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},
		{Path: "/background-verify", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},

		{Path: "/ai-detect", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/document-authenticity", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/contact-verify", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/digital-footprint", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},

		{Path: "/cache/clear", Method: "POST", Limit: 10, Window: time.Minute, Burst: 2},
	}
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
