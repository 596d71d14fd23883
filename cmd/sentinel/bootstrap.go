package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/daniel/resume-sentinel/internal/analyzer"
	"github.com/daniel/resume-sentinel/internal/background"
	"github.com/daniel/resume-sentinel/internal/cache"
	"github.com/daniel/resume-sentinel/internal/config"
	"github.com/daniel/resume-sentinel/internal/db"
	"github.com/daniel/resume-sentinel/internal/detectors"
	"github.com/daniel/resume-sentinel/internal/extraction"
	"github.com/daniel/resume-sentinel/internal/fetch"
	"github.com/daniel/resume-sentinel/internal/llm"
	"github.com/daniel/resume-sentinel/internal/logging"
	"github.com/daniel/resume-sentinel/internal/sources"
)

// runtime bundles everything a command needs after bootstrap.
type runtime struct {
	cfg      *config.Settings
	log      zerolog.Logger
	cache    cache.Cache
	analyzer *analyzer.Analyzer
	store    *db.DB // nil when DATABASE_URL is unset
	llm      llm.Client

	cleanups []func()
}

// close releases resources in reverse acquisition order.
func (rt *runtime) close() {
	for i := len(rt.cleanups) - 1; i >= 0; i-- {
		rt.cleanups[i]()
	}
}

// buildRuntime wires the full detector stack from the environment.
// GEMINI_API_KEY is the only required credential; everything else degrades
// to a disabled provider.
func buildRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	log := logging.New(logging.FromEnv())
	rt := &runtime{cfg: cfg, log: log}

	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedis(cfg.RedisURL, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		rt.cache = redisCache
		rt.cleanups = append(rt.cleanups, func() { _ = redisCache.Close() })
	} else {
		mem := cache.NewMemory()
		rt.cache = mem
		rt.cleanups = append(rt.cleanups, mem.Close)
	}

	llmClient, err := llm.NewClient(ctx, llm.DefaultGeminiConfig(), cfg.GeminiAPIKey)
	if err != nil {
		rt.close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	rt.llm = llmClient
	rt.cleanups = append(rt.cleanups, func() { _ = llmClient.Close() })

	fetchClient := fetch.NewClient(rt.cache, log, nil)
	registrySet := sources.NewSet(fetchClient, log, cfg)
	verifier := background.NewVerifier(background.FromSources(registrySet), log)

	var footprint *detectors.FootprintAnalyzer
	if cfg.SearchAPIKey != "" && cfg.SearchCX != "" {
		search, err := detectors.NewCustomSearch(ctx, cfg.SearchAPIKey, cfg.SearchCX)
		if err != nil {
			rt.close()
			return nil, fmt.Errorf("failed to create search service: %w", err)
		}
		footprint = detectors.NewFootprintAnalyzer(search, log)
	} else {
		log.Info().Msg("search credentials missing, digital footprint analysis disabled")
	}

	rt.analyzer = analyzer.New(analyzer.Deps{
		Extractor: extraction.NewExtractor(llmClient, log),
		AI:        detectors.NewAITextDetector(llmClient, log),
		DocAuth:   detectors.NewDocAuthDetector(llmClient, log),
		Contact:   detectors.NewContactVerifier(log, "US"),
		Footprint: footprint,
		Security:  detectors.NewSecurityScanner(log),
		Verifier:  verifier,
	}, log)

	if cfg.DatabaseURL != "" {
		store, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			rt.close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			rt.close()
			return nil, err
		}
		rt.store = store
		rt.cleanups = append(rt.cleanups, store.Close)
	} else {
		log.Info().Msg("DATABASE_URL unset, report persistence disabled")
	}

	return rt, nil
}
