package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"smart-send/internal/api"
	"smart-send/internal/interfaces"
	"smart-send/internal/journal"
	"smart-send/internal/llm"
	"smart-send/internal/logger"
	"smart-send/internal/market"
	"smart-send/internal/news"
	"smart-send/internal/pipeline"
	"smart-send/internal/pipeline/pipelineobs"
	"smart-send/internal/role"
	"smart-send/internal/stage"
	"smart-send/internal/store"
	"smart-send/internal/trace"
	"smart-send/internal/types"
)

type app struct {
	cfg         *store.Config
	recommender interfaces.Recommender
	journal     *journal.Journal
}

// bootstrap loads env and config, then wires providers, stages and the pipeline.
func bootstrap(ctx context.Context) (*app, error) {
	if err := initializeSystem(); err != nil {
		return nil, err
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	rec, err := initializeRecommender(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, recommender: rec}
	if useJournal || cfg.Journal.Enabled {
		a.journal = journal.New(cfg.Journal.Dir)
		if err := a.journal.CompressOlder(cfg.Journal.RetentionDays); err != nil {
			logger.Warn(ctx, "Failed to compress old journal files", "error", err)
		}
	}
	return a, nil
}

func (a *app) recommend(ctx context.Context, corridor types.Corridor) (*types.Recommendation, error) {
	runID := uuid.NewString()
	rec, err := a.recommender.Recommend(pipelineobs.ContextWithRunID(ctx, runID), corridor)
	if a.journal != nil {
		var entry journal.Entry
		if err != nil {
			entry = journal.FromError(corridor, err)
		} else {
			entry = journal.FromRecommendation(rec)
		}
		entry.RunID = runID
		if jerr := a.journal.Append(entry); jerr != nil {
			logger.Warn(ctx, "Failed to append journal entry", "error", jerr)
		}
	}
	return rec, err
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := trace.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to flush traces: %v\n", err)
	}
}

// initializeSystem loads .env and sets up logging and tracing.
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig(ctx context.Context) (*store.Config, error) {
	cfg, err := store.LoadConfig(configPath)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", configPath)
		return nil, err
	}

	if timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("%w: --timeout %q is not a positive duration", types.ErrInvalidInput, timeout)
		}
		cfg.LLM.Timeout = d
	}
	if retries >= 0 {
		cfg.Pipeline.Retries = retries
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// providerParams resolves credentials from the environment. Keys never live in config.yaml.
func providerParams(cfg *store.Config) llm.ProviderParams {
	var key string
	switch cfg.LLM.Provider {
	case llm.ProviderGroq:
		key = os.Getenv("GROQ_API_KEY")
	case llm.ProviderOpenAI:
		key = os.Getenv("OPENAI_API_KEY")
	case llm.ProviderClaude:
		key = os.Getenv("ANTHROPIC_API_KEY")
	}

	baseURL := cfg.LLM.BaseURL
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		baseURL = v
	}

	return llm.ProviderParams{
		Provider:    cfg.LLM.Provider,
		Model:       cfg.LLM.Model,
		APIKey:      key,
		BaseURL:     baseURL,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	}
}

// initializeCapabilities builds the FX stage's optional tools.
func initializeCapabilities(ctx context.Context, cfg *store.Config) []role.Capability {
	var caps []role.Capability

	if cfg.Capabilities.Rates.Enabled {
		client := newRatesClient(cfg)
		cache, err := market.NewCache(cfg.Capabilities.Rates.CacheDir, cfg.Capabilities.Rates.CacheTTL)
		if err != nil {
			logger.Warn(ctx, "Rate cache unavailable, fetching every time", "error", err)
			cache = nil
		} else if err := cache.CleanupExpired(); err != nil {
			logger.Debug(ctx, "Rate cache cleanup failed", "error", err)
		}
		caps = append(caps, market.NewRateLookup(client, cache))
	}

	if cfg.Capabilities.Headlines.Enabled {
		caps = append(caps, news.NewHeadlines(nil, cfg.Capabilities.Headlines.Max, cfg.Capabilities.LookupTimeout))
	}

	names := make([]string, len(caps))
	for i, c := range caps {
		names[i] = c.Name()
	}
	logger.Info(ctx, "FX trend capabilities", "enabled", names)
	return caps
}

// newRatesClient talks to the rates endpoint, bounded by the capability lookup timeout.
func newRatesClient(cfg *store.Config) *api.Client {
	opts := []api.ClientOption{
		api.WithBaseURL(cfg.Capabilities.Rates.Endpoint),
		api.WithHeader("User-Agent", "smart-send/"+version),
		api.WithLogging(logger.IsDebugEnabled()),
	}
	if cfg.Capabilities.LookupTimeout > 0 {
		opts = append(opts, api.WithTimeout(cfg.Capabilities.LookupTimeout))
	}
	return api.NewClient(opts...)
}

// initializeRecommender wires adapter, stages, pipeline, retries and observability.
func initializeRecommender(ctx context.Context, cfg *store.Config) (interfaces.Recommender, error) {
	provider := llm.NewProvider(providerParams(cfg))
	oracle := llm.NewAdapter(provider,
		llm.WithTimeout(cfg.LLM.Timeout),
		llm.WithThrottle(llm.NewThrottle(cfg.LLM.RequestsPerMinute)),
	)

	fxRole, err := role.FXTrend(initializeCapabilities(ctx, cfg)...)
	if err != nil {
		return nil, err
	}
	sentimentRole, err := role.Sentiment()
	if err != nil {
		return nil, err
	}
	synthRole, err := role.Synthesis()
	if err != nil {
		return nil, err
	}

	fx, err := stage.NewFXTrend(oracle, fxRole, stage.WithLookupTimeout(cfg.Capabilities.LookupTimeout))
	if err != nil {
		return nil, err
	}
	sentiment, err := stage.NewSentiment(oracle, sentimentRole)
	if err != nil {
		return nil, err
	}
	synth, err := stage.NewSynthesis(oracle, synthRole)
	if err != nil {
		return nil, err
	}

	coordinator, err := pipeline.New(fx, sentiment, synth,
		pipeline.WithMode(cfg.Mode()),
		pipeline.WithFanOut(cfg.Pipeline.FanOut),
	)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Pipeline ready",
		"provider", cfg.LLM.Provider,
		"model", cfg.LLM.Model,
		"policy_mode", string(coordinator.Mode()),
		"fan_out", cfg.Pipeline.FanOut,
		"retries", cfg.Pipeline.Retries,
	)

	rec := pipeline.WithRetry(coordinator, pipeline.RetryConfig{
		MaxAttempts: cfg.Pipeline.Retries + 1,
		InitialWait: cfg.Pipeline.RetryWait,
		MaxWait:     5 * cfg.Pipeline.RetryWait,
	})
	return pipelineobs.Wrap(rec), nil
}
