package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"pickbot/internal/access"
	"pickbot/internal/api"
	"pickbot/internal/health"
	"pickbot/internal/interfaces"
	"pickbot/internal/llm"
	"pickbot/internal/llm/claude"
	"pickbot/internal/llm/llmobs"
	"pickbot/internal/llm/noop"
	"pickbot/internal/llm/openai"
	"pickbot/internal/logger"
	"pickbot/internal/metrics"
	"pickbot/internal/odds"
	"pickbot/internal/odds/apifootball"
	"pickbot/internal/odds/oddsobs"
	"pickbot/internal/picklog"
	"pickbot/internal/scheduler"
	"pickbot/internal/scheduler/schedulerobs"
	"pickbot/internal/store"
	"pickbot/internal/trace"

	"github.com/joho/godotenv"
)

// initializeSystem initializes logger and tracer
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	// Initialize logger
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize tracer
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config.yaml"
}

// loadConfig loads and returns the configuration
func loadConfig(ctx context.Context) (*store.Config, error) {
	cfg, err := store.LoadConfig(configPath())
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// initializeSelector builds the odds selector over the API-Football client with observability
func initializeSelector(ctx context.Context, cfg *store.Config) (interfaces.OddsSelector, error) {
	low, high, err := cfg.OddsRange()
	if err != nil {
		return nil, err
	}
	rng, err := odds.NewRange(low, high)
	if err != nil {
		return nil, err
	}

	var opts []api.ClientOption
	if cfg.Odds.PerMinute > 0 {
		opts = append(opts, api.WithRateLimiter(api.PerMinute(cfg.Odds.PerMinute)))
	}
	client := apifootball.New(cfg.Odds.APIKey, cfg.Odds.BaseURL, time.Duration(cfg.Odds.TimeoutSec)*time.Second, opts...)

	logger.Info(ctx, "Odds selector configured",
		"base_url", cfg.Odds.BaseURL,
		"bookmaker_id", cfg.Odds.BookmakerID,
		"range", rng.String(),
		"requests_per_minute", cfg.Odds.PerMinute,
	)

	// Wrap with observability middleware
	return odds.NewSelector(oddsobs.Wrap(client), cfg.Odds.BookmakerID, rng), nil
}

// initializeCommentary picks the completion provider
func initializeCommentary(ctx context.Context, cfg *store.Config, loc *time.Location) interfaces.CommentaryGenerator {
	var completer interfaces.Completer

	switch cfg.LLM.Provider {
	case store.ProviderOpenAI:
		completer = openai.NewClient(cfg)
	case store.ProviderClaude:
		completer = claude.NewClient(cfg)
	default:
		logger.Warn(ctx, "No LLM provider configured - publishing fixed commentary")
		return noop.NewNoopGenerator()
	}

	logger.Info(ctx, "LLM provider configured", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)

	// Wrap with observability middleware
	return llm.NewGenerator(llmobs.Wrap(completer, cfg.LLM.Provider, cfg.LLM.Model), cfg.LLM.Provider, loc)
}

// initializeAccessStore returns the allow-list store and its close func
func initializeAccessStore(ctx context.Context, cfg *store.Config) (interfaces.AccessStore, func(), error) {
	if cfg.Access.Store != store.AccessStoreRedis {
		logger.Info(ctx, "Using in-memory access store - grants reset on restart")
		return access.NewMemoryStore(), func() {}, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	client, err := access.Connect(pingCtx, cfg.Access.RedisAddr, cfg.Access.RedisPassword)
	if err != nil {
		return nil, nil, err
	}

	logger.Info(ctx, "Using Redis access store", "addr", cfg.Access.RedisAddr, "key", cfg.Access.RedisKey)
	return access.NewRedisStore(client, cfg.Access.RedisKey), func() { client.Close() }, nil
}

// initializeScheduler initializes and returns the daily pipeline with observability
func initializeScheduler(ctx context.Context, cfg *store.Config, loc *time.Location, sel interfaces.OddsSelector, gen interfaces.CommentaryGenerator, pub interfaces.Publisher) interfaces.Scheduler {
	var opts []scheduler.Option
	if cfg.Journal.Dir != "" {
		j := picklog.New(cfg.Journal.Dir, loc)
		if err := j.CompressOlder(cfg.Journal.RetentionDays); err != nil {
			logger.Warn(ctx, "Journal compression failed", "dir", cfg.Journal.Dir, "error", err)
		}
		opts = append(opts, scheduler.WithJournal(j))
		logger.Info(ctx, "Pick journal enabled", "dir", cfg.Journal.Dir)
	}

	// Create base scheduler
	s := scheduler.New(cfg.Telegram.ChannelID, loc, sel, gen, pub, opts...)

	// Wrap with observability middleware
	return schedulerobs.Wrap(s)
}

// initializeHealth starts the ops server unless disabled
func initializeHealth(ctx context.Context, cfg *store.Config, ticker *scheduler.CronTicker) *health.Server {
	if cfg.HealthAddr == "" {
		logger.Info(ctx, "Ops server disabled")
		return nil
	}
	router := health.NewRouter(health.NewHandler(ticker.Next), metrics.GetRegistry())
	srv := health.NewServer(cfg.HealthAddr, router)
	srv.Start(ctx)
	return srv
}
