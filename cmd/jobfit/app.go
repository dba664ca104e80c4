package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hexcelerate/jobfit/internal/config"
	"github.com/hexcelerate/jobfit/internal/extraction"
	"github.com/hexcelerate/jobfit/internal/llm"
	"github.com/hexcelerate/jobfit/internal/logger"
	"github.com/hexcelerate/jobfit/internal/notify"
	"github.com/hexcelerate/jobfit/internal/pipeline"
	"github.com/hexcelerate/jobfit/internal/scoring"
	"github.com/hexcelerate/jobfit/internal/session"
	"github.com/hexcelerate/jobfit/internal/sessioncache"
	"github.com/hexcelerate/jobfit/internal/store"
)

// app bundles the wired pipeline components one CLI invocation uses.
type app struct {
	cfg *config.Config
	log *zap.Logger

	store  *store.Store
	client *llm.GeminiClient
	tokens *session.TokenService

	applications *pipeline.ApplicationProcessor
	matching     *pipeline.MatchingProcessor
}

// newApp wires the pipeline from configuration. Optional collaborators
// (Redis, email) are enabled only when configured.
func newApp(ctx context.Context, configPath string, verbose bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(verbose || cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	st, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), cfg.GeminiAPIKey)
	if err != nil {
		st.Close()
		return nil, err
	}

	extractor := extraction.New(extraction.Config{
		BaseURL:      cfg.ExtractionBaseURL,
		ClientID:     cfg.ExtractionClientID,
		ClientSecret: cfg.ExtractionClientSecret,
	}, log)

	var notifier pipeline.Notifier
	if cfg.EmailAPIKey != "" {
		notifier = notify.NewClient("", cfg.EmailAPIKey, cfg.EmailFromAddr)
	}

	var sessions pipeline.SessionCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		sessions = sessioncache.New(redisClient, cfg.SessionTTL)
	}

	var tokens *session.TokenService
	if cfg.SessionSecret != "" {
		tokens = session.NewTokenService(cfg.SessionSecret, cfg.SessionTTL)
	}

	engines := scoring.NewFactory(client, log)

	return &app{
		cfg:          cfg,
		log:          log,
		store:        st,
		client:       client,
		tokens:       tokens,
		applications: pipeline.NewApplicationProcessor(st, extractor, engines, notifier, log),
		matching:     pipeline.NewMatchingProcessor(st, extractor, client, sessions, tokens, log),
	}, nil
}

func (a *app) Close() {
	if a.client != nil {
		_ = a.client.Close()
	}
	if a.store != nil {
		a.store.Close()
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}

// printJSON renders a result to stdout for consumption by calling scripts.
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
