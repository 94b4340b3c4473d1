package main

import (
	"fmt"

	"patrol-agent/src/broker"
	"patrol-agent/src/cache"
	"patrol-agent/src/codecontext"
	"patrol-agent/src/config"
	"patrol-agent/src/engine"
	"patrol-agent/src/logger"
	"patrol-agent/src/provider"
	"patrol-agent/src/store"
)

// buildEngine assembles the full pipeline from configuration: cache,
// GitHub code provider, context resolver, Anthropic analyzer.
func buildEngine(cfg *config.Config, log logger.Logger) (*engine.Engine, error) {
	analysisCache := cache.New(cfg.CacheMaxSize, cfg.CacheTTL,
		cache.WithPolicy(cfg.CacheEvictionPolicy))

	analyzer, err := provider.NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	if err != nil {
		analysisCache.Close()
		return nil, fmt.Errorf("failed to create analysis provider: %w", err)
	}

	code := provider.NewGitHubCodeProvider(cfg.GitHubToken)
	resolver := codecontext.NewResolver(code, codecontext.Config{
		DefaultRepositoryURL: cfg.DefaultRepositoryURL,
		ServiceRepositories:  cfg.ServiceRepositories,
		ContextLines:         cfg.ContextLines,
		MaxLocations:         cfg.MaxLocations,
		MaxContextChars:      cfg.MaxContextChars,
	}, log)

	return engine.New(analysisCache, resolver, analyzer, log), nil
}

// buildBroker selects Redpanda when seed brokers are configured and
// the in-memory broker otherwise.
func buildBroker(cfg *config.Config, log logger.Logger) (broker.Broker, error) {
	if len(cfg.RedpandaBrokers) > 0 {
		log.Info("[Patrol] Using Redpanda brokers: %v", cfg.RedpandaBrokers)
		return broker.NewRedpandaBroker(cfg.RedpandaBrokers, log)
	}
	log.Info("[Patrol] REDPANDA_BROKERS not set, using in-memory broker")
	return broker.NewInMemoryBroker(), nil
}

// buildStore selects Postgres when a DSN is configured and the
// in-memory archive otherwise.
func buildStore(cfg *config.Config, log logger.Logger) (store.Store, error) {
	if cfg.PostgresDSN != "" {
		log.Info("[Patrol] Using Postgres archive")
		return store.NewPostgresStore(cfg.PostgresDSN)
	}
	log.Info("[Patrol] POSTGRES_DSN not set, using in-memory archive")
	return store.NewMemoryStore(), nil
}
