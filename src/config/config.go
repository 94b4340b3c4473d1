// Package config provides configuration management for the patrol agent.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"patrol-agent/src/cache"
)

// Defaults applied when the corresponding variable is unset.
const (
	DefaultCacheMaxSize    = 1000
	DefaultCacheTTLSeconds = 86400
	DefaultContextLines    = 20
	DefaultMaxLocations    = 4
	DefaultMaxContextChars = 12000
)

// Config holds the application configuration.
type Config struct {
	// CacheMaxSize bounds the analysis cache. Zero disables retention.
	CacheMaxSize int
	// CacheEvictionPolicy is LRU or FIFO.
	CacheEvictionPolicy cache.Policy
	// CacheTTL is how long a cached analysis stays valid.
	CacheTTL time.Duration

	// DefaultRepositoryURL is the fallback repository for events that
	// carry no repository of their own.
	DefaultRepositoryURL string
	// ServiceRepositories maps service.name values to repository URLs.
	// Configured as a JSON object.
	ServiceRepositories map[string]string
	// ContextLines is the source window either side of a target line.
	ContextLines int
	// MaxLocations caps code locations fetched per event.
	MaxLocations int
	// MaxContextChars caps the assembled snippet blob.
	MaxContextChars int

	// GitHubToken authenticates code fetches. Optional for public repos.
	GitHubToken string
	// AnthropicAPIKey authenticates the analysis provider.
	AnthropicAPIKey string
	// AnthropicModel overrides the default model when set.
	AnthropicModel string

	// RedpandaBrokers is a comma-separated seed broker list. Empty
	// selects the in-memory broker.
	RedpandaBrokers []string
	// PostgresDSN selects the Postgres archive. Empty selects the
	// in-memory archive.
	PostgresDSN string
}

// LoadFromEnv loads configuration from environment variables. Only
// malformed values error; absent optional values fall back to defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		CacheMaxSize:         DefaultCacheMaxSize,
		CacheTTL:             DefaultCacheTTLSeconds * time.Second,
		DefaultRepositoryURL: os.Getenv("DEFAULT_REPOSITORY_URL"),
		ContextLines:         DefaultContextLines,
		MaxLocations:         DefaultMaxLocations,
		MaxContextChars:      DefaultMaxContextChars,
		GitHubToken:          os.Getenv("GITHUB_TOKEN"),
		AnthropicAPIKey:      os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:       os.Getenv("ANTHROPIC_MODEL"),
		PostgresDSN:          os.Getenv("POSTGRES_DSN"),
	}

	var err error
	if cfg.CacheMaxSize, err = intEnv("CACHE_MAX_SIZE", DefaultCacheMaxSize); err != nil {
		return nil, err
	}
	if cfg.CacheMaxSize < 0 {
		return nil, fmt.Errorf("CACHE_MAX_SIZE must be >= 0, got %d", cfg.CacheMaxSize)
	}

	policy, err := cache.ParsePolicy(os.Getenv("CACHE_EVICTION_POLICY"))
	if err != nil {
		return nil, fmt.Errorf("CACHE_EVICTION_POLICY: %w", err)
	}
	cfg.CacheEvictionPolicy = policy

	ttlSeconds, err := intEnv("CACHE_TTL_SECONDS", DefaultCacheTTLSeconds)
	if err != nil {
		return nil, err
	}
	if ttlSeconds < 0 {
		return nil, fmt.Errorf("CACHE_TTL_SECONDS must be >= 0, got %d", ttlSeconds)
	}
	cfg.CacheTTL = time.Duration(ttlSeconds) * time.Second

	if raw := os.Getenv("SERVICE_REPOSITORIES"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &cfg.ServiceRepositories); err != nil {
			return nil, fmt.Errorf("SERVICE_REPOSITORIES must be a JSON object: %w", err)
		}
	}

	if cfg.ContextLines, err = intEnv("CODE_CONTEXT_LINES", DefaultContextLines); err != nil {
		return nil, err
	}
	if cfg.MaxLocations, err = intEnv("MAX_CODE_LOCATIONS", DefaultMaxLocations); err != nil {
		return nil, err
	}
	if cfg.MaxContextChars, err = intEnv("MAX_CONTEXT_CHARS", DefaultMaxContextChars); err != nil {
		return nil, err
	}
	if cfg.ContextLines < 0 || cfg.MaxLocations < 0 || cfg.MaxContextChars < 0 {
		return nil, fmt.Errorf("context resolution limits must be >= 0")
	}

	if raw := os.Getenv("REDPANDA_BROKERS"); raw != "" {
		for _, addr := range strings.Split(raw, ",") {
			if addr = strings.TrimSpace(addr); addr != "" {
				cfg.RedpandaBrokers = append(cfg.RedpandaBrokers, addr)
			}
		}
	}

	return cfg, nil
}

// MustLoadFromEnv loads configuration and panics on error. For use in
// main() where configuration errors should be fatal.
func MustLoadFromEnv() *Config {
	cfg, err := LoadFromEnv()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

func intEnv(name string, fallback int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, raw)
	}
	return v, nil
}
