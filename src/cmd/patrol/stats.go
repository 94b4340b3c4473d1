package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the effective configuration",
	Long: `Prints the configuration patrol would run with, resolved from the
environment: cache sizing, eviction policy, TTL, context limits, and
which broker and archive backends are selected.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg := appConfig

	brokerBackend := "in-memory"
	if len(cfg.RedpandaBrokers) > 0 {
		brokerBackend = fmt.Sprintf("redpanda (%v)", cfg.RedpandaBrokers)
	}
	archiveBackend := "in-memory"
	if cfg.PostgresDSN != "" {
		archiveBackend = "postgres"
	}

	out := map[string]interface{}{
		"cache": map[string]interface{}{
			"max_size":        cfg.CacheMaxSize,
			"eviction_policy": cfg.CacheEvictionPolicy.String(),
			"ttl_seconds":     int(cfg.CacheTTL.Seconds()),
		},
		"context": map[string]interface{}{
			"default_repository_url": cfg.DefaultRepositoryURL,
			"service_repositories":   cfg.ServiceRepositories,
			"context_lines":          cfg.ContextLines,
			"max_locations":          cfg.MaxLocations,
			"max_context_chars":      cfg.MaxContextChars,
		},
		"backends": map[string]interface{}{
			"broker":  brokerBackend,
			"archive": archiveBackend,
		},
		"credentials": map[string]interface{}{
			"github_token":      cfg.GitHubToken != "",
			"anthropic_api_key": cfg.AnthropicAPIKey != "",
		},
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
