// Package main provides the patrol CLI. It orchestrates the analysis
// engine behind every surface: one-shot analysis, the broker agent, the
// MCP server, and the TUI browser.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"patrol-agent/src/config"
)

// appConfig is loaded once before any subcommand runs.
var appConfig *config.Config

var rootCmd = &cobra.Command{
	Use:   "patrol",
	Short: "Patrol - error-log root-cause analysis with dedup caching",
	Long: `Patrol analyzes production error logs with an LLM, deduplicating
repeated occurrences of the same underlying error through content
fingerprinting and a bounded in-memory cache.

Events arrive as direct JSON payloads, OTEL log records, or Vector
batches. On a cache miss, patrol resolves source context from the
originating repository and asks the analysis provider for a root cause
and a suggested fix; repeated occurrences are served from cache.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var err error
		appConfig, err = config.LoadFromEnv()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
			os.Exit(1)
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
