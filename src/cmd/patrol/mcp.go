package main

import (
	"github.com/spf13/cobra"

	"patrol-agent/src/logger"
	"patrol-agent/src/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the analysis engine over MCP on stdio",
	Long: `Starts a Model Context Protocol server exposing analyze_error,
get_analysis, and cache_stats tools. Logging is suppressed so stdio
stays clean for the protocol.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	// Silent logger: stdout belongs to the protocol.
	log := logger.NewSilentLogger()

	eng, err := buildEngine(appConfig, log)
	if err != nil {
		return err
	}

	archive, err := buildStore(appConfig, log)
	if err != nil {
		return err
	}
	defer archive.Close()

	return mcp.NewServer(eng, archive).Run()
}
