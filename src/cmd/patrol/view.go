package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"patrol-agent/src/logger"
	"patrol-agent/src/tui"
)

var viewLimit int

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Browse archived analyses in a TUI",
	Long: `Opens a terminal browser over the analysis archive. Requires
POSTGRES_DSN; the in-memory archive does not outlive the agent process
that filled it.`,
	RunE: runView,
}

func init() {
	viewCmd.Flags().IntVarP(&viewLimit, "limit", "n", 100, "maximum analyses to load")
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	// Silent logger: the TUI owns the terminal.
	archive, err := buildStore(appConfig, logger.NewSilentLogger())
	if err != nil {
		return err
	}
	defer archive.Close()

	analyses, err := archive.ListRecent(cmd.Context(), viewLimit)
	if err != nil {
		return fmt.Errorf("failed to load analyses: %w", err)
	}

	return tui.Run(analyses)
}
