package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"patrol-agent/src/ingest"
	"patrol-agent/src/logger"
	"patrol-agent/src/provider"
)

var analyzeVerbose bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze error events from a file or stdin",
	Long: `Reads a JSON payload (direct event, OTEL log record, or Vector
batch) from the given file or stdin, runs every event through the
engine, and prints the analyses as JSON.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log := &logger.ConsoleLogger{Verbose: analyzeVerbose}

	data, err := readPayload(args)
	if err != nil {
		return err
	}

	events, err := ingest.ParseEvent(data)
	if err != nil {
		return fmt.Errorf("failed to parse payload: %w", err)
	}
	if len(events) == 0 {
		return fmt.Errorf("payload carried no events")
	}

	eng, err := buildEngine(appConfig, log)
	if err != nil {
		return err
	}

	outcomes := eng.ProcessBatch(cmd.Context(), events)

	type lineResult struct {
		EventID string      `json:"event_id"`
		Error   string      `json:"error,omitempty"`
		Result  interface{} `json:"result,omitempty"`
	}

	failed := 0
	output := make([]lineResult, len(outcomes))
	for i, outcome := range outcomes {
		line := lineResult{EventID: events[i].EventID}
		if outcome.Err != nil {
			line.Error = provider.WrapError(outcome.Err).Error()
			failed++
		} else {
			line.Result = outcome.Result
		}
		output[i] = line
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(output); err != nil {
		return err
	}

	if failed == len(outcomes) {
		return fmt.Errorf("all %d events failed", failed)
	}
	return nil
}

func readPayload(args []string) ([]byte, error) {
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		return data, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return data, nil
}
