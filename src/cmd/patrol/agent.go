package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"patrol-agent/src/ingest"
	"patrol-agent/src/logger"
)

var agentVerbose bool

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Run the analysis agent consuming errors from the broker",
	Long: `Subscribes to patrol.errors.raw, analyzes every event, publishes
results to patrol.analysis.results, and archives them. Runs until
interrupted.`,
	RunE: runAgent,
}

func init() {
	agentCmd.Flags().BoolVarP(&agentVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(agentCmd)
}

func runAgent(cmd *cobra.Command, args []string) error {
	log := &logger.ConsoleLogger{Verbose: agentVerbose}

	eng, err := buildEngine(appConfig, log)
	if err != nil {
		return err
	}

	brk, err := buildBroker(appConfig, log)
	if err != nil {
		return err
	}
	defer brk.Close()

	archive, err := buildStore(appConfig, log)
	if err != nil {
		return err
	}
	defer archive.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	agent := ingest.NewAgent(brk, eng, archive, log)
	if err := agent.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
