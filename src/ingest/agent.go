package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"patrol-agent/src/broker"
	"patrol-agent/src/contracts"
	"patrol-agent/src/engine"
	"patrol-agent/src/logger"
	"patrol-agent/src/store"
)

// Agent consumes raw error events from the broker, runs each through
// the engine, and publishes the analysis. Failures are isolated per
// message; a poison payload is logged and skipped.
type Agent struct {
	broker  broker.Broker
	engine  *engine.Engine
	archive store.Store
	logger  logger.Logger
}

// NewAgent creates an analysis agent. archive may be nil to disable
// result archiving.
func NewAgent(brk broker.Broker, eng *engine.Engine, archive store.Store, log logger.Logger) *Agent {
	if log == nil {
		log = logger.NewSilentLogger()
	}
	return &Agent{
		broker:  brk,
		engine:  eng,
		archive: archive,
		logger:  log,
	}
}

// Run starts the agent's main loop. It subscribes to patrol.errors.raw
// and blocks until the context is cancelled or the channel closes.
func (a *Agent) Run(ctx context.Context) error {
	a.logger.Info("[AnalysisAgent] Starting...")

	msgChan, err := a.broker.Subscribe(ctx, contracts.TopicErrorsRaw, "patrol-analysis")
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", contracts.TopicErrorsRaw, err)
	}

	a.logger.Info("[AnalysisAgent] Listening for errors on '%s' topic...", contracts.TopicErrorsRaw)

	for {
		select {
		case msg, ok := <-msgChan:
			if !ok {
				a.logger.Info("[AnalysisAgent] Message channel closed, shutting down")
				return nil
			}
			if err := a.processMessage(ctx, msg); err != nil {
				a.logger.Error("[AnalysisAgent] Error processing message at offset %d: %v", msg.Offset, err)
			}

		case <-ctx.Done():
			a.logger.Info("[AnalysisAgent] Context cancelled, shutting down")
			return ctx.Err()
		}
	}
}

// processMessage handles one raw payload: parse, analyze, publish,
// archive. A payload may yield several events (Vector batches); each is
// processed independently.
func (a *Agent) processMessage(ctx context.Context, msg broker.Message) error {
	events, err := ParseEvent(msg.Value)
	if err != nil {
		return fmt.Errorf("failed to parse payload: %w", err)
	}
	if len(events) == 0 {
		a.logger.Debug("[AnalysisAgent] Payload at offset %d carried no events", msg.Offset)
		return nil
	}

	for _, event := range events {
		a.logger.Info("[AnalysisAgent] Processing event %s", event.EventID)

		result, err := a.engine.Process(ctx, event)
		if err != nil {
			a.logger.Error("[AnalysisAgent] Event %s failed: %v", event.EventID, err)
			continue
		}

		if err := a.publishResult(ctx, result); err != nil {
			a.logger.Error("[AnalysisAgent] Failed to publish result for %s: %v", event.EventID, err)
		}
		if a.archive != nil {
			if err := a.archive.SaveAnalysis(ctx, &result); err != nil {
				a.logger.Error("[AnalysisAgent] Failed to archive result for %s: %v", event.EventID, err)
			}
		}
	}
	return nil
}

// publishResult emits the analysis on patrol.analysis.results, keyed by
// fingerprint so repeated occurrences land on one partition.
func (a *Agent) publishResult(ctx context.Context, result contracts.AnalysisResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	return a.broker.Publish(ctx, contracts.TopicAnalysisResults, result.Fingerprint, data)
}
