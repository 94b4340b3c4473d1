package engine

import (
	"context"

	"patrol-agent/src/contracts"
)

// Outcome is one positional slot in a batch result: either a result or
// an error, never both.
type Outcome struct {
	Result contracts.AnalysisResult
	Err    error
}

// ProcessBatch runs every event through Process independently and
// returns one Outcome per input, in input order. A failing event never
// aborts its siblings. An empty batch yields an empty slice.
func (e *Engine) ProcessBatch(ctx context.Context, events []contracts.ErrorEvent) []Outcome {
	outcomes := make([]Outcome, len(events))
	for i, event := range events {
		result, err := e.Process(ctx, event)
		if err != nil {
			e.log.Error("[Engine] Event %s failed: %v", event.EventID, err)
			outcomes[i] = Outcome{Err: err}
			continue
		}
		outcomes[i] = Outcome{Result: result}
	}
	return outcomes
}
