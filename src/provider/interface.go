// Package provider defines the external capabilities the analysis engine
// consumes: source-code fetching and LLM-backed root-cause analysis.
// Concrete implementations (GitHub, Anthropic) live alongside the
// interfaces; tests and local mode substitute fakes.
package provider

import (
	"context"

	"patrol-agent/src/contracts"
)

// CodeProvider fetches source context from a code host.
type CodeProvider interface {
	// FetchCode returns a window of contextLines source lines around line
	// in filePath at ref (empty ref = repository default branch). The
	// returned snippet carries line-number prefixes. Fails fast; retries,
	// if any, are the caller's concern.
	FetchCode(ctx context.Context, repoURL, ref, filePath string, line, contextLines int) (string, error)
}

// Analysis is the raw output of one analysis call, before the engine wraps
// it into a cached AnalysisResult.
type Analysis struct {
	RootCause       string `json:"rootCause"`
	SuggestedFix    string `json:"suggestedFix"`
	ConfidenceScore int    `json:"confidenceScore"`
}

// AnalysisProvider produces a root-cause analysis for an error record,
// optionally informed by repository context. Implementations fail fast;
// the engine propagates the failure for that event only.
type AnalysisProvider interface {
	Analyze(ctx context.Context, record contracts.ErrorRecord, repoCtx *contracts.RepositoryContext) (*Analysis, error)
}
