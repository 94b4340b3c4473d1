// Package contracts defines the message types shared between the ingestion
// surfaces, the analysis engine, and the result sinks.
package contracts

// ErrorRecord is a normalized error-log record extracted from a telemetry
// payload or a direct invocation. Immutable once constructed.
type ErrorRecord struct {
	// Human-readable error message (required).
	Message string `json:"message"`
	// Symbolic error code or exception type (e.g. "TypeError", "ERR_TIMEOUT").
	Code string `json:"code,omitempty"`
	// Source file the error was reported from, repo-relative when possible.
	FilePath string `json:"file_path,omitempty"`
	// 1-based line number within FilePath. Zero means unknown.
	LineNumber int `json:"line_number,omitempty"`
	// Raw stack trace text, format depends on the originating runtime.
	StackTrace string `json:"stack_trace,omitempty"`
	// Free-form attributes carried with the log (service.name, git hints, ...).
	Context map[string]string `json:"context,omitempty"`
	// Milliseconds since epoch when the error was logged.
	Timestamp int64 `json:"timestamp,omitempty"`
}

// ErrorEvent is an ErrorRecord plus the envelope it arrived in.
type ErrorEvent struct {
	// Unique identifier, typically "{traceId}-{spanId}" for telemetry input.
	EventID string `json:"event_id"`
	// Milliseconds since epoch when the event was emitted.
	Timestamp int64 `json:"timestamp"`
	// The error itself.
	Record ErrorRecord `json:"error_log"`
	// Explicit repository override carried on the event, if any.
	RepositoryURL string `json:"repository_url,omitempty"`
}

// CodeLocation identifies a place in a repository to pull source context from.
type CodeLocation struct {
	FilePath   string `json:"file_path"`
	LineNumber int    `json:"line_number,omitempty"`
}

// RepositoryContext is the resolved repository plus the assembled source
// snippets for one error. Snippets may be empty when every fetch failed;
// analysis proceeds with reduced information.
type RepositoryContext struct {
	RepositoryURL string `json:"repository_url"`
	// Commit SHA or revision marker; empty means the repository default branch.
	Ref string `json:"ref,omitempty"`
	// Concatenated, size-capped source snippets with file/line headers.
	Snippets string `json:"snippets,omitempty"`
}

// AnalysisResult is the cached output of one root-cause analysis.
// Immutable once produced.
type AnalysisResult struct {
	// Fingerprint of the error this analysis belongs to.
	Fingerprint string `json:"fingerprint"`
	// Event that triggered the analysis.
	EventID string `json:"event_id"`
	// Brief explanation of the root cause.
	RootCause string `json:"root_cause"`
	// Concrete steps to fix the issue.
	SuggestedFix string `json:"suggested_fix"`
	// Model confidence, 0-100.
	ConfidenceScore int `json:"confidence_score"`
	// Milliseconds since epoch when the analysis was produced.
	AnalyzedAt int64 `json:"analyzed_at"`
}
