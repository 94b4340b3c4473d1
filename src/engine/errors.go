package engine

import (
	"errors"
	"fmt"
)

// FailureKind classifies why an event could not be processed.
type FailureKind int

const (
	// FailureInvalidInput marks an event with no usable error record.
	FailureInvalidInput FailureKind = iota
	// FailureContextUnavailable marks a context-resolution problem. It is
	// never surfaced from Process; resolution failures degrade the context
	// instead of aborting. The kind exists for callers that inspect logs
	// or build their own resolution flows.
	FailureContextUnavailable
	// FailureAnalysis marks an analysis-capability error. Fatal for the
	// event it belongs to, invisible to its batch siblings.
	FailureAnalysis
	// FailureCacheInvariant marks a broken cache invariant. Unreachable
	// given a correct cache; the cache panics rather than returning it.
	FailureCacheInvariant
)

func (k FailureKind) String() string {
	switch k {
	case FailureInvalidInput:
		return "invalid_input"
	case FailureContextUnavailable:
		return "context_unavailable"
	case FailureAnalysis:
		return "analysis_failure"
	case FailureCacheInvariant:
		return "cache_invariant_violation"
	default:
		return "unknown"
	}
}

// Failure is the structured error returned by Process: a kind plus the
// underlying cause.
type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return f.Kind.String()
	}
	return fmt.Sprintf("%s: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func newFailure(kind FailureKind, format string, args ...interface{}) *Failure {
	return &Failure{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// FailureKindOf returns the kind of err when it is a Failure, and false
// otherwise.
func FailureKindOf(err error) (FailureKind, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind, true
	}
	return 0, false
}
