// Package engine is the cache-aside orchestrator: fingerprint an error
// event, serve a cached analysis when one exists, otherwise resolve
// repository context, call the analysis provider, and cache the result.
package engine

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"patrol-agent/src/cache"
	"patrol-agent/src/contracts"
	"patrol-agent/src/fingerprint"
	"patrol-agent/src/logger"
	"patrol-agent/src/provider"
)

// ContextResolver resolves an event into repository context. A nil
// return means no repository could be determined and analysis proceeds
// on the log alone.
type ContextResolver interface {
	Resolve(ctx context.Context, event contracts.ErrorEvent) *contracts.RepositoryContext
}

// Engine processes error events. It owns no goroutines; the cache it is
// handed lives for the process lifetime and is shared across every
// surface (CLI, agent, MCP) built on the same Engine.
type Engine struct {
	cache    *cache.Cache
	resolver ContextResolver
	analyzer provider.AnalysisProvider
	log      logger.Logger

	// group collapses concurrent misses for one fingerprint into a
	// single provider call; the late arrivals share the first result.
	group singleflight.Group

	now func() time.Time
}

// New creates an engine. resolver may be nil, in which case every event
// is analyzed without repository context.
func New(c *cache.Cache, resolver ContextResolver, analyzer provider.AnalysisProvider, log logger.Logger) *Engine {
	if log == nil {
		log = logger.NewSilentLogger()
	}
	return &Engine{
		cache:    c,
		resolver: resolver,
		analyzer: analyzer,
		log:      log,
		now:      time.Now,
	}
}

// Process runs one event through the pipeline and returns its analysis.
// A cache hit returns immediately with no external calls. Errors are
// *Failure values carrying the failure kind.
func (e *Engine) Process(ctx context.Context, event contracts.ErrorEvent) (contracts.AnalysisResult, error) {
	e.transition(event.EventID, StateReceived)

	if err := validateEvent(event); err != nil {
		e.transition(event.EventID, StateFailed)
		return contracts.AnalysisResult{}, err
	}

	fp := fingerprint.Fingerprint(event.Record)
	e.transition(event.EventID, StateFingerprinted)

	if cached, ok := e.cache.Get(fp); ok {
		e.transition(event.EventID, StateCacheHit)
		e.transition(event.EventID, StateDone)
		return cached, nil
	}
	e.transition(event.EventID, StateCacheMiss)

	v, err, shared := e.group.Do(fp, func() (interface{}, error) {
		return e.analyzeMiss(ctx, fp, event)
	})
	if err != nil {
		e.transition(event.EventID, StateFailed)
		return contracts.AnalysisResult{}, err
	}
	if shared {
		e.log.Debug("[Engine] Event %s shared an in-flight analysis for %s", event.EventID, fp)
	}

	e.transition(event.EventID, StateDone)
	return v.(contracts.AnalysisResult), nil
}

// analyzeMiss is the miss path: resolve context, analyze, cache. It runs
// at most once per fingerprint at a time under the singleflight group.
func (e *Engine) analyzeMiss(ctx context.Context, fp string, event contracts.ErrorEvent) (contracts.AnalysisResult, error) {
	// A concurrent miss may have completed while this call waited its
	// turn in the group. Peek keeps the stats at one miss per logical
	// miss; the lookup before group.Do already counted this one.
	if cached, ok := e.cache.Peek(fp); ok {
		return cached, nil
	}

	var repoCtx *contracts.RepositoryContext
	if e.resolver != nil {
		repoCtx = e.resolver.Resolve(ctx, event)
		if repoCtx != nil {
			e.transition(event.EventID, StateContextResolved)
		}
	}

	analysis, err := e.analyzer.Analyze(ctx, event.Record, repoCtx)
	if err != nil {
		return contracts.AnalysisResult{}, &Failure{Kind: FailureAnalysis, Err: err}
	}
	e.transition(event.EventID, StateAnalyzed)

	result := contracts.AnalysisResult{
		Fingerprint:     fp,
		EventID:         event.EventID,
		RootCause:       analysis.RootCause,
		SuggestedFix:    analysis.SuggestedFix,
		ConfidenceScore: analysis.ConfidenceScore,
		AnalyzedAt:      e.now().UnixMilli(),
	}

	e.cache.Put(fp, result)
	e.transition(event.EventID, StateCached)
	return result, nil
}

// CacheStats returns a snapshot of the engine's cache counters.
func (e *Engine) CacheStats() cache.Stats {
	return e.cache.Stats()
}

// validateEvent rejects events whose record carries nothing to analyze.
// A record needs at least a message, a code, or a file path to identify
// the failure.
func validateEvent(event contracts.ErrorEvent) error {
	r := event.Record
	if strings.TrimSpace(r.Message) == "" &&
		strings.TrimSpace(r.Code) == "" &&
		strings.TrimSpace(r.FilePath) == "" {
		return newFailure(FailureInvalidInput, "event %s has no message, code, or file path", event.EventID)
	}
	return nil
}

func (e *Engine) transition(eventID string, s State) {
	e.log.Debug("[Engine] Event %s -> %s", eventID, s)
}
