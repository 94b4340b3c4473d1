package store

import (
	"context"
	"errors"
	"testing"

	"patrol-agent/src/contracts"
)

func analysis(fp string, analyzedAt int64) *contracts.AnalysisResult {
	return &contracts.AnalysisResult{
		Fingerprint:     fp,
		EventID:         "evt-" + fp,
		RootCause:       "cause",
		SuggestedFix:    "fix",
		ConfidenceScore: 80,
		AnalyzedAt:      analyzedAt,
	}
}

func TestMemoryStoreSaveAndGet(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	if err := s.SaveAnalysis(ctx, analysis("fp-1", 100)); err != nil {
		t.Fatalf("SaveAnalysis failed: %v", err)
	}

	got, err := s.GetAnalysis(ctx, "fp-1")
	if err != nil {
		t.Fatalf("GetAnalysis failed: %v", err)
	}
	if got.EventID != "evt-fp-1" || got.ConfidenceScore != 80 {
		t.Errorf("unexpected analysis %+v", got)
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	_, err := s.GetAnalysis(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreUpsert(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	s.SaveAnalysis(ctx, analysis("fp-1", 100))
	updated := analysis("fp-1", 200)
	updated.RootCause = "revised cause"
	s.SaveAnalysis(ctx, updated)

	got, err := s.GetAnalysis(ctx, "fp-1")
	if err != nil {
		t.Fatalf("GetAnalysis failed: %v", err)
	}
	if got.RootCause != "revised cause" || got.AnalyzedAt != 200 {
		t.Errorf("upsert did not replace: %+v", got)
	}
}

func TestMemoryStoreListRecent(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	s.SaveAnalysis(ctx, analysis("fp-old", 100))
	s.SaveAnalysis(ctx, analysis("fp-mid", 200))
	s.SaveAnalysis(ctx, analysis("fp-new", 300))

	results, err := s.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Fingerprint != "fp-new" || results[1].Fingerprint != "fp-mid" {
		t.Errorf("expected newest first, got %+v", results)
	}
}

func TestMemoryStoreCopiesOut(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	s.SaveAnalysis(ctx, analysis("fp-1", 100))
	got, _ := s.GetAnalysis(ctx, "fp-1")
	got.RootCause = "mutated by caller"

	again, _ := s.GetAnalysis(ctx, "fp-1")
	if again.RootCause != "cause" {
		t.Errorf("store leaked a shared reference: %+v", again)
	}
}
