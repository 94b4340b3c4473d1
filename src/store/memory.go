package store

import (
	"context"
	"sort"
	"sync"

	"patrol-agent/src/contracts"
)

// MemoryStore is an in-memory archive. Values are copied in and out so
// callers never share memory with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	analyses map[string]contracts.AnalysisResult
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{analyses: make(map[string]contracts.AnalysisResult)}
}

func (s *MemoryStore) SaveAnalysis(_ context.Context, result *contracts.AnalysisResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyses[result.Fingerprint] = *result
	return nil
}

func (s *MemoryStore) GetAnalysis(_ context.Context, fingerprint string) (*contracts.AnalysisResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.analyses[fingerprint]
	if !ok {
		return nil, ErrNotFound
	}
	return &result, nil
}

func (s *MemoryStore) ListRecent(_ context.Context, limit int) ([]contracts.AnalysisResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]contracts.AnalysisResult, 0, len(s.analyses))
	for _, r := range s.analyses {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].AnalyzedAt > results[j].AnalyzedAt
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
