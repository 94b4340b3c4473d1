// Package store archives analysis results so operators can browse past
// root-cause analyses after the in-process cache has aged them out.
package store

import (
	"context"
	"errors"

	"patrol-agent/src/contracts"
)

// ErrNotFound is returned when no analysis exists for a fingerprint.
var ErrNotFound = errors.New("analysis not found")

// Store is implemented by the in-memory archive (tests, single-process
// runs) and the Postgres archive (deployments).
type Store interface {
	// SaveAnalysis upserts an analysis keyed by fingerprint.
	SaveAnalysis(ctx context.Context, result *contracts.AnalysisResult) error

	// GetAnalysis returns the analysis for a fingerprint, or ErrNotFound.
	GetAnalysis(ctx context.Context, fingerprint string) (*contracts.AnalysisResult, error)

	// ListRecent returns up to limit analyses, newest first.
	ListRecent(ctx context.Context, limit int) ([]contracts.AnalysisResult, error)

	// Close releases the store's resources.
	Close() error
}
