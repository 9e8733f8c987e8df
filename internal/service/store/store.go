// Package store persists creator analyses and serves them back as cache entries.
package store

import (
	"context"

	"github.com/kapu/zenith-go/internal/domain"
)

// Store is the cache store contract used by the orchestrator.
type Store interface {
	// GetCreator returns nil, nil when the handle has never been saved.
	GetCreator(ctx context.Context, handle string) (*domain.CreatorRecord, error)
	// SaveAnalysis upserts the creator and whichever sub-records are present in result
	// and appends one insight history entry. It returns the creator id.
	SaveAnalysis(ctx context.Context, handle string, result *domain.AnalysisResult) (int64, error)
}
