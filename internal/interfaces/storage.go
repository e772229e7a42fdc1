package interfaces

import (
	"context"
	"time"

	"github.com/semkit/rolemark/internal/models"
)

// AnalysisStorage - interface for cached analysis persistence
type AnalysisStorage interface {
	// Store persists an analysis result under its cache key
	Store(ctx context.Context, cached *models.CachedAnalysis) error

	// Get retrieves a cached analysis by key; returns nil when absent
	Get(ctx context.Context, key string) (*models.CachedAnalysis, error)

	// Delete removes a cached analysis by key
	Delete(ctx context.Context, key string) error

	// DeleteOlderThan removes entries created before the cutoff.
	// Returns the number of entries removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)

	// Count returns the number of cached analyses
	Count(ctx context.Context) (int, error)

	// ClearAll removes all cached analyses
	ClearAll(ctx context.Context) error
}

// StorageManager - composite interface for all storage operations
type StorageManager interface {
	AnalysisStorage() AnalysisStorage
	KVStorage() KeyValueStorage

	// RunGC triggers a Badger value-log garbage collection pass
	RunGC() error

	Close() error
}
