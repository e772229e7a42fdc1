package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/semkit/rolemark/internal/interfaces"
	"github.com/semkit/rolemark/internal/models"
)

// AnalysisStorage implements the AnalysisStorage interface for Badger
type AnalysisStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewAnalysisStorage creates a new AnalysisStorage instance
func NewAnalysisStorage(db *BadgerDB, logger arbor.ILogger) interfaces.AnalysisStorage {
	return &AnalysisStorage{
		db:     db,
		logger: logger,
	}
}

// Store persists an analysis result under its cache key
func (s *AnalysisStorage) Store(ctx context.Context, cached *models.CachedAnalysis) error {
	if cached == nil || cached.Key == "" {
		return fmt.Errorf("cached analysis requires a key")
	}
	if cached.CreatedAt.IsZero() {
		cached.CreatedAt = time.Now()
	}

	if err := s.db.Store().Upsert(cached.Key, cached); err != nil {
		return fmt.Errorf("failed to store analysis: %w", err)
	}
	return nil
}

// Get retrieves a cached analysis by key; returns nil when absent
func (s *AnalysisStorage) Get(ctx context.Context, key string) (*models.CachedAnalysis, error) {
	var cached models.CachedAnalysis
	err := s.db.Store().Get(key, &cached)
	if err == badgerhold.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return &cached, nil
}

// Delete removes a cached analysis by key
func (s *AnalysisStorage) Delete(ctx context.Context, key string) error {
	err := s.db.Store().Delete(key, &models.CachedAnalysis{})
	if err == badgerhold.ErrNotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}
	return nil
}

// DeleteOlderThan removes entries created before the cutoff
func (s *AnalysisStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	var expired []models.CachedAnalysis
	err := s.db.Store().Find(&expired, badgerhold.Where("CreatedAt").Lt(cutoff))
	if err != nil {
		return 0, fmt.Errorf("failed to find expired analyses: %w", err)
	}

	removed := 0
	for _, cached := range expired {
		if err := s.db.Store().Delete(cached.Key, &models.CachedAnalysis{}); err != nil {
			s.logger.Warn().Str("key", cached.Key).Err(err).Msg("Failed to delete expired analysis")
			continue
		}
		removed++
	}

	return removed, nil
}

// Count returns the number of cached analyses
func (s *AnalysisStorage) Count(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.CachedAnalysis{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count analyses: %w", err)
	}
	return int(count), nil
}

// ClearAll removes all cached analyses
func (s *AnalysisStorage) ClearAll(ctx context.Context) error {
	var all []models.CachedAnalysis
	if err := s.db.Store().Find(&all, nil); err != nil {
		return fmt.Errorf("failed to list analyses for deletion: %w", err)
	}

	for _, cached := range all {
		if err := s.db.Store().Delete(cached.Key, &models.CachedAnalysis{}); err != nil {
			s.logger.Warn().Str("key", cached.Key).Err(err).Msg("Failed to delete analysis during ClearAll")
		}
	}

	s.logger.Info().Int("count", len(all)).Msg("Cleared analysis cache")
	return nil
}
