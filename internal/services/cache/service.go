package cache

import (
	"context"
	"time"

	"github.com/semkit/rolemark/internal/interfaces"
	"github.com/semkit/rolemark/internal/models"
	"github.com/ternarybob/arbor"
)

// Service provides TTL-bounded caching of analysis results on top of
// the persistent analysis storage.
type Service struct {
	storage interfaces.AnalysisStorage
	enabled bool
	ttl     time.Duration
	logger  arbor.ILogger
}

// NewService creates a new cache service
func NewService(storage interfaces.AnalysisStorage, enabled bool, ttl time.Duration, logger arbor.ILogger) *Service {
	return &Service{
		storage: storage,
		enabled: enabled,
		ttl:     ttl,
		logger:  logger,
	}
}

// Enabled reports whether caching is active. Nil-safe so callers can
// run without a cache wired in.
func (s *Service) Enabled() bool {
	return s != nil && s.enabled && s.storage != nil
}

// Get returns a cached analysis for the key if present and fresh.
// Stale entries are treated as misses; cleanup removes them later.
func (s *Service) Get(ctx context.Context, key string) (*models.Analysis, bool) {
	if !s.Enabled() {
		return nil, false
	}

	cached, err := s.storage.Get(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Cache lookup failed")
		return nil, false
	}
	if cached == nil {
		return nil, false
	}

	if s.ttl > 0 && time.Since(cached.CreatedAt) > s.ttl {
		s.logger.Debug().Str("key", key).Msg("Cache entry expired")
		return nil, false
	}

	analysis := cached.Analysis
	analysis.Cached = true
	return &analysis, true
}

// Put stores an analysis result under the key. Failures are logged
// and swallowed; the caller already has the result.
func (s *Service) Put(ctx context.Context, key string, analysis *models.Analysis) {
	if !s.Enabled() || analysis == nil {
		return
	}

	stored := *analysis
	stored.Cached = false

	err := s.storage.Store(ctx, &models.CachedAnalysis{
		Key:       key,
		Analysis:  stored,
		CreatedAt: time.Now(),
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Failed to store analysis in cache")
	}
}

// Cleanup removes entries older than the TTL.
// Returns the number of entries removed.
func (s *Service) Cleanup(ctx context.Context) (int, error) {
	if !s.Enabled() || s.ttl <= 0 {
		return 0, nil
	}

	cutoff := time.Now().Add(-s.ttl)
	count, err := s.storage.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if count > 0 {
		s.logger.Info().Int("removed", count).Msg("Cache cleanup completed")
	}
	return count, nil
}

// Clear removes all cached analyses
func (s *Service) Clear(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	return s.storage.ClearAll(ctx)
}
