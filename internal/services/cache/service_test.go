package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/semkit/rolemark/internal/common"
	"github.com/semkit/rolemark/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStorage struct {
	mu      sync.Mutex
	entries map[string]*models.CachedAnalysis
}

func newStubStorage() *stubStorage {
	return &stubStorage{entries: make(map[string]*models.CachedAnalysis)}
}

func (s *stubStorage) Store(_ context.Context, cached *models.CachedAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *cached
	s.entries[cached.Key] = &copied
	return nil
}

func (s *stubStorage) Get(_ context.Context, key string) (*models.CachedAnalysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cached, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	copied := *cached
	return &copied, nil
}

func (s *stubStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *stubStorage) DeleteOlderThan(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for key, cached := range s.entries {
		if cached.CreatedAt.Before(cutoff) {
			delete(s.entries, key)
			count++
		}
	}
	return count, nil
}

func (s *stubStorage) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries), nil
}

func (s *stubStorage) ClearAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*models.CachedAnalysis)
	return nil
}

func TestCacheGetPut(t *testing.T) {
	storage := newStubStorage()
	service := NewService(storage, true, time.Hour, common.GetLogger())
	ctx := context.Background()

	key := models.CacheKey("Я боюсь собак.", "test-model", "fear")

	_, ok := service.Get(ctx, key)
	assert.False(t, ok)

	analysis := &models.Analysis{
		ID:                    "srl_test",
		Text:                  "Я боюсь собак.",
		Roles:                 []models.SemanticRole{{Role: models.RoleExperiencer, Text: "Я"}},
		HasRelevantPredicates: true,
	}
	service.Put(ctx, key, analysis)

	cached, ok := service.Get(ctx, key)
	require.True(t, ok)
	assert.True(t, cached.Cached)
	assert.Equal(t, analysis.ID, cached.ID)
	assert.Equal(t, analysis.Roles, cached.Roles)

	// The original is not mutated by Put
	assert.False(t, analysis.Cached)
}

func TestCacheExpiry(t *testing.T) {
	storage := newStubStorage()
	service := NewService(storage, true, time.Minute, common.GetLogger())
	ctx := context.Background()

	require.NoError(t, storage.Store(ctx, &models.CachedAnalysis{
		Key:       "stale",
		Analysis:  models.Analysis{ID: "srl_old"},
		CreatedAt: time.Now().Add(-2 * time.Minute),
	}))

	_, ok := service.Get(ctx, "stale")
	assert.False(t, ok, "expired entries are misses")
}

func TestCacheCleanup(t *testing.T) {
	storage := newStubStorage()
	service := NewService(storage, true, time.Minute, common.GetLogger())
	ctx := context.Background()

	require.NoError(t, storage.Store(ctx, &models.CachedAnalysis{
		Key:       "stale",
		CreatedAt: time.Now().Add(-2 * time.Minute),
	}))
	require.NoError(t, storage.Store(ctx, &models.CachedAnalysis{
		Key:       "fresh",
		CreatedAt: time.Now(),
	}))

	removed, err := service.Cleanup(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	count, err := storage.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCacheDisabled(t *testing.T) {
	storage := newStubStorage()
	service := NewService(storage, false, time.Hour, common.GetLogger())
	ctx := context.Background()

	service.Put(ctx, "key", &models.Analysis{ID: "srl_test"})

	count, err := storage.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, ok := service.Get(ctx, "key")
	assert.False(t, ok)
}

func TestCacheNilService(t *testing.T) {
	var service *Service

	assert.False(t, service.Enabled())
	_, ok := service.Get(context.Background(), "key")
	assert.False(t, ok)
	service.Put(context.Background(), "key", &models.Analysis{})

	removed, err := service.Cleanup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}
