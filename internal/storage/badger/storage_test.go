package badger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/semkit/rolemark/internal/common"
	"github.com/semkit/rolemark/internal/interfaces"
	"github.com/semkit/rolemark/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func newTestManager(t *testing.T) interfaces.StorageManager {
	t.Helper()
	manager, err := NewManager(arbor.NewLogger(), &common.BadgerConfig{
		Path: filepath.Join(t.TempDir(), "rolemark-test"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })
	return manager
}

func TestAnalysisStorageRoundTrip(t *testing.T) {
	manager := newTestManager(t)
	storage := manager.AnalysisStorage()
	ctx := context.Background()

	key := models.CacheKey("Я боюсь собак.", "t-tech/T-lite-it-1.0", "fear")
	cached := &models.CachedAnalysis{
		Key: key,
		Analysis: models.Analysis{
			ID:                    "srl_abc",
			Text:                  "Я боюсь собак.",
			Predicates:            []string{"боюсь"},
			Lemmas:                []string{"бояться"},
			Roles:                 []models.SemanticRole{{Role: models.RoleExperiencer, Text: "Я"}},
			HasRelevantPredicates: true,
			PredicateGroup:        "fear",
		},
	}
	require.NoError(t, storage.Store(ctx, cached))

	got, err := storage.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "srl_abc", got.Analysis.ID)
	assert.Equal(t, "fear", got.Analysis.PredicateGroup)
	assert.False(t, got.CreatedAt.IsZero())

	count, err := storage.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAnalysisStorageGetMissing(t *testing.T) {
	manager := newTestManager(t)

	got, err := manager.AnalysisStorage().Get(context.Background(), "no-such-key")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAnalysisStorageDeleteOlderThan(t *testing.T) {
	manager := newTestManager(t)
	storage := manager.AnalysisStorage()
	ctx := context.Background()

	old := &models.CachedAnalysis{
		Key:       "old-key",
		Analysis:  models.Analysis{ID: "srl_old"},
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}
	fresh := &models.CachedAnalysis{
		Key:      "fresh-key",
		Analysis: models.Analysis{ID: "srl_fresh"},
	}
	require.NoError(t, storage.Store(ctx, old))
	require.NoError(t, storage.Store(ctx, fresh))

	removed, err := storage.DeleteOlderThan(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	got, err := storage.Get(ctx, "old-key")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = storage.Get(ctx, "fresh-key")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestAnalysisStorageClearAll(t *testing.T) {
	manager := newTestManager(t)
	storage := manager.AnalysisStorage()
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		require.NoError(t, storage.Store(ctx, &models.CachedAnalysis{
			Key:      key,
			Analysis: models.Analysis{ID: "srl_" + key},
		}))
	}

	require.NoError(t, storage.ClearAll(ctx))

	count, err := storage.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestKVStorageRoundTrip(t *testing.T) {
	manager := newTestManager(t)
	kv := manager.KVStorage()
	ctx := context.Background()

	created, err := kv.Upsert(ctx, "anthropic_api_key", "sk-test-123", "Claude API key")
	require.NoError(t, err)
	assert.True(t, created)

	value, err := kv.Get(ctx, "anthropic_api_key")
	require.NoError(t, err)
	assert.Equal(t, "sk-test-123", value)

	// Keys are case-insensitive
	value, err = kv.Get(ctx, "ANTHROPIC_API_KEY")
	require.NoError(t, err)
	assert.Equal(t, "sk-test-123", value)

	created, err = kv.Upsert(ctx, "anthropic_api_key", "sk-test-456", "")
	require.NoError(t, err)
	assert.False(t, created)

	pair, err := kv.GetPair(ctx, "anthropic_api_key")
	require.NoError(t, err)
	assert.Equal(t, "sk-test-456", pair.Value)
}

func TestKVStorageDelete(t *testing.T) {
	manager := newTestManager(t)
	kv := manager.KVStorage()
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "gemini_api_key", "g-123", ""))
	require.NoError(t, kv.Delete(ctx, "gemini_api_key"))

	_, err := kv.Get(ctx, "gemini_api_key")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)

	assert.Error(t, kv.Delete(ctx, "gemini_api_key"))
}

func TestKVStorageList(t *testing.T) {
	manager := newTestManager(t)
	kv := manager.KVStorage()
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "key_one", "1", "first"))
	require.NoError(t, kv.Set(ctx, "key_two", "2", "second"))

	pairs, err := kv.List(ctx)
	require.NoError(t, err)
	assert.Len(t, pairs, 2)

	all, err := kv.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1", all["key_one"])
	assert.Equal(t, "2", all["key_two"])
}

func TestManagerRunGC(t *testing.T) {
	manager := newTestManager(t)
	// Fresh database has nothing to collect; ErrNoRewrite is swallowed
	assert.NoError(t, manager.RunGC())
}
