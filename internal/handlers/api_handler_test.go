package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/semkit/rolemark/internal/common"
	"github.com/semkit/rolemark/internal/interfaces"
	"github.com/semkit/rolemark/internal/models"
	"github.com/semkit/rolemark/internal/morph"
	"github.com/semkit/rolemark/internal/resources"
)

type stubAnalysisStorage struct {
	countErr error
}

func (s *stubAnalysisStorage) Store(ctx context.Context, cached *models.CachedAnalysis) error {
	return nil
}

func (s *stubAnalysisStorage) Get(ctx context.Context, key string) (*models.CachedAnalysis, error) {
	return nil, nil
}

func (s *stubAnalysisStorage) Delete(ctx context.Context, key string) error { return nil }

func (s *stubAnalysisStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	return 0, nil
}

func (s *stubAnalysisStorage) Count(ctx context.Context) (int, error) {
	return 0, s.countErr
}

func (s *stubAnalysisStorage) ClearAll(ctx context.Context) error { return nil }

type stubStorageManager struct {
	analysis interfaces.AnalysisStorage
}

func (m *stubStorageManager) AnalysisStorage() interfaces.AnalysisStorage { return m.analysis }
func (m *stubStorageManager) KVStorage() interfaces.KeyValueStorage       { return nil }
func (m *stubStorageManager) RunGC() error                                { return nil }
func (m *stubStorageManager) Close() error                                { return nil }

func loadedResourceStore(t *testing.T) *resources.Store {
	t.Helper()
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	cfg := common.ResourcesConfig{
		RoleMapping: write("role-mapping.json", `{
			"fear": {"Experiencer": "who fears", "Cause": "what is feared"}
		}`),
		FormMapping: write("form-mapping.json", `{
			"fear": ["бояться", "боюсь"]
		}`),
		Examples: write("groupped_examples.json", `[
			{
				"group": "fear",
				"text": "Я боюсь темноты",
				"roles": [
					{"entity": "Я#Experiencer"},
					{"entity": "боюсь#predicate"},
					{"entity": "темноты#Cause"}
				]
			}
		]`),
		ExampleCount: 2,
	}

	tagger := morph.NewLexiconTagger(morph.Lexicon{
		"бояться": {Lemma: "бояться", POS: "VERB"},
		"боюсь":   {Lemma: "бояться", POS: "VERB"},
	}, arbor.NewLogger())

	store := resources.NewStore(cfg, tagger, arbor.NewLogger())
	require.NoError(t, store.Load(context.Background()))
	return store
}

func healthResponse(t *testing.T, handler *APIHandler) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	handler.HealthHandler(rec, req)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return rec.Code, body
}

func TestHealthHandlerAllComponentsOK(t *testing.T) {
	store := loadedResourceStore(t)
	tagger := morph.NewLexiconTagger(morph.Lexicon{}, arbor.NewLogger())
	storage := &stubStorageManager{analysis: &stubAnalysisStorage{}}
	llmConfig := &common.LLMConfig{DefaultProvider: "vllm"}

	handler := NewAPIHandler(store, storage, tagger, llmConfig)

	code, body := healthResponse(t, handler)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])

	components, ok := body["components"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "ok", components["storage"])
	assert.Equal(t, "ok", components["resources"])
	assert.Equal(t, "ok", components["tagger"])
	assert.Equal(t, "ok", components["llm"])
}

func TestHealthHandlerDegraded(t *testing.T) {
	tests := []struct {
		name      string
		handler   *APIHandler
		component string
		expect    string
	}{
		{
			name: "storage failure",
			handler: NewAPIHandler(
				loadedResourceStore(t),
				&stubStorageManager{analysis: &stubAnalysisStorage{countErr: fmt.Errorf("db closed")}},
				morph.NewLexiconTagger(morph.Lexicon{}, arbor.NewLogger()),
				&common.LLMConfig{DefaultProvider: "vllm"},
			),
			component: "storage",
			expect:    "error",
		},
		{
			name: "resources not loaded",
			handler: NewAPIHandler(
				nil,
				&stubStorageManager{analysis: &stubAnalysisStorage{}},
				morph.NewLexiconTagger(morph.Lexicon{}, arbor.NewLogger()),
				&common.LLMConfig{DefaultProvider: "vllm"},
			),
			component: "resources",
			expect:    "not_loaded",
		},
		{
			name: "tagger missing",
			handler: NewAPIHandler(
				loadedResourceStore(t),
				&stubStorageManager{analysis: &stubAnalysisStorage{}},
				nil,
				&common.LLMConfig{DefaultProvider: "vllm"},
			),
			component: "tagger",
			expect:    "not_configured",
		},
		{
			name: "llm unconfigured",
			handler: NewAPIHandler(
				loadedResourceStore(t),
				&stubStorageManager{analysis: &stubAnalysisStorage{}},
				morph.NewLexiconTagger(morph.Lexicon{}, arbor.NewLogger()),
				&common.LLMConfig{},
			),
			component: "llm",
			expect:    "not_configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := healthResponse(t, tt.handler)
			assert.Equal(t, http.StatusServiceUnavailable, code)
			assert.Equal(t, "degraded", body["status"])

			components, ok := body["components"].(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, tt.expect, components[tt.component])
		})
	}
}

func TestVersionHandler(t *testing.T) {
	handler := NewAPIHandler(nil, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rec := httptest.NewRecorder()
	handler.VersionHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.NotEmpty(t, body["version"])
}
