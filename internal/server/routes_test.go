package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/semkit/rolemark/internal/app"
	"github.com/semkit/rolemark/internal/handlers"
	"github.com/semkit/rolemark/internal/interfaces"
)

type memoryKV struct {
	pairs map[string]interfaces.KeyValuePair
}

func newMemoryKV() *memoryKV {
	return &memoryKV{pairs: make(map[string]interfaces.KeyValuePair)}
}

func (m *memoryKV) Get(ctx context.Context, key string) (string, error) {
	pair, err := m.GetPair(ctx, key)
	if err != nil {
		return "", err
	}
	return pair.Value, nil
}

func (m *memoryKV) GetPair(ctx context.Context, key string) (*interfaces.KeyValuePair, error) {
	pair, ok := m.pairs[key]
	if !ok {
		return nil, interfaces.ErrKeyNotFound
	}
	return &pair, nil
}

func (m *memoryKV) Set(ctx context.Context, key, value, description string) error {
	_, err := m.Upsert(ctx, key, value, description)
	return err
}

func (m *memoryKV) Upsert(ctx context.Context, key, value, description string) (bool, error) {
	_, existed := m.pairs[key]
	m.pairs[key] = interfaces.KeyValuePair{
		Key:         key,
		Value:       value,
		Description: description,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	return !existed, nil
}

func (m *memoryKV) Delete(ctx context.Context, key string) error {
	if _, ok := m.pairs[key]; !ok {
		return interfaces.ErrKeyNotFound
	}
	delete(m.pairs, key)
	return nil
}

func (m *memoryKV) List(ctx context.Context) ([]interfaces.KeyValuePair, error) {
	pairs := make([]interfaces.KeyValuePair, 0, len(m.pairs))
	for _, pair := range m.pairs {
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

func (m *memoryKV) GetAll(ctx context.Context) (map[string]string, error) {
	all := make(map[string]string, len(m.pairs))
	for key, pair := range m.pairs {
		all[key] = pair.Value
	}
	return all, nil
}

func newTestRouter(kv interfaces.KeyValueStorage) *http.ServeMux {
	logger := arbor.NewLogger()
	application := &app.App{
		APIHandler: handlers.NewAPIHandler(nil, nil, nil, nil),
		KVHandler:  handlers.NewKVHandler(kv, logger),
	}
	s := &Server{app: application}
	return s.setupRoutes()
}

func TestKVRoutesUnderVersionedPrefix(t *testing.T) {
	kv := newMemoryKV()
	_, err := kv.Upsert(context.Background(), "anthropic_api_key", "sk-test", "")
	require.NoError(t, err)

	router := newTestRouter(kv)

	// Collection route
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/kv", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var listed []map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "anthropic_api_key", listed[0]["key"])

	// Item route extracts the key from the versioned path
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/kv/anthropic_api_key", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnversionedKVPathReturns404(t *testing.T) {
	router := newTestRouter(newMemoryKV())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/kv", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Not Found", body["error"])
}
