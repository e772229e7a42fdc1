package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/semkit/rolemark/internal/common"
	"github.com/semkit/rolemark/internal/interfaces"
	"github.com/semkit/rolemark/internal/resources"
)

type APIHandler struct {
	resources *resources.Store
	storage   interfaces.StorageManager
	tagger    interfaces.Tagger
	llmConfig *common.LLMConfig
	logger    arbor.ILogger
}

func NewAPIHandler(res *resources.Store, storage interfaces.StorageManager, tagger interfaces.Tagger, llmConfig *common.LLMConfig) *APIHandler {
	return &APIHandler{
		resources: res,
		storage:   storage,
		tagger:    tagger,
		llmConfig: llmConfig,
		logger:    common.GetLogger(),
	}
}

// VersionHandler returns version information
func (h *APIHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version":    common.GetVersion(),
		"build":      common.GetBuild(),
		"git_commit": common.GetGitCommit(),
	})
}

// HealthHandler returns per-component health status. Any component
// reporting something other than "ok" degrades the overall status.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	components := map[string]string{
		"storage":   h.storageStatus(r),
		"resources": h.resourcesStatus(),
		"tagger":    h.taggerStatus(),
		"llm":       h.llmStatus(),
	}

	status := "ok"
	code := http.StatusOK
	for _, component := range components {
		if component != "ok" {
			status = "degraded"
			code = http.StatusServiceUnavailable
			break
		}
	}

	WriteJSON(w, code, map[string]interface{}{
		"status":     status,
		"components": components,
	})
}

func (h *APIHandler) storageStatus(r *http.Request) string {
	if h.storage == nil {
		return "not_configured"
	}
	if _, err := h.storage.AnalysisStorage().Count(r.Context()); err != nil {
		h.logger.Warn().Err(err).Msg("Storage health check failed")
		return "error"
	}
	return "ok"
}

func (h *APIHandler) resourcesStatus() string {
	if h.resources == nil || !h.resources.Loaded() {
		return "not_loaded"
	}
	return "ok"
}

func (h *APIHandler) taggerStatus() string {
	if h.tagger == nil {
		return "not_configured"
	}
	return "ok"
}

func (h *APIHandler) llmStatus() string {
	if h.llmConfig == nil || h.llmConfig.DefaultProvider == "" {
		return "not_configured"
	}
	return "ok"
}

// RootHandler returns a service banner for the root path
func (h *APIHandler) RootHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.NotFoundHandler(w, r)
		return
	}
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"service": "rolemark",
		"version": common.GetVersion(),
	})
}

// NotFoundHandler handles 404 errors with JSON response
func (h *APIHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusNotFound, map[string]interface{}{
		"error":   "Not Found",
		"path":    r.URL.Path,
		"message": "The requested endpoint does not exist",
	})
}
