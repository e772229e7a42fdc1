package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/semkit/rolemark/internal/interfaces"
	"github.com/semkit/rolemark/internal/resources"
)

// ResourcesHandler exposes the loaded SRL resources and their reload
type ResourcesHandler struct {
	store  *resources.Store
	events interfaces.EventService
	logger arbor.ILogger
}

// NewResourcesHandler creates a new resources handler
func NewResourcesHandler(store *resources.Store, events interfaces.EventService, logger arbor.ILogger) *ResourcesHandler {
	return &ResourcesHandler{
		store:  store,
		events: events,
		logger: logger,
	}
}

// GroupsHandler handles GET /api/v1/srl/groups - lists predicate groups
func (h *ResourcesHandler) GroupsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	groups := h.store.Groups()
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"groups": groups,
		"count":  len(groups),
	})
}

// ReloadHandler handles POST /api/v1/srl/reload - re-reads the
// resource files and swaps them in atomically
func (h *ResourcesHandler) ReloadHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	if err := h.store.Load(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("Resource reload failed")
		WriteError(w, http.StatusInternalServerError, "Resource reload failed: "+err.Error())
		return
	}

	if h.events != nil {
		_ = h.events.Publish(r.Context(), interfaces.Event{
			Type:    interfaces.EventResourcesReloaded,
			Payload: map[string]interface{}{"groups": len(h.store.Groups())},
		})
	}

	h.logger.Info().Msg("SRL resources reloaded")
	WriteSuccess(w, "Resources reloaded successfully")
}
