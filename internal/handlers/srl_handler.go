package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/semkit/rolemark/internal/interfaces"
	"github.com/semkit/rolemark/internal/models"
)

// SRLHandler handles semantic role labeling HTTP requests
type SRLHandler struct {
	analyzer interfaces.Analyzer
	validate *validator.Validate
	logger   arbor.ILogger
}

// NewSRLHandler creates a new SRL handler
func NewSRLHandler(analyzer interfaces.Analyzer, logger arbor.ILogger) *SRLHandler {
	return &SRLHandler{
		analyzer: analyzer,
		validate: validator.New(),
		logger:   logger,
	}
}

// AnalyzeHandler handles POST /api/v1/srl/analyze.
// Backend failures are reported inside a 200 response; the analysis
// still carries the detected predicates.
func (h *SRLHandler) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req models.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug().Err(err).Msg("Failed to parse analyze request")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Field 'text' is required and must be at most 4096 characters")
		return
	}

	analysis, err := h.analyzer.Analyze(r.Context(), req.Text)
	if err != nil {
		h.logger.Error().Err(err).Msg("Analysis failed")
		WriteError(w, http.StatusInternalServerError, "Analysis failed")
		return
	}

	WriteJSON(w, http.StatusOK, analysis)
}

// PredicatesHandler handles GET /api/v1/srl/predicates?text=...
// It runs predicate detection without calling the labeling backend.
func (h *SRLHandler) PredicatesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	text := r.URL.Query().Get("text")
	if text == "" {
		WriteError(w, http.StatusBadRequest, "Missing text parameter")
		return
	}
	if len(text) > 4096 {
		WriteError(w, http.StatusBadRequest, "Text must be at most 4096 characters")
		return
	}

	extraction, err := h.analyzer.ExtractPredicates(r.Context(), text)
	if err != nil {
		h.logger.Error().Err(err).Msg("Predicate extraction failed")
		WriteError(w, http.StatusInternalServerError, "Predicate extraction failed")
		return
	}

	WriteJSON(w, http.StatusOK, extraction)
}
