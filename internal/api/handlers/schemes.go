package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wealthyhq/scheme-returns-backend/internal/model"
	"github.com/wealthyhq/scheme-returns-backend/internal/repository"
	"github.com/wealthyhq/scheme-returns-backend/internal/service"
)

// SchemesHandler handles scheme reference-data requests.
type SchemesHandler struct {
	schemeService *service.SchemeService
}

// NewSchemesHandler creates a new SchemesHandler.
func NewSchemesHandler(schemeService *service.SchemeService) *SchemesHandler {
	return &SchemesHandler{schemeService: schemeService}
}

// List handles GET /api/schemes.
//
// Query params: category, amc, fund_type, search, limit, offset,
// include_deprecated. Deprecated schemes are excluded unless asked for.
func (h *SchemesHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.SchemeFilter{
		Category:        q.Get("category"),
		AMC:             q.Get("amc"),
		FundType:        q.Get("fund_type"),
		Search:          q.Get("search"),
		AllowDeprecated: q.Get("include_deprecated") == "true",
	}
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	filter.Offset, _ = strconv.Atoi(q.Get("offset"))

	schemes, err := h.schemeService.ListSchemes(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, schemes)
}

// Get handles GET /api/schemes/{idType}/{idValue}.
// The identifier namespace is part of the path; anything that resolves
// through the mapping tables returns the canonical scheme row.
func (h *SchemesHandler) Get(w http.ResponseWriter, r *http.Request) {
	idType := model.IdentifierType(strings.ToLower(chi.URLParam(r, "idType")))
	idValue := chi.URLParam(r, "idValue")

	scheme, err := h.schemeService.GetScheme(r.Context(), idType, idValue)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, scheme)
}

// NavHistory handles GET /api/schemes/{idType}/{idValue}/nav-history.
//
// Query params: period (daily|weekly|monthly, default daily) and years.
func (h *SchemesHandler) NavHistory(w http.ResponseWriter, r *http.Request) {
	idType := model.IdentifierType(strings.ToLower(chi.URLParam(r, "idType")))
	idValue := chi.URLParam(r, "idValue")

	q := r.URL.Query()
	years, _ := strconv.Atoi(q.Get("years"))

	history, err := h.schemeService.NavHistory(r.Context(), idType, idValue, q.Get("period"), years)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, history)
}
