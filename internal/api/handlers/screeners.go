package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wealthyhq/scheme-returns-backend/internal/service"
)

// ScreenersHandler handles screener requests.
type ScreenersHandler struct {
	screenerService *service.ScreenerService
}

// NewScreenersHandler creates a new ScreenersHandler.
func NewScreenersHandler(screenerService *service.ScreenerService) *ScreenersHandler {
	return &ScreenersHandler{screenerService: screenerService}
}

// List handles GET /api/screeners.
// The optional category query param is a comma-separated category filter.
func (h *ScreenersHandler) List(w http.ResponseWriter, r *http.Request) {
	var categories []string
	if raw := r.URL.Query().Get("category"); raw != "" {
		for _, c := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(c); trimmed != "" {
				categories = append(categories, trimmed)
			}
		}
	}

	grouped, err := h.screenerService.ListByCategory(r.Context(), categories)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, grouped)
}

// Get handles GET /api/screeners/{screenerId}: one screener with its
// membership resolved to full scheme or stock rows.
func (h *ScreenersHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.screenerService.GetDetail(r.Context(), chi.URLParam(r, "screenerId"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}
