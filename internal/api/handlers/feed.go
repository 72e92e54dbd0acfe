package handlers

import (
	"net/http"
	"strconv"

	"github.com/wealthyhq/scheme-returns-backend/internal/api/response"
	"github.com/wealthyhq/scheme-returns-backend/internal/service"
)

// FeedHandler handles vendor feed administration. All routes sit behind
// the API-key middleware.
type FeedHandler struct {
	feedService *service.FeedService
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(feedService *service.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

// setTokenRequest is the body of PUT /api/feed/config.
type setTokenRequest struct {
	BaseURL string `json:"base_url"`
	Token   string `json:"token"`
}

// Refresh handles POST /api/feed/refresh: a synchronous full refresh.
// The run record is returned whether the refresh succeeded or not.
func (h *FeedHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	run, err := h.feedService.Refresh(r.Context())
	if err != nil {
		// The run records what failed; surface both.
		respondJSON(w, http.StatusBadGateway, map[string]interface{}{
			"run":   run,
			"error": "feed refresh failed",
		})
		return
	}
	respondJSON(w, http.StatusOK, run)
}

// SetConfig handles PUT /api/feed/config: stores the feed base URL and a
// fresh vendor token. The token is encrypted before it touches the
// warehouse and never echoed back.
func (h *FeedHandler) SetConfig(w http.ResponseWriter, r *http.Request) {
	var req setTokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Token == "" {
		response.RespondError(w, http.StatusBadRequest, "invalid request", "token is required")
		return
	}

	if err := h.feedService.SetToken(r.Context(), req.BaseURL, req.Token); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// Runs handles GET /api/feed/runs: recent refresh history, newest first.
func (h *FeedHandler) Runs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	runs, err := h.feedService.Runs(r.Context(), limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, runs)
}
