package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wealthyhq/scheme-returns-backend/internal/api/request"
	"github.com/wealthyhq/scheme-returns-backend/internal/service"
	"github.com/wealthyhq/scheme-returns-backend/internal/validation"
)

// ReturnsHandler handles returns computation requests.
type ReturnsHandler struct {
	returnsService *service.ReturnsService
}

// NewReturnsHandler creates a new ReturnsHandler.
func NewReturnsHandler(returnsService *service.ReturnsService) *ReturnsHandler {
	return &ReturnsHandler{returnsService: returnsService}
}

// Compute handles POST /api/returns.
//
// Request body: request.ReturnsRequest.
// Response: 200 OK with returns.Result; the all-null body is a valid 200
// when the fund's history cannot answer the question.
func (h *ReturnsHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var req request.ReturnsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.compute(w, r, req)
}

// ComputeForScheme handles GET /api/schemes/{idType}/{idValue}/returns.
// The identifier comes from the path, everything else from query params.
func (h *ReturnsHandler) ComputeForScheme(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := request.ReturnsRequest{
		IDType:         chi.URLParam(r, "idType"),
		IDValue:        chi.URLParam(r, "idValue"),
		InvestmentType: q.Get("investment_type"),
	}
	req.Amount, _ = strconv.ParseInt(q.Get("amount"), 10, 64)
	req.PeriodYears, _ = strconv.Atoi(q.Get("period_years"))
	req.SIPDay, _ = strconv.Atoi(q.Get("sip_day"))

	h.compute(w, r, req)
}

// ComputeBatch handles POST /api/returns/batch.
// Per-entry failures land inside the 200 body; only a malformed envelope
// fails the request.
func (h *ReturnsHandler) ComputeBatch(w http.ResponseWriter, r *http.Request) {
	var req request.BatchReturnsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validation.ValidateBatchReturnsRequest(&req); err != nil {
		respondServiceError(w, err)
		return
	}

	results := h.returnsService.ComputeBatch(r.Context(), req.Requests)
	respondJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

func (h *ReturnsHandler) compute(w http.ResponseWriter, r *http.Request, req request.ReturnsRequest) {
	if err := validation.ValidateReturnsRequest(&req); err != nil {
		respondServiceError(w, err)
		return
	}

	result, err := h.returnsService.Compute(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
