package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wealthyhq/scheme-returns-backend/internal/service"
)

// StocksHandler handles equity reference-data requests.
type StocksHandler struct {
	stockService *service.StockService
}

// NewStocksHandler creates a new StocksHandler.
func NewStocksHandler(stockService *service.StockService) *StocksHandler {
	return &StocksHandler{stockService: stockService}
}

// List handles GET /api/stocks with a search query param.
func (h *StocksHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	stocks, err := h.stockService.SearchStocks(r.Context(), q.Get("search"), limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stocks)
}

// Get handles GET /api/stocks/{wpc}.
func (h *StocksHandler) Get(w http.ResponseWriter, r *http.Request) {
	stock, err := h.stockService.GetStock(r.Context(), chi.URLParam(r, "wpc"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stock)
}
