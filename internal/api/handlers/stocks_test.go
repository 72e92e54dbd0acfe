package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wealthyhq/scheme-returns-backend/internal/api/handlers"
	"github.com/wealthyhq/scheme-returns-backend/internal/model"
	"github.com/wealthyhq/scheme-returns-backend/internal/testutil"
)

func TestStocksHandler_List(t *testing.T) {
	t.Run("searches by company name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewStocksHandler(testutil.NewTestStockService(t, db))

		testutil.NewStock().WithName("Apex Motors").WithNSESymbol("APEX").Build(t, db)
		testutil.NewStock().WithName("Border Chemicals").WithNSESymbol("BORDER").Build(t, db)

		req := httptest.NewRequest(http.MethodGet, "/api/stocks?search=apex", nil)
		w := httptest.NewRecorder()
		handler.List(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var stocks []model.Stock
		if err := json.NewDecoder(w.Body).Decode(&stocks); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(stocks) != 1 {
			t.Fatalf("Expected 1 match, got %d", len(stocks))
		}
		if stocks[0].CompanyName != "Apex Motors" {
			t.Errorf("Expected Apex Motors, got %s", stocks[0].CompanyName)
		}
	})
}

func TestStocksHandler_Get(t *testing.T) {
	t.Run("returns a stock by wpc", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewStocksHandler(testutil.NewTestStockService(t, db))

		stock := testutil.NewStock().WithName("Apex Motors").Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/stocks/"+stock.WPC,
			map[string]string{"wpc": stock.WPC})
		w := httptest.NewRecorder()
		handler.Get(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var got model.Stock
		if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if got.WPC != stock.WPC {
			t.Errorf("Expected wpc %s, got %s", stock.WPC, got.WPC)
		}
	})

	t.Run("unknown wpc answers 404", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewStocksHandler(testutil.NewTestStockService(t, db))

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/stocks/ST999999",
			map[string]string{"wpc": "ST999999"})
		w := httptest.NewRecorder()
		handler.Get(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}
