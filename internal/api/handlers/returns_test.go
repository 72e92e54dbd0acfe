package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wealthyhq/scheme-returns-backend/internal/api/handlers"
	"github.com/wealthyhq/scheme-returns-backend/internal/model"
	"github.com/wealthyhq/scheme-returns-backend/internal/returns"
	"github.com/wealthyhq/scheme-returns-backend/internal/testutil"
)

func TestReturnsHandler_Compute(t *testing.T) {
	t.Run("computes sip returns for a seeded fund", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewReturnsHandler(testutil.NewTestReturnsService(t, db))

		scheme := testutil.NewScheme().Build(t, db)
		testutil.CreateMapping(t, db, model.IDTypeISIN, "INF300000001", scheme.WPC)
		firstMonth := time.Now().UTC().AddDate(-2, 0, 0)
		testutil.CreateMonthlyNavs(t, db, scheme.WPC, firstMonth, 10, 24, 10, 0)
		testutil.CreateNav(t, db, scheme.WPC, time.Now().UTC().AddDate(0, 0, -1), 10)

		body := `{"id_type":"isin","id_value":"INF300000001","amount":1000,"period_years":1,"investment_type":"SIP","sip_day":10}`
		req := httptest.NewRequest(http.MethodPost, "/api/returns", bytes.NewBufferString(body))
		w := httptest.NewRecorder()
		handler.Compute(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var result returns.Result
		if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if result.InvestedValue == nil || result.CurrentValue == nil {
			t.Fatal("Expected a populated result")
		}
		if *result.InvestedValue != *result.CurrentValue {
			t.Errorf("Flat NAV: expected current to equal invested, got %v vs %v",
				*result.CurrentValue, *result.InvestedValue)
		}
	})

	t.Run("insufficient history answers 200 with the all-null body", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewReturnsHandler(testutil.NewTestReturnsService(t, db))

		scheme := testutil.NewScheme().Build(t, db)
		testutil.CreateMapping(t, db, model.IDTypeISIN, "INF300000002", scheme.WPC)
		// No NAV observations at all.

		body := `{"id_type":"isin","id_value":"INF300000002","amount":1000,"period_years":1,"investment_type":"Onetime"}`
		req := httptest.NewRequest(http.MethodPost, "/api/returns", bytes.NewBufferString(body))
		w := httptest.NewRecorder()
		handler.Compute(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var raw map[string]interface{}
		if err := json.NewDecoder(w.Body).Decode(&raw); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		for _, field := range []string{"invested_value", "current_value", "xirr", "absolute_returns"} {
			if raw[field] != nil {
				t.Errorf("Expected %s to be null, got %v", field, raw[field])
			}
		}
	})

	t.Run("validation failures answer 400", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewReturnsHandler(testutil.NewTestReturnsService(t, db))

		cases := []struct {
			name string
			body string
		}{
			{"missing amount", `{"id_type":"isin","id_value":"X","period_years":1,"investment_type":"SIP","sip_day":10}`},
			{"negative amount", `{"id_type":"isin","id_value":"X","amount":-5,"period_years":1,"investment_type":"SIP","sip_day":10}`},
			{"zero period", `{"id_type":"isin","id_value":"X","amount":1000,"period_years":0,"investment_type":"SIP","sip_day":10}`},
			{"bad investment type", `{"id_type":"isin","id_value":"X","amount":1000,"period_years":1,"investment_type":"lumpy"}`},
			{"sip without sip_day", `{"id_type":"isin","id_value":"X","amount":1000,"period_years":1,"investment_type":"SIP"}`},
			{"sip_day out of range", `{"id_type":"isin","id_value":"X","amount":1000,"period_years":1,"investment_type":"SIP","sip_day":31}`},
			{"unknown id_type", `{"id_type":"cusip","id_value":"X","amount":1000,"period_years":1,"investment_type":"SIP","sip_day":10}`},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				req := httptest.NewRequest(http.MethodPost, "/api/returns", bytes.NewBufferString(tc.body))
				w := httptest.NewRecorder()
				handler.Compute(w, req)

				if w.Code != http.StatusBadRequest {
					t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
				}
			})
		}
	})

	t.Run("unresolvable identifier answers 404", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewReturnsHandler(testutil.NewTestReturnsService(t, db))

		body := `{"id_type":"isin","id_value":"INF404404404","amount":1000,"period_years":1,"investment_type":"Onetime"}`
		req := httptest.NewRequest(http.MethodPost, "/api/returns", bytes.NewBufferString(body))
		w := httptest.NewRecorder()
		handler.Compute(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("malformed body answers 400", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewReturnsHandler(testutil.NewTestReturnsService(t, db))

		req := httptest.NewRequest(http.MethodPost, "/api/returns", bytes.NewBufferString("{not json"))
		w := httptest.NewRecorder()
		handler.Compute(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}

func TestReturnsHandler_ComputeForScheme(t *testing.T) {
	t.Run("reads identifier from path and parameters from query", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewReturnsHandler(testutil.NewTestReturnsService(t, db))

		scheme := testutil.NewScheme().Build(t, db)
		testutil.CreateMapping(t, db, model.IDTypeISIN, "INF300000003", scheme.WPC)
		firstMonth := time.Now().UTC().AddDate(-2, 0, 0)
		testutil.CreateMonthlyNavs(t, db, scheme.WPC, firstMonth, 10, 24, 10, 0)
		testutil.CreateNav(t, db, scheme.WPC, time.Now().UTC().AddDate(0, 0, -1), 10)

		req := testutil.NewRequestWithURLParams(http.MethodGet,
			"/api/schemes/isin/INF300000003/returns?amount=10000&period_years=1&investment_type=Onetime",
			map[string]string{"idType": "isin", "idValue": "INF300000003"})
		w := httptest.NewRecorder()
		handler.ComputeForScheme(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var result returns.Result
		if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if result.InvestedValue == nil || *result.InvestedValue != 10000 {
			t.Errorf("Expected invested 10000, got %v", result.InvestedValue)
		}
	})
}

func TestReturnsHandler_ComputeBatch(t *testing.T) {
	t.Run("per-entry failures stay inside the 200 body", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewReturnsHandler(testutil.NewTestReturnsService(t, db))

		scheme := testutil.NewScheme().Build(t, db)
		testutil.CreateMapping(t, db, model.IDTypeISIN, "INF300000004", scheme.WPC)
		firstMonth := time.Now().UTC().AddDate(-2, 0, 0)
		testutil.CreateMonthlyNavs(t, db, scheme.WPC, firstMonth, 10, 24, 10, 0)
		testutil.CreateNav(t, db, scheme.WPC, time.Now().UTC().AddDate(0, 0, -1), 10)

		body := `{"requests":[
			{"id_type":"isin","id_value":"INF300000004","amount":1000,"period_years":1,"investment_type":"SIP","sip_day":10},
			{"id_type":"isin","id_value":"INF404404404","amount":1000,"period_years":1,"investment_type":"Onetime"}
		]}`
		req := httptest.NewRequest(http.MethodPost, "/api/returns/batch", bytes.NewBufferString(body))
		w := httptest.NewRecorder()
		handler.ComputeBatch(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var payload struct {
			Results []struct {
				IDValue string          `json:"id_value"`
				Result  *returns.Result `json:"result"`
				Error   string          `json:"error"`
			} `json:"results"`
		}
		if err := json.NewDecoder(w.Body).Decode(&payload); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(payload.Results) != 2 {
			t.Fatalf("Expected 2 results, got %d", len(payload.Results))
		}
		if payload.Results[0].Result == nil {
			t.Error("Expected first entry to succeed")
		}
		if payload.Results[1].Error == "" {
			t.Error("Expected second entry to report its failure")
		}
	})

	t.Run("empty batch answers 400", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewReturnsHandler(testutil.NewTestReturnsService(t, db))

		req := httptest.NewRequest(http.MethodPost, "/api/returns/batch", bytes.NewBufferString(`{"requests":[]}`))
		w := httptest.NewRecorder()
		handler.ComputeBatch(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}
