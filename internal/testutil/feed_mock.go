package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wealthyhq/scheme-returns-backend/internal/vendor"
)

// NewFeedServer starts an httptest server that answers the vendor feed's
// latest-NAVs endpoint with the given records. The server shuts down with
// the test.
func NewFeedServer(t *testing.T, records []vendor.NavRecord) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(vendor.NavResponse{
			Status: "ok",
			Data:   records,
		}); err != nil {
			t.Errorf("Failed to encode feed response: %v", err)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

// NewFailingFeedServer starts an httptest server that always answers with
// the given status code, for error-path tests.
func NewFailingFeedServer(t *testing.T, status int) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "feed unavailable", status)
	}))
	t.Cleanup(server.Close)
	return server
}

// FeedRecord builds one vendor NAV record with matching raw and adjusted
// values.
func FeedRecord(isin string, date time.Time, nav string) vendor.NavRecord {
	return vendor.NavRecord{
		ISIN:   isin,
		Date:   date.Format("2006-01-02"),
		Nav:    nav,
		AdjNav: nav,
	}
}
