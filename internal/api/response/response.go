// Package response holds the helpers shared by handlers and middleware for
// writing JSON bodies and the API's error envelope.
package response

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorResponse is the error envelope every non-2xx answer carries. Details
// is optional context: a field map for validation failures, a message
// string otherwise.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// RespondJSON writes data as JSON with the given status. A nil data writes
// the status alone, which is how 204 responses are sent. Encoding failures
// are logged; at that point the status line is already on the wire.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("failed to encode JSON response: %v", err)
		}
	}
}

// RespondError writes the error envelope with the given status.
func RespondError(w http.ResponseWriter, status int, message string, details interface{}) {
	RespondJSON(w, status, ErrorResponse{
		Error:   message,
		Details: details,
	})
}
