// Package handlers contains the HTTP handlers, one file per resource.
// Handlers decode and validate requests, call the service layer and map
// service errors onto HTTP status codes.
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/wealthyhq/scheme-returns-backend/internal/api/response"
	"github.com/wealthyhq/scheme-returns-backend/internal/apperrors"
	"github.com/wealthyhq/scheme-returns-backend/internal/validation"
)

// respondJSON sends a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Failed to encode JSON: %v", err)
		}
	}
}

// decodeJSON decodes a request body, responding 400 on malformed JSON.
// Returns false when the response has already been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	return true
}

// respondServiceError maps a service-layer error onto an HTTP status.
// Validation failures and bad identifiers are the caller's fault; anything
// unrecognized is logged and reported as a generic 500.
func respondServiceError(w http.ResponseWriter, err error) {
	var ve *validation.Error
	switch {
	case errors.As(err, &ve):
		response.RespondError(w, http.StatusBadRequest, "validation failed", ve.Fields)
	case errors.Is(err, apperrors.ErrInvalidIdentifierType),
		errors.Is(err, apperrors.ErrInvalidRequest),
		errors.Is(err, apperrors.ErrInvalidSIPDay),
		errors.Is(err, apperrors.ErrNonPositiveAmount),
		errors.Is(err, apperrors.ErrNonPositivePeriod):
		response.RespondError(w, http.StatusBadRequest, "invalid request", err.Error())
	case errors.Is(err, apperrors.ErrSchemeNotFound),
		errors.Is(err, apperrors.ErrStockNotFound),
		errors.Is(err, apperrors.ErrScreenerNotFound),
		errors.Is(err, apperrors.ErrNavNotFound):
		response.RespondError(w, http.StatusNotFound, "not found", err.Error())
	case errors.Is(err, apperrors.ErrFeedConfigNotFound):
		response.RespondError(w, http.StatusConflict, "feed not configured", err.Error())
	default:
		log.Printf("internal error: %v", err)
		response.RespondError(w, http.StatusInternalServerError, "internal error", nil)
	}
}
