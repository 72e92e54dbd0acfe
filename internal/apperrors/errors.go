// Package apperrors defines the sentinel errors shared across layers.
// Handlers map these onto HTTP status codes; repositories and services wrap
// them with %w so callers can test with errors.Is.
package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrSchemeNotFound indicates that no scheme matches the given identifier.
	ErrSchemeNotFound = errors.New("scheme not found")

	// ErrStockNotFound indicates that no stock matches the given identifier.
	ErrStockNotFound = errors.New("stock not found")

	// ErrScreenerNotFound indicates that a screener with the given ID does not exist.
	ErrScreenerNotFound = errors.New("screener not found")

	// ErrNavNotFound indicates no NAV observation for a specific fund and date combination.
	ErrNavNotFound = errors.New("nav observation not found")

	// ErrFeedConfigNotFound indicates the vendor feed has not been configured.
	ErrFeedConfigNotFound = errors.New("feed configuration not found")
)

// Business logic errors represent validation failures or constraint violations.
var (
	// ErrInvalidRequest indicates that a returns request failed field validation.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidIdentifierType indicates an unknown identifier namespace.
	ErrInvalidIdentifierType = errors.New("invalid identifier type")

	// ErrInvalidDateRange indicates that the provided date range is invalid
	// (e.g., start date is after end date).
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidSIPDay indicates a SIP anchor day outside 1..28.
	ErrInvalidSIPDay = errors.New("sip day must be between 1 and 28")

	// ErrNonPositiveAmount indicates an amount that is zero or negative.
	ErrNonPositiveAmount = errors.New("amount must be positive")

	// ErrNonPositivePeriod indicates a holding period that is zero or negative.
	ErrNonPositivePeriod = errors.New("period must be positive")
)

// Operation failure errors represent system-level failures when retrieving
// or processing data.
var (
	ErrFailedToRetrieveSchemes    = errors.New("failed to retrieve schemes")
	ErrFailedToRetrieveNavHistory = errors.New("failed to retrieve nav history")
	ErrFailedToRetrieveScreeners  = errors.New("failed to retrieve screeners")
	ErrFailedToRetrieveStocks     = errors.New("failed to retrieve stocks")
	ErrFailedToComputeReturns     = errors.New("failed to compute returns")
	ErrFailedToRefreshFeed        = errors.New("failed to refresh vendor feed")
)
