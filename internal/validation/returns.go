// Package validation checks incoming request payloads before they reach the
// service layer. Struct-tag rules cover presence and ranges; cross-field
// rules are checked explicitly.
package validation

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/wealthyhq/scheme-returns-backend/internal/api/request"
	"github.com/wealthyhq/scheme-returns-backend/internal/model"
	"github.com/wealthyhq/scheme-returns-backend/internal/returns"
)

var validate = validator.New()

// ValidateReturnsRequest checks a returns request and normalizes it in
// place: the identifier type is lowercased and the investment type folded
// to its canonical mode. Returns a field-keyed *Error on failure.
func ValidateReturnsRequest(req *request.ReturnsRequest) error {
	errors := make(map[string]string)

	if err := validate.Struct(req); err != nil {
		var fieldErrors validator.ValidationErrors
		if !stderrors.As(err, &fieldErrors) {
			return fmt.Errorf("validating returns request: %w", err)
		}
		for _, fe := range fieldErrors {
			switch fe.Field() {
			case "IDType":
				errors["id_type"] = "id_type is required"
			case "IDValue":
				errors["id_value"] = "id_value is required"
			case "Amount":
				errors["amount"] = "amount must be a positive integer"
			case "PeriodYears":
				errors["period_years"] = "period_years must be a positive integer"
			case "InvestmentType":
				errors["investment_type"] = "investment_type is required"
			}
		}
	}

	req.IDType = strings.ToLower(strings.TrimSpace(req.IDType))
	if req.IDType != "" && !model.IdentifierType(req.IDType).Valid() {
		errors["id_type"] = fmt.Sprintf("unknown id_type %q", req.IDType)
	}

	mode, ok := parseMode(req.InvestmentType)
	if req.InvestmentType != "" && !ok {
		errors["investment_type"] = "investment_type must be Onetime or SIP"
	}
	req.InvestmentType = string(mode)

	if mode == returns.ModeSIP {
		if req.SIPDay == 0 {
			errors["sip_day"] = "sip_day is required for SIP"
		} else if req.SIPDay < 1 || req.SIPDay > returns.MaxSIPDay {
			errors["sip_day"] = fmt.Sprintf("sip_day must be between 1 and %d", returns.MaxSIPDay)
		}
	} else if req.SIPDay != 0 && (req.SIPDay < 1 || req.SIPDay > returns.MaxSIPDay) {
		errors["sip_day"] = fmt.Sprintf("sip_day must be between 1 and %d", returns.MaxSIPDay)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateBatchReturnsRequest checks the batch envelope and each entry.
func ValidateBatchReturnsRequest(req *request.BatchReturnsRequest) error {
	if len(req.Requests) == 0 {
		return &Error{Fields: map[string]string{"requests": "requests must not be empty"}}
	}
	if len(req.Requests) > 50 {
		return &Error{Fields: map[string]string{"requests": "requests must contain at most 50 entries"}}
	}
	for i := range req.Requests {
		if err := ValidateReturnsRequest(&req.Requests[i]); err != nil {
			var ve *Error
			if stderrors.As(err, &ve) {
				prefixed := make(map[string]string, len(ve.Fields))
				for field, msg := range ve.Fields {
					prefixed[fmt.Sprintf("requests[%d].%s", i, field)] = msg
				}
				return &Error{Fields: prefixed}
			}
			return err
		}
	}
	return nil
}

// parseMode folds an investment type to its mode, case-insensitively.
func parseMode(s string) (returns.Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "onetime":
		return returns.ModeOnetime, true
	case "sip":
		return returns.ModeSIP, true
	}
	return "", false
}
