package model

import "time"

// IdentifierType enumerates the external identifier namespaces the resolver
// accepts. Values match the URL path segment, lowercased with hyphens.
type IdentifierType string

const (
	IDTypeWPC         IdentifierType = "wpc"
	IDTypeISIN        IdentifierType = "isin"
	IDTypeSchemeCode  IdentifierType = "scheme-code"
	IDTypeWSchemeCode IdentifierType = "wscheme-code"
	IDTypeTPSLCode    IdentifierType = "tpsl-scheme-code"
	IDTypeThirdParty  IdentifierType = "tp-id"
)

// Valid reports whether t is a known identifier namespace.
func (t IdentifierType) Valid() bool {
	switch t {
	case IDTypeWPC, IDTypeISIN, IDTypeSchemeCode, IDTypeWSchemeCode, IDTypeTPSLCode, IDTypeThirdParty:
		return true
	}
	return false
}

// IdentifierMapping maps one external identifier value to a WPC.
// Hidden rows are ignored during resolution; when multiple rows exist for a
// value the oldest mapping wins.
type IdentifierMapping struct {
	ID        string
	IDType    IdentifierType
	IDValue   string
	WPC       string
	Hidden    bool
	CreatedAt time.Time
}
