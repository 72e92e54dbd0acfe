package request

// ReturnsRequest represents the body of a returns computation request.
// IDType and IDValue name the fund in any supported identifier namespace;
// the resolver maps them to a canonical WPC before computation.
type ReturnsRequest struct {
	IDType         string `json:"id_type" validate:"required"`
	IDValue        string `json:"id_value" validate:"required"`
	Amount         int64  `json:"amount" validate:"required,gt=0"`
	PeriodYears    int    `json:"period_years" validate:"required,gt=0"`
	InvestmentType string `json:"investment_type" validate:"required"`
	SIPDay         int    `json:"sip_day,omitempty"`
}

// BatchReturnsRequest asks for returns of several funds in one call.
type BatchReturnsRequest struct {
	Requests []ReturnsRequest `json:"requests" validate:"required,min=1,max=50,dive"`
}
