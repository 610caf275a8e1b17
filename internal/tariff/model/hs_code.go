package model

import "github.com/shopspring/decimal"

// HSCode is one tariff line of a destination schedule as exposed for browsing.
type HSCode struct {
	HSCode      string          `json:"hsCode"`
	Precision   Precision       `json:"precision"`
	DutyRate    decimal.Decimal `json:"dutyRate"`
	Description string          `json:"description"`
}

// HSCodeFilter will be used when querying as batch
type HSCodeFilter struct {
	Destination      string  `json:"destination"`
	HSCodeStartsWith *string `json:"hsCodeStartsWith,omitempty"`
	Offset           *int    `json:"offset,omitempty"`
	Limit            *int    `json:"limit,omitempty"`
}

// HSCodeListResult represents the result of querying HS codes with pagination
type HSCodeListResult struct {
	TotalCount int64    `json:"totalCount"`
	HSCodes    []HSCode `json:"hsCodes"`
	Offset     int      `json:"offset"`
	Limit      int      `json:"limit"`
}
