package model

import "errors"

// Resolution failures. "Bad input" and "missing data" are kept apart so callers
// can tell a malformed request from a gap in the loaded reference data.
var (
	ErrInvalidRequest         = errors.New("invalid request")
	ErrInvalidCodeFormat      = errors.New("invalid product code format")
	ErrCountryNotFound        = errors.New("country not found")
	ErrRateNotFound           = errors.New("duty rate not found")
	ErrOriginRuleUndetermined = errors.New("origin rule undetermined")
	ErrCalculationNotFound    = errors.New("calculation not found")
)

// ErrorCode is the stable machine-readable code reported to API callers.
type ErrorCode string

const (
	ErrorCodeInvalidRequest         ErrorCode = "INVALID_REQUEST"
	ErrorCodeInvalidCodeFormat      ErrorCode = "INVALID_CODE_FORMAT"
	ErrorCodeCountryNotFound        ErrorCode = "COUNTRY_NOT_FOUND"
	ErrorCodeRateNotFound           ErrorCode = "RATE_NOT_FOUND"
	ErrorCodeOriginRuleUndetermined ErrorCode = "ORIGIN_RULE_UNDETERMINED"
	ErrorCodeCalculationNotFound    ErrorCode = "CALCULATION_NOT_FOUND"
	ErrorCodeInternal               ErrorCode = "INTERNAL"
)

// IsInputError reports whether err was caused by the caller's input rather than by missing data.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) || errors.Is(err, ErrInvalidCodeFormat)
}

// CodeOf classifies err into the public error taxonomy.
func CodeOf(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrInvalidCodeFormat):
		return ErrorCodeInvalidCodeFormat
	case errors.Is(err, ErrInvalidRequest):
		return ErrorCodeInvalidRequest
	case errors.Is(err, ErrCountryNotFound):
		return ErrorCodeCountryNotFound
	case errors.Is(err, ErrRateNotFound):
		return ErrorCodeRateNotFound
	case errors.Is(err, ErrOriginRuleUndetermined):
		return ErrorCodeOriginRuleUndetermined
	case errors.Is(err, ErrCalculationNotFound):
		return ErrorCodeCalculationNotFound
	default:
		return ErrorCodeInternal
	}
}
