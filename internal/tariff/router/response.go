package router

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/OpenNSW/tariff/internal/tariff/model"
)

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error string          `json:"error"`
	Code  model.ErrorCode `json:"code"`
	// Set only for RATE_NOT_FOUND.
	EstimatedRate *int   `json:"estimated_rate,omitempty"`
	RateStatus    string `json:"rate_status,omitempty"`
}

// StatusOf maps an error from the tariff services to its HTTP status.
func StatusOf(err error) int {
	if model.IsInputError(err) {
		return http.StatusBadRequest
	}
	switch model.CodeOf(err) {
	case model.ErrorCodeCountryNotFound, model.ErrorCodeCalculationNotFound:
		return http.StatusNotFound
	case model.ErrorCodeRateNotFound, model.ErrorCodeOriginRuleUndetermined:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusOf(err)
	body := ErrorResponse{Error: err.Error(), Code: model.CodeOf(err)}
	if body.Code == model.ErrorCodeRateNotFound {
		zero := 0
		body.EstimatedRate = &zero
		body.RateStatus = "unknown"
	}
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		body.Error = "internal server error"
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// parsePagination reads the optional offset and limit query parameters.
func parsePagination(r *http.Request) (offset, limit *int, errMsg string) {
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil {
			return nil, nil, "invalid 'limit' query parameter, must be an integer"
		}
		limit = &v
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		v, err := strconv.Atoi(offsetStr)
		if err != nil {
			return nil, nil, "invalid 'offset' query parameter, must be an integer"
		}
		offset = &v
	}
	return offset, limit, ""
}
