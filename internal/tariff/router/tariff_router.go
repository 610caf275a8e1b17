package router

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/OpenNSW/tariff/internal/tariff/model"
	"github.com/OpenNSW/tariff/internal/tariff/service"
)

type TariffRouter struct {
	calculator *service.CalculatorService
	lookup     *service.LookupService
}

func NewTariffRouter(calculator *service.CalculatorService, lookup *service.LookupService) *TariffRouter {
	return &TariffRouter{
		calculator: calculator,
		lookup:     lookup,
	}
}

// HandleCalculate handles POST /api/tariffs/calculate
// Request body: CalculationRequest
// Response: TariffCalculationResult
func (tr *TariffRouter) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	var req model.CalculationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid request body: %v", model.ErrInvalidRequest, err))
		return
	}

	result, err := tr.calculator.Calculate(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleGetRate handles GET /api/tariffs/{destination}/rate?code=
func (tr *TariffRouter) HandleGetRate(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, r, fmt.Errorf("%w: code query parameter is required", model.ErrInvalidRequest))
		return
	}

	res, err := tr.lookup.ResolveRate(r.Context(), r.PathValue("destination"), code)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleGetVariation handles GET /api/tariffs/{destination}/variation/{hs6}
func (tr *TariffRouter) HandleGetVariation(w http.ResponseWriter, r *http.Request) {
	report, err := tr.lookup.DetectVariation(r.Context(), r.PathValue("destination"), r.PathValue("hs6"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// HandleGetOriginRule handles GET /api/rules-of-origin/{code}
func (tr *TariffRouter) HandleGetOriginRule(w http.ResponseWriter, r *http.Request) {
	rule, err := tr.lookup.OriginRule(r.Context(), r.PathValue("code"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

// HandleGetHSCodes handles GET /api/hscodes
// Query params: destination (required), hsCodeStartsWith, offset, limit
func (tr *TariffRouter) HandleGetHSCodes(w http.ResponseWriter, r *http.Request) {
	filter := model.HSCodeFilter{Destination: r.URL.Query().Get("destination")}

	if hsCodeStartsWith := r.URL.Query().Get("hsCodeStartsWith"); hsCodeStartsWith != "" {
		filter.HSCodeStartsWith = &hsCodeStartsWith
	}

	offset, limit, msg := parsePagination(r)
	if msg != "" {
		writeError(w, r, fmt.Errorf("%w: %s", model.ErrInvalidRequest, msg))
		return
	}
	filter.Offset, filter.Limit = offset, limit

	hsCodes, err := tr.lookup.ListHSCodes(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hsCodes)
}

// HandleGetCountries handles GET /api/countries
func (tr *TariffRouter) HandleGetCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := tr.lookup.Countries(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, countries)
}

// HandleGetReference handles GET /api/reference
func (tr *TariffRouter) HandleGetReference(w http.ResponseWriter, r *http.Request) {
	meta, err := tr.lookup.Metadata(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, meta)
}
