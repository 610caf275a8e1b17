package router

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/OpenNSW/tariff/internal/tariff/model"
	"github.com/OpenNSW/tariff/internal/tariff/service"
)

type CalculationRouter struct {
	records  *service.CalculationRecordService
	exporter *service.JournalExporter
}

func NewCalculationRouter(records *service.CalculationRecordService, exporter *service.JournalExporter) *CalculationRouter {
	return &CalculationRouter{
		records:  records,
		exporter: exporter,
	}
}

func parseCalculationID(r *http.Request) (uuid.UUID, error) {
	idStr := r.PathValue("id")
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%w: calculation ID is required", model.ErrInvalidRequest)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid calculation ID format: %v", model.ErrInvalidRequest, err)
	}
	return id, nil
}

// HandleGetCalculation handles GET /api/calculations/{id}
// Response: the stored TariffCalculationResult
func (cr *CalculationRouter) HandleGetCalculation(w http.ResponseWriter, r *http.Request) {
	id, err := parseCalculationID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := cr.records.GetResult(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleGetCalculations handles GET /api/calculations
// Query params: destination, offset, limit
func (cr *CalculationRouter) HandleGetCalculations(w http.ResponseWriter, r *http.Request) {
	var filter model.CalculationFilter
	if destination := r.URL.Query().Get("destination"); destination != "" {
		filter.DestinationCountry = &destination
	}

	offset, limit, msg := parsePagination(r)
	if msg != "" {
		writeError(w, r, fmt.Errorf("%w: %s", model.ErrInvalidRequest, msg))
		return
	}
	filter.Offset, filter.Limit = offset, limit

	list, err := cr.records.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleExportCalculation handles POST /api/calculations/{id}/export
// Response: StoredObject describing the exported journal document
func (cr *CalculationRouter) HandleExportCalculation(w http.ResponseWriter, r *http.Request) {
	id, err := parseCalculationID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	obj, err := cr.exporter.Export(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, obj)
}
