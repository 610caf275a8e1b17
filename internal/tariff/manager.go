// Package tariff wires the tariff and rules-of-origin services to their HTTP routes.
package tariff

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/OpenNSW/tariff/internal/storage"
	"github.com/OpenNSW/tariff/internal/tariff/reference"
	"github.com/OpenNSW/tariff/internal/tariff/router"
	"github.com/OpenNSW/tariff/internal/tariff/service"
)

// Manager coordinates the tariff services and routers.
type Manager struct {
	calculatorService *service.CalculatorService
	lookupService     *service.LookupService
	recordService     *service.CalculationRecordService // nil when persistence is disabled
	tariffRouter      *router.TariffRouter
	calculationRouter *router.CalculationRouter
	fileRouter        *router.FileRouter
}

// NewManager creates the manager. cache, db and exports are optional; the
// calculation record routes need db and the export routes need both db and exports.
func NewManager(ref *reference.Holder, cache service.ResultCache, db *gorm.DB, exports *storage.ExportService) *Manager {
	m := &Manager{lookupService: service.NewLookupService(ref)}

	var recorder service.CalculationRecorder
	if db != nil {
		m.recordService = service.NewCalculationRecordService(db)
		recorder = m.recordService
	}
	m.calculatorService = service.NewCalculatorService(ref, cache, recorder)
	m.tariffRouter = router.NewTariffRouter(m.calculatorService, m.lookupService)

	if m.recordService != nil {
		var exporter *service.JournalExporter
		if exports != nil {
			exporter = service.NewJournalExporter(m.recordService, exports)
		}
		m.calculationRouter = router.NewCalculationRouter(m.recordService, exporter)
	}
	if exports != nil {
		m.fileRouter = router.NewFileRouter(exports)
	}
	return m
}

// RegisterRoutes adds every enabled route to mux.
func (m *Manager) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/tariffs/calculate", m.tariffRouter.HandleCalculate)
	mux.HandleFunc("GET /api/tariffs/{destination}/rate", m.tariffRouter.HandleGetRate)
	mux.HandleFunc("GET /api/tariffs/{destination}/variation/{hs6}", m.tariffRouter.HandleGetVariation)
	mux.HandleFunc("GET /api/rules-of-origin/{code}", m.tariffRouter.HandleGetOriginRule)
	mux.HandleFunc("GET /api/hscodes", m.tariffRouter.HandleGetHSCodes)
	mux.HandleFunc("GET /api/countries", m.tariffRouter.HandleGetCountries)
	mux.HandleFunc("GET /api/reference", m.tariffRouter.HandleGetReference)

	if m.calculationRouter != nil {
		mux.HandleFunc("GET /api/calculations", m.calculationRouter.HandleGetCalculations)
		mux.HandleFunc("GET /api/calculations/{id}", m.calculationRouter.HandleGetCalculation)
		if m.fileRouter != nil {
			mux.HandleFunc("POST /api/calculations/{id}/export", m.calculationRouter.HandleExportCalculation)
		}
	}
	if m.fileRouter != nil {
		mux.HandleFunc("GET /files/{key...}", m.fileRouter.HandleGetFile)
	}
}
