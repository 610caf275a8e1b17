package tariff

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/OpenNSW/tariff/internal/storage"
	"github.com/OpenNSW/tariff/internal/storage/drivers"
	"github.com/OpenNSW/tariff/internal/tariff/model"
	"github.com/OpenNSW/tariff/internal/tariff/reference"
	"github.com/OpenNSW/tariff/internal/tariff/router"
)

func embeddedHolder(t *testing.T) *reference.Holder {
	t.Helper()
	loader, err := reference.NewLoader(">= 1.0.0, < 2.0.0")
	require.NoError(t, err)
	holder := reference.NewHolder(reference.NewEmbeddedSource(loader))
	_, err = holder.Get(context.Background())
	require.NoError(t, err)
	return holder
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func newMux(m *Manager) *http.ServeMux {
	mux := http.NewServeMux()
	m.RegisterRoutes(mux)
	return mux
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestManager_Calculate(t *testing.T) {
	mux := newMux(NewManager(embeddedHolder(t), nil, nil, nil))

	t.Run("Rice Variation", func(t *testing.T) {
		rr := do(t, mux, http.MethodPost, "/api/tariffs/calculate", map[string]any{
			"origin_country":      "CI",
			"destination_country": "NG",
			"product_code":        "1006.30",
			"declared_value":      "10000",
			"qualifies":           true,
		})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

		var result model.TariffCalculationResult
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
		assert.True(t, result.HasVaryingSubPositions)
		require.NotNil(t, result.RateWarning)
		assert.Len(t, result.SubPositionsDetails, 3)
		assert.Equal(t, "WO", result.OriginRule.Criterion.Code())
		assert.True(t, result.PreferentialTariffRate.IsZero())
	})

	t.Run("Numeric Declared Value", func(t *testing.T) {
		rr := do(t, mux, http.MethodPost, "/api/tariffs/calculate",
			json.RawMessage(`{"origin_country":"GH","destination_country":"NG","product_code":"300490","declared_value":2500.5}`))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Contains(t, rr.Body.String(), `"normal_tariff_rate":"0"`)
	})

	t.Run("Malformed Body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/tariffs/calculate", strings.NewReader("{"))
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var body router.ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, model.ErrorCodeInvalidRequest, body.Code)
	})

	t.Run("Invalid Code", func(t *testing.T) {
		rr := do(t, mux, http.MethodPost, "/api/tariffs/calculate", map[string]any{
			"origin_country": "CI", "destination_country": "NG", "product_code": "rice", "declared_value": "1",
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "INVALID_CODE_FORMAT")
	})

	t.Run("Unknown Destination", func(t *testing.T) {
		rr := do(t, mux, http.MethodPost, "/api/tariffs/calculate", map[string]any{
			"origin_country": "CI", "destination_country": "FR", "product_code": "100630", "declared_value": "1",
		})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Rate Not Found", func(t *testing.T) {
		rr := do(t, mux, http.MethodPost, "/api/tariffs/calculate", map[string]any{
			"origin_country": "CI", "destination_country": "NG", "product_code": "999999", "declared_value": "1",
		})
		require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

		var body router.ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, model.ErrorCodeRateNotFound, body.Code)
		require.NotNil(t, body.EstimatedRate)
		assert.Equal(t, 0, *body.EstimatedRate)
		assert.Equal(t, "unknown", body.RateStatus)
	})
}

func TestManager_Lookups(t *testing.T) {
	mux := newMux(NewManager(embeddedHolder(t), nil, nil, nil))

	t.Run("Rate", func(t *testing.T) {
		rr := do(t, mux, http.MethodGet, "/api/tariffs/ng/rate?code=1006301000", nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var res model.RateResolution
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
		assert.Equal(t, model.PrecisionSubPosition, res.Precision)
		require.NotNil(t, res.SubPositionUsed)
	})

	t.Run("Rate Without Code", func(t *testing.T) {
		rr := do(t, mux, http.MethodGet, "/api/tariffs/NG/rate", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Variation", func(t *testing.T) {
		rr := do(t, mux, http.MethodGet, "/api/tariffs/NG/variation/300490", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var report model.RateVariationReport
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
		assert.False(t, report.HasVariation)
		assert.Len(t, report.SubPositions, 2)
	})

	t.Run("Origin Rule", func(t *testing.T) {
		rr := do(t, mux, http.MethodGet, "/api/rules-of-origin/6109.10", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"rule_code":"YARN"`)
		assert.Contains(t, rr.Body.String(), `"scope":"chapter"`)
	})

	t.Run("HS Codes", func(t *testing.T) {
		rr := do(t, mux, http.MethodGet, "/api/hscodes?destination=NG&hsCodeStartsWith=100630&limit=2", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var list model.HSCodeListResult
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
		assert.Equal(t, int64(4), list.TotalCount)
		assert.Len(t, list.HSCodes, 2)
		assert.Equal(t, 2, list.Limit)
	})

	t.Run("HS Codes Bad Limit", func(t *testing.T) {
		rr := do(t, mux, http.MethodGet, "/api/hscodes?destination=NG&limit=ten", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Countries", func(t *testing.T) {
		rr := do(t, mux, http.MethodGet, "/api/countries", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var countries []model.CountryTaxProfile
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &countries))
		assert.NotEmpty(t, countries)
	})

	t.Run("Reference", func(t *testing.T) {
		rr := do(t, mux, http.MethodGet, "/api/reference", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"dataset_version":"2026.10-builtin"`)
	})

	t.Run("Record Routes Disabled", func(t *testing.T) {
		rr := do(t, mux, http.MethodGet, "/api/calculations", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestManager_RecordsAndExport(t *testing.T) {
	db, mock := setupMockDB(t)
	driver, err := drivers.NewLocalFSDriver(t.TempDir(), "/files")
	require.NoError(t, err)
	mux := newMux(NewManager(embeddedHolder(t), nil, db, storage.NewExportService(driver)))

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "calculations"`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	rr := do(t, mux, http.MethodPost, "/api/tariffs/calculate", map[string]any{
		"origin_country": "CI", "destination_country": "NG", "product_code": "100630", "declared_value": "10000",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var result model.TariffCalculationResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	require.NoError(t, mock.ExpectationsWereMet())

	columns := []string{"id", "created_at", "updated_at", "destination_country", "product_code", "result"}
	stored := rr.Body.Bytes()
	now := time.Now()

	t.Run("Get", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "calculations" WHERE id = \$1`).
			WithArgs(result.ID, 1).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(result.ID, now, now, "NG", "100630", stored))

		rr := do(t, mux, http.MethodGet, "/api/calculations/"+result.ID.String(), nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Contains(t, rr.Body.String(), result.JournalDigest)
	})

	t.Run("Get Not Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "calculations" WHERE id = \$1`).WillReturnRows(sqlmock.NewRows(columns))

		rr := do(t, mux, http.MethodGet, "/api/calculations/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "CALCULATION_NOT_FOUND")
	})

	t.Run("Get Bad ID", func(t *testing.T) {
		rr := do(t, mux, http.MethodGet, "/api/calculations/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("List", func(t *testing.T) {
		mock.ExpectQuery(`SELECT count\(\*\) FROM "calculations" WHERE destination_country = \$1`).
			WithArgs("NG").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`SELECT \* FROM "calculations" WHERE destination_country = \$1 ORDER BY created_at DESC`).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(result.ID, now, now, "NG", "100630", stored))

		rr := do(t, mux, http.MethodGet, "/api/calculations?destination=ng", nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Contains(t, rr.Body.String(), `"totalCount":1`)
	})

	t.Run("Export And Download", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "calculations" WHERE id = \$1`).
			WithArgs(result.ID, 1).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(result.ID, now, now, "NG", "100630", stored))

		rr := do(t, mux, http.MethodPost, "/api/calculations/"+result.ID.String()+"/export", nil)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		var obj storage.StoredObject
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &obj))
		assert.True(t, strings.HasPrefix(obj.Key, "journals/"))
		assert.True(t, strings.HasSuffix(obj.Key, result.ID.String()+".json"))
		assert.Equal(t, "/files/"+obj.Key, obj.URL)

		rr = do(t, mux, http.MethodGet, obj.URL, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

		var doc model.JournalDocument
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &doc))
		assert.Equal(t, result.ID, doc.CalculationID)
		assert.Equal(t, result.JournalDigest, doc.JournalDigest)
		assert.Len(t, doc.NormalJournal.Entries, 9)
	})

	t.Run("Download Outside Journals", func(t *testing.T) {
		require.NoError(t, driver.Save(context.Background(), "reference/bundle.yaml", strings.NewReader("schema_version: 1.0.0"), "application/yaml"))

		for _, key := range []string{
			"reference/bundle.yaml",
			"reference/bundle.yaml.meta",
			"journals/x.json.meta",
		} {
			rr := do(t, mux, http.MethodGet, "/files/"+key, nil)
			assert.Equal(t, http.StatusNotFound, rr.Code, key)
		}
	})

	t.Run("Download Missing", func(t *testing.T) {
		rr := do(t, mux, http.MethodGet, "/files/journals/none.json", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
