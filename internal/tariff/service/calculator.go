package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/OpenNSW/tariff/internal/tariff/hscode"
	"github.com/OpenNSW/tariff/internal/tariff/model"
	"github.com/OpenNSW/tariff/internal/tariff/reference"
)

var tracer = otel.Tracer("github.com/OpenNSW/tariff/internal/tariff/service")

// ResultCache stores finished calculations keyed by request and dataset version.
type ResultCache interface {
	// Get returns nil and no error on a miss.
	Get(ctx context.Context, key string) (*model.TariffCalculationResult, error)
	Set(ctx context.Context, key string, result *model.TariffCalculationResult) error
}

// CalculationRecorder persists finished calculations.
type CalculationRecorder interface {
	Save(ctx context.Context, result *model.TariffCalculationResult) error
}

// CalculatorService composes the rate, variation, origin and tax stack
// components into the comparative normal versus preferential calculation.
type CalculatorService struct {
	reference *reference.Holder
	resolver  *RateResolver
	detector  *VariationDetector
	origin    *OriginResolver
	cache     ResultCache
	recorder  CalculationRecorder
	now       func() time.Time
}

// NewCalculatorService creates the calculator. cache and recorder may be nil.
func NewCalculatorService(ref *reference.Holder, cache ResultCache, recorder CalculationRecorder) *CalculatorService {
	return &CalculatorService{
		reference: ref,
		resolver:  NewRateResolver(),
		detector:  NewVariationDetector(),
		origin:    NewOriginResolver(),
		cache:     cache,
		recorder:  recorder,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Calculate validates req and returns the complete comparative result. No
// partial result is returned on error.
func (s *CalculatorService) Calculate(ctx context.Context, req model.CalculationRequest) (*model.TariffCalculationResult, error) {
	ctx, span := tracer.Start(ctx, "tariff.calculate")
	defer span.End()

	result, err := s.calculate(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(model.CodeOf(err)))
		return nil, err
	}
	span.SetAttributes(
		attribute.String("tariff.destination", result.DestinationCountry),
		attribute.String("tariff.precision", string(result.TariffPrecision)),
		attribute.String("tariff.confidence", string(result.ConfidenceLevel)),
		attribute.Bool("tariff.variation", result.HasVaryingSubPositions),
	)
	return result, nil
}

func (s *CalculatorService) calculate(ctx context.Context, req model.CalculationRequest) (*model.TariffCalculationResult, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	store, err := s.reference.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("reference data unavailable: %w", err)
	}

	code, err := hscode.Parse(req.ProductCode)
	if err != nil {
		return nil, err
	}
	if !store.HasCountry(req.DestinationCountry) {
		return nil, fmt.Errorf("%w: destination %s", model.ErrCountryNotFound, req.DestinationCountry)
	}
	if !store.IsKnownOrigin(req.OriginCountry) {
		return nil, fmt.Errorf("%w: origin %s", model.ErrCountryNotFound, req.OriginCountry)
	}

	cacheKey := CacheKey(store.DatasetVersion(), req, code)
	if cached := s.fromCache(ctx, cacheKey); cached != nil {
		result := *cached
		result.ID = uuid.New()
		result.CalculatedAt = s.now()
		s.record(ctx, &result)
		return &result, nil
	}

	res, err := s.resolver.Resolve(store, req.DestinationCountry, code)
	if err != nil {
		return nil, err
	}
	rule, err := s.origin.Resolve(store, code)
	if err != nil {
		return nil, err
	}
	profile, _ := store.Country(req.DestinationCountry)

	value := *req.DeclaredValue
	prefRate := preferentialRate(store, req, code, res.Rate)

	normal, normalJournal := ComputeTaxStack(model.RegimeNormal, value, res.Rate, profile)
	preferential, prefJournal := ComputeTaxStack(model.RegimePreferential, value, prefRate, profile)

	digest, err := JournalDigest(normalJournal, prefJournal)
	if err != nil {
		return nil, err
	}

	savings := normal.TotalCost.Sub(preferential.TotalCost)
	savingsPct := decimal.Zero
	if !normal.TotalCost.IsZero() {
		savingsPct = savings.Div(normal.TotalCost)
	}

	result := &model.TariffCalculationResult{
		ID:                     uuid.New(),
		OriginCountry:          req.OriginCountry,
		DestinationCountry:     req.DestinationCountry,
		InputCode:              req.ProductCode,
		ProductCode:            code.Digits,
		DeclaredValue:          value,
		Qualifies:              req.Qualifies,
		NormalTariffRate:       res.Rate,
		PreferentialTariffRate: prefRate,
		TariffPrecision:        res.Precision,
		MatchedCode:            res.MatchedCode,
		SubPositionUsed:        res.SubPositionUsed,
		Normal:                 normal,
		Preferential:           preferential,
		Savings:                savings,
		SavingsPercentage:      savingsPct,
		ConfidenceLevel:        Confidence(res.Precision, rule.Scope),
		OriginRule:             rule,
		NormalJournal:          normalJournal,
		PreferentialJournal:    prefJournal,
		JournalDigest:          digest,
		DatasetVersion:         store.DatasetVersion(),
		CalculatedAt:           s.now(),
	}

	if code.HasSubheading() {
		report, err := s.detector.Detect(store, req.DestinationCountry, code.Subheading, &res.Rate)
		if err != nil {
			return nil, err
		}
		if len(report.SubPositions) > 0 {
			result.RateVariation = report
		}
		if report.HasVariation {
			result.HasVaryingSubPositions = true
			result.RateWarning = buildRateWarning(report, res)
			result.SubPositionsDetails = report.SubPositions
		}
	}

	slog.InfoContext(ctx, "tariff calculated",
		"id", result.ID,
		"origin", result.OriginCountry,
		"destination", result.DestinationCountry,
		"code", result.ProductCode,
		"precision", result.TariffPrecision,
		"originRule", rule.Criterion.Code(),
		"confidence", result.ConfidenceLevel,
		"variation", result.HasVaryingSubPositions,
	)

	s.record(ctx, result)
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, result); err != nil {
			slog.WarnContext(ctx, "failed to cache calculation", "id", result.ID, "error", err)
		}
	}
	return result, nil
}

func (s *CalculatorService) record(ctx context.Context, result *model.TariffCalculationResult) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Save(ctx, result); err != nil {
		slog.WarnContext(ctx, "failed to store calculation record", "id", result.ID, "error", err)
	}
}

// fromCache returns the stored result for key. Callers must copy it before
// setting per-request fields.
func (s *CalculatorService) fromCache(ctx context.Context, key string) *model.TariffCalculationResult {
	if s.cache == nil {
		return nil
	}
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "calculation cache lookup failed", "error", err)
		return nil
	}
	if cached != nil {
		slog.DebugContext(ctx, "calculation served from cache", "id", cached.ID)
	}
	return cached
}

// preferentialRate is 0% for qualifying shipments unless the destination
// publishes a phase-down rate for the subheading. It never exceeds the
// normal rate. Non-qualifying shipments pay the normal rate.
func preferentialRate(store *reference.Store, req model.CalculationRequest, code hscode.ProductCode, normal decimal.Decimal) decimal.Decimal {
	if !req.Qualifies {
		return normal
	}
	if code.HasSubheading() {
		if rate, ok := store.PreferentialRate(req.DestinationCountry, code.Subheading); ok {
			return decimal.Min(rate, normal)
		}
	}
	return decimal.Zero
}

// Confidence grades a result by the specificity of its tariff and origin data.
func Confidence(precision model.Precision, scope model.RuleScope) model.Confidence {
	switch {
	case precision == model.PrecisionSubPosition && scope == model.RuleScopeHeading:
		return model.ConfidenceHigh
	case precision == model.PrecisionChapter && scope == model.RuleScopeDefault:
		return model.ConfidenceLow
	default:
		return model.ConfidenceMedium
	}
}

// CacheKey identifies a calculation request against one dataset version.
func CacheKey(datasetVersion string, req model.CalculationRequest, code hscode.ProductCode) string {
	return strings.Join([]string{
		"tariff", "calc", datasetVersion,
		req.OriginCountry, req.DestinationCountry, code.Digits,
		req.DeclaredValue.String(), fmt.Sprintf("%t", req.Qualifies),
	}, ":")
}
