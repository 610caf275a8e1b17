package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/OpenNSW/tariff/internal/tariff/hscode"
	"github.com/OpenNSW/tariff/internal/tariff/model"
	"github.com/OpenNSW/tariff/internal/tariff/reference"
	"github.com/OpenNSW/tariff/utils"
)

// LookupService answers single-component queries against the reference
// dataset: rates, variation reports, origin rules and schedule browsing.
type LookupService struct {
	reference *reference.Holder
	resolver  *RateResolver
	detector  *VariationDetector
	origin    *OriginResolver
}

func NewLookupService(ref *reference.Holder) *LookupService {
	return &LookupService{
		reference: ref,
		resolver:  NewRateResolver(),
		detector:  NewVariationDetector(),
		origin:    NewOriginResolver(),
	}
}

func (s *LookupService) store(ctx context.Context) (*reference.Store, error) {
	store, err := s.reference.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("reference data unavailable: %w", err)
	}
	return store, nil
}

// ResolveRate returns the most specific rate dest publishes for raw.
func (s *LookupService) ResolveRate(ctx context.Context, dest, raw string) (*model.RateResolution, error) {
	store, err := s.store(ctx)
	if err != nil {
		return nil, err
	}
	return s.resolver.ResolveCode(store, normalizeCountry(dest), raw)
}

// DetectVariation reports the sub-position rates under hs6 in dest.
func (s *LookupService) DetectVariation(ctx context.Context, dest, hs6 string) (*model.RateVariationReport, error) {
	store, err := s.store(ctx)
	if err != nil {
		return nil, err
	}
	return s.detector.Detect(store, normalizeCountry(dest), hs6, nil)
}

// OriginRule returns the rule of origin that applies to raw.
func (s *LookupService) OriginRule(ctx context.Context, raw string) (model.OriginRule, error) {
	store, err := s.store(ctx)
	if err != nil {
		return model.OriginRule{}, err
	}
	return s.origin.ResolveCode(store, raw)
}

// ListHSCodes pages through the schedule of a destination, optionally
// restricted to codes beginning with a prefix.
func (s *LookupService) ListHSCodes(ctx context.Context, filter model.HSCodeFilter) (*model.HSCodeListResult, error) {
	store, err := s.store(ctx)
	if err != nil {
		return nil, err
	}
	dest := normalizeCountry(filter.Destination)
	if dest == "" {
		return nil, fmt.Errorf("%w: destination is required", model.ErrInvalidRequest)
	}
	if !store.HasCountry(dest) {
		return nil, fmt.Errorf("%w: destination %s", model.ErrCountryNotFound, dest)
	}

	prefix := ""
	if filter.HSCodeStartsWith != nil {
		prefix = hscode.StripSeparators(*filter.HSCodeStartsWith)
		if prefix != "" && !hscode.IsDigits(prefix) {
			return nil, fmt.Errorf("%w: prefix %q must be digits", model.ErrInvalidCodeFormat, *filter.HSCodeStartsWith)
		}
	}

	lines := store.Lines(dest, prefix)
	codes := make([]model.HSCode, len(lines))
	for i, rec := range lines {
		codes[i] = model.HSCode{
			HSCode:      rec.Code,
			Precision:   rec.Precision,
			DutyRate:    rec.DutyRate,
			Description: rec.Description,
		}
	}

	page := utils.Paginate(codes, filter.Offset, filter.Limit)
	return &model.HSCodeListResult{
		TotalCount: page.TotalCount,
		HSCodes:    page.Items,
		Offset:     page.Offset,
		Limit:      page.Limit,
	}, nil
}

// Countries lists the tax profiles of every destination.
func (s *LookupService) Countries(ctx context.Context) ([]model.CountryTaxProfile, error) {
	store, err := s.store(ctx)
	if err != nil {
		return nil, err
	}
	return store.Countries(), nil
}

// Metadata describes the loaded dataset.
func (s *LookupService) Metadata(ctx context.Context) (reference.Metadata, error) {
	store, err := s.store(ctx)
	if err != nil {
		return reference.Metadata{}, err
	}
	return store.Metadata(), nil
}

func normalizeCountry(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
