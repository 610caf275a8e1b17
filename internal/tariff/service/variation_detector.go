package service

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/OpenNSW/tariff/internal/tariff/hscode"
	"github.com/OpenNSW/tariff/internal/tariff/model"
	"github.com/OpenNSW/tariff/internal/tariff/reference"
)

// VariationDetector reports whether the national lines under an HS6 code disagree on the duty rate.
type VariationDetector struct{}

func NewVariationDetector() *VariationDetector {
	return &VariationDetector{}
}

// Detect builds the variation report for dest and the subheading of hs6.
// rateUsed is the rate the resolver chose for the shipment; when nil the
// destination's HS6 rate is reported, or the lowest line rate when there is none.
func (d *VariationDetector) Detect(store *reference.Store, dest, hs6 string, rateUsed *decimal.Decimal) (*model.RateVariationReport, error) {
	if !store.HasCountry(dest) {
		return nil, fmt.Errorf("%w: destination %s", model.ErrCountryNotFound, dest)
	}
	code, err := hscode.Parse(hs6)
	if err != nil {
		return nil, err
	}
	if !code.HasSubheading() {
		return nil, fmt.Errorf("%w: %q has no 6-digit subheading", model.ErrInvalidCodeFormat, hs6)
	}

	lines := store.SubPositionsUnder(dest, code.Subheading)
	report := Summarize(dest, code.Subheading, lines)

	if rateUsed != nil {
		report.RateUsed = *rateUsed
	} else if rec, ok := store.HS6(dest, code.Subheading); ok {
		report.RateUsed = rec.DutyRate
	} else {
		report.RateUsed = report.MinRate
	}
	return &report, nil
}

// Summarize computes the min, max and variation flag over lines. The result
// does not depend on the order of lines. RateUsed is left for the caller.
func Summarize(dest, hs6 string, lines []model.TariffRecord) model.RateVariationReport {
	sorted := make([]model.TariffRecord, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Code < sorted[j].Code })

	report := model.RateVariationReport{
		HS6Code:      hs6,
		Destination:  dest,
		MinRate:      decimal.Zero,
		MaxRate:      decimal.Zero,
		RateUsed:     decimal.Zero,
		SubPositions: make([]model.SubPositionDetail, 0, len(sorted)),
	}
	for i, rec := range sorted {
		if i == 0 || rec.DutyRate.LessThan(report.MinRate) {
			report.MinRate = rec.DutyRate
		}
		if i == 0 || rec.DutyRate.GreaterThan(report.MaxRate) {
			report.MaxRate = rec.DutyRate
		}
		report.SubPositions = append(report.SubPositions, model.SubPositionDetail{
			Code:        rec.Code,
			Rate:        rec.DutyRate,
			Description: rec.Description,
		})
	}
	// zero tolerance: any difference between two lines counts
	report.HasVariation = len(sorted) > 1 && report.MaxRate.Sub(report.MinRate).IsPositive()
	return report
}
