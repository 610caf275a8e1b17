package service

import (
	"fmt"

	"github.com/OpenNSW/tariff/internal/tariff/hscode"
	"github.com/OpenNSW/tariff/internal/tariff/model"
	"github.com/OpenNSW/tariff/internal/tariff/reference"
)

// RateStrategy looks for a duty rate at one level of the schedule.
type RateStrategy struct {
	Precision model.Precision
	Match     func(store *reference.Store, dest string, code hscode.ProductCode) (model.TariffRecord, bool)
}

// DefaultRateStrategies is the precedence used by NewRateResolver, most
// specific first.
var DefaultRateStrategies = []RateStrategy{
	{
		Precision: model.PrecisionSubPosition,
		Match: func(store *reference.Store, dest string, code hscode.ProductCode) (model.TariffRecord, bool) {
			if !code.HasSubPosition() {
				return model.TariffRecord{}, false
			}
			return store.SubPosition(dest, code.SubPosition)
		},
	},
	{
		Precision: model.PrecisionHS6Country,
		Match: func(store *reference.Store, dest string, code hscode.ProductCode) (model.TariffRecord, bool) {
			if !code.HasSubheading() {
				return model.TariffRecord{}, false
			}
			return store.HS6(dest, code.Subheading)
		},
	},
	{
		Precision: model.PrecisionChapter,
		Match: func(store *reference.Store, dest string, code hscode.ProductCode) (model.TariffRecord, bool) {
			return store.Chapter(dest, code.Chapter)
		},
	},
}

// RateResolver finds the most specific duty rate a destination publishes for a code.
type RateResolver struct {
	strategies []RateStrategy
}

func NewRateResolver() *RateResolver {
	return &RateResolver{strategies: DefaultRateStrategies}
}

// Order lists the precision of each strategy in the order they are tried.
func (r *RateResolver) Order() []model.Precision {
	out := make([]model.Precision, len(r.strategies))
	for i, s := range r.strategies {
		out[i] = s.Precision
	}
	return out
}

// Resolve runs the strategies in order and returns the first match. An
// unknown destination fails before any strategy runs; no match at all is
// model.ErrRateNotFound, never an implicit zero rate.
func (r *RateResolver) Resolve(store *reference.Store, dest string, code hscode.ProductCode) (*model.RateResolution, error) {
	if !store.HasCountry(dest) {
		return nil, fmt.Errorf("%w: destination %s", model.ErrCountryNotFound, dest)
	}

	for _, s := range r.strategies {
		rec, ok := s.Match(store, dest, code)
		if !ok {
			continue
		}
		res := &model.RateResolution{
			Destination: dest,
			Code:        code.Digits,
			Rate:        rec.DutyRate,
			Precision:   s.Precision,
			MatchedCode: rec.Code,
			Description: rec.Description,
		}
		if s.Precision == model.PrecisionSubPosition {
			sub := rec.Code
			res.SubPositionUsed = &sub
		}
		return res, nil
	}
	return nil, fmt.Errorf("%w: no rate for %s in %s at any level", model.ErrRateNotFound, code.Digits, dest)
}

// ResolveCode normalizes raw before resolving it.
func (r *RateResolver) ResolveCode(store *reference.Store, dest, raw string) (*model.RateResolution, error) {
	code, err := hscode.Parse(raw)
	if err != nil {
		return nil, err
	}
	return r.Resolve(store, dest, code)
}
