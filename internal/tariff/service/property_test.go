package service

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"github.com/OpenNSW/tariff/internal/tariff/model"
)

func basisPoints(bp int) decimal.Decimal {
	return decimal.New(int64(bp), -4)
}

func cents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}

func TestSummarizeOrderIndependence(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("summary does not depend on line order", prop.ForAll(
		func(rates []int, seed int64) bool {
			lines := make([]model.TariffRecord, len(rates))
			for i, r := range rates {
				lines[i] = model.TariffRecord{
					Code:      fmt.Sprintf("100630%04d", i),
					Precision: model.PrecisionSubPosition,
					DutyRate:  basisPoints(r),
				}
			}
			shuffled := make([]model.TariffRecord, len(lines))
			copy(shuffled, lines)
			rng := rand.New(rand.NewSource(seed))
			rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

			a := Summarize("NG", "100630", lines)
			b := Summarize("NG", "100630", shuffled)

			if a.HasVariation != b.HasVariation || !a.MinRate.Equal(b.MinRate) || !a.MaxRate.Equal(b.MaxRate) {
				return false
			}
			if len(a.SubPositions) != len(b.SubPositions) {
				return false
			}
			for i := range a.SubPositions {
				if a.SubPositions[i].Code != b.SubPositions[i].Code {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 10000)),
		gen.Int64(),
	))

	properties.Property("variation means at least two distinct rates", prop.ForAll(
		func(rates []int) bool {
			lines := make([]model.TariffRecord, len(rates))
			distinct := map[int]struct{}{}
			for i, r := range rates {
				lines[i] = model.TariffRecord{Code: fmt.Sprintf("100630%04d", i), DutyRate: basisPoints(r)}
				distinct[r] = struct{}{}
			}
			return Summarize("NG", "100630", lines).HasVariation == (len(distinct) > 1)
		},
		gen.SliceOf(gen.IntRange(0, 50)),
	))

	properties.TestingRun(t)
}

func TestTaxStackProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	profile := func(vat, stat, community, bloc int, onDuty bool) model.CountryTaxProfile {
		return model.CountryTaxProfile{
			Country:        "TT",
			VATRate:        basisPoints(vat),
			VATOnDuty:      onDuty,
			StatisticalFee: basisPoints(stat),
			CommunityLevy:  basisPoints(community),
			BlocLevy:       basisPoints(bloc),
		}
	}

	properties.Property("additive journal entries sum to the total", prop.ForAll(
		func(value int64, duty, vat, stat, bloc int, onDuty bool) bool {
			b, journal := ComputeTaxStack(model.RegimeNormal, cents(value), basisPoints(duty), profile(vat, stat, 0, bloc, onDuty))
			return journal.Reconstruct().Equal(b.TotalCost)
		},
		gen.Int64Range(0, 100_000_000_00),
		gen.IntRange(0, 10000),
		gen.IntRange(0, 3000),
		gen.IntRange(0, 500),
		gen.IntRange(0, 500),
		gen.Bool(),
	))

	properties.Property("a lower duty rate never costs more", prop.ForAll(
		func(value int64, normal, discount, vat int, onDuty bool) bool {
			pref := normal - discount
			if pref < 0 {
				pref = 0
			}
			p := profile(vat, 100, 50, 50, onDuty)
			n, _ := ComputeTaxStack(model.RegimeNormal, cents(value), basisPoints(normal), p)
			f, _ := ComputeTaxStack(model.RegimePreferential, cents(value), basisPoints(pref), p)
			return !n.TotalCost.Sub(f.TotalCost).IsNegative()
		},
		gen.Int64Range(0, 100_000_000_00),
		gen.IntRange(0, 10000),
		gen.IntRange(0, 10000),
		gen.IntRange(0, 3000),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
