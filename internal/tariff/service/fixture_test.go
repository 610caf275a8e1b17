package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/OpenNSW/tariff/internal/tariff/model"
	"github.com/OpenNSW/tariff/internal/tariff/reference"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func rate(s, desc string) reference.RateEntry {
	return reference.RateEntry{Rate: d(s), Description: desc}
}

// testBundle is a small dataset shaped around the worked examples:
// TT carries a flat 15% line with 18% VAT on duty, NG carries the rice and
// medicine sub-positions.
func testBundle() *reference.Bundle {
	return &reference.Bundle{
		SchemaVersion:     reference.CurrentSchemaVersion,
		DatasetVersion:    "test-1",
		DefaultOriginRule: &reference.RuleEntry{Rule: "VA_40", Description: "40% regional value content"},
		Members:           []string{"ML", "BF"},
		Countries: map[string]reference.CountryEntry{
			"TT": {
				Name: "Testland",
				Tax:  reference.TaxEntry{VATRate: d("0.18"), VATOnDuty: true},
				Chapters: map[string]reference.RateEntry{
					"01": rate("0.20", "Live animals"),
				},
				HS6: map[string]reference.RateEntry{
					"010121": rate("0.15", "Pure-bred horses"),
				},
				Preferential: map[string]reference.RateEntry{
					"010121": rate("0.05", "Phase-down"),
				},
			},
			"NG": {
				Name: "Nigeria",
				Bloc: "ECOWAS",
				Tax:  reference.TaxEntry{VATRate: d("0.075"), VATOnDuty: true, BlocLevy: d("0.005")},
				Chapters: map[string]reference.RateEntry{
					"10": rate("0.05", "Cereals"),
					"30": rate("0.05", "Pharmaceutical products"),
					"61": rate("0.20", "Knitted apparel"),
				},
				HS6: map[string]reference.RateEntry{
					"100630": rate("0.10", "Semi-milled or wholly milled rice"),
					"300490": rate("0", "Other medicaments"),
				},
				SubPositions: map[string]reference.RateEntry{
					"1006301000": rate("0.50", "Parboiled rice"),
					"1006302000": rate("0.60", "Long grain rice"),
					"1006309000": rate("0.70", "Other rice"),
					"3004901000": rate("0", "Antimalarials"),
					"3004909000": rate("0", "Other"),
				},
			},
		},
		OriginRules: reference.OriginRuleTables{
			Headings: map[string]reference.RuleEntry{
				"1001": {Rule: "WO", Description: "Wheat"},
				"1006": {Rule: "WO", Description: "Rice"},
				"8703": {Rule: "YTB", Description: "Motor cars"},
			},
			Chapters: map[string]reference.RuleEntry{
				"01": {Rule: "WO"},
				"61": {Rule: "YARN", Description: "Yarn forward"},
			},
		},
	}
}

func newTestStore(t *testing.T) *reference.Store {
	t.Helper()
	store, err := reference.Build(testBundle(), "test")
	require.NoError(t, err)
	return store
}

func newTestHolder(t *testing.T) *reference.Holder {
	t.Helper()
	return reference.NewStaticHolder(newTestStore(t))
}

func calcRequest(origin, dest, code, value string, qualifies bool) model.CalculationRequest {
	return model.CalculationRequest{
		OriginCountry:      origin,
		DestinationCountry: dest,
		ProductCode:        code,
		DeclaredValue:      dp(value),
		Qualifies:          qualifies,
	}
}
