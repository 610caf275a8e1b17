package service

import (
	"github.com/shopspring/decimal"

	"github.com/OpenNSW/tariff/internal/tariff/model"
)

// Journal item names, in the order they are recorded.
const (
	ItemDeclaredValue  = "declared_value"
	ItemDuty           = "duty"
	ItemBaseForVAT     = "base_for_vat"
	ItemVAT            = "vat"
	ItemStatisticalFee = "statistical_fee"
	ItemCommunityLevy  = "community_levy"
	ItemBlocLevy       = "bloc_levy"
	ItemOtherTaxes     = "other_taxes"
	ItemTotal          = "total"
)

// ComputeTaxStack itemises the landed cost of value under one regime and
// journals every step with its inputs. Arithmetic is exact; the additive
// journal entries sum to TotalCost.
func ComputeTaxStack(regime model.Regime, value, dutyRate decimal.Decimal, profile model.CountryTaxProfile) (model.CostBreakdown, model.Journal) {
	journal := model.Journal{Regime: regime}

	journal.Append(ItemDeclaredValue, "declared_value",
		map[string]decimal.Decimal{"declared_value": value}, value, true)

	duty := value.Mul(dutyRate)
	journal.Append(ItemDuty, "declared_value * duty_rate",
		map[string]decimal.Decimal{"declared_value": value, "duty_rate": dutyRate}, duty, true)

	base := value
	baseFormula := "declared_value"
	if profile.VATOnDuty {
		base = value.Add(duty)
		baseFormula = "declared_value + duty"
	}
	journal.Append(ItemBaseForVAT, baseFormula,
		map[string]decimal.Decimal{"declared_value": value, "duty": duty}, base, false)

	vat := base.Mul(profile.VATRate)
	journal.Append(ItemVAT, "base_for_vat * vat_rate",
		map[string]decimal.Decimal{"base_for_vat": base, "vat_rate": profile.VATRate}, vat, true)

	statFee := value.Mul(profile.StatisticalFee)
	journal.Append(ItemStatisticalFee, "declared_value * statistical_fee_rate",
		map[string]decimal.Decimal{"declared_value": value, "statistical_fee_rate": profile.StatisticalFee}, statFee, true)

	communityLevy := value.Mul(profile.CommunityLevy)
	journal.Append(ItemCommunityLevy, "declared_value * community_levy_rate",
		map[string]decimal.Decimal{"declared_value": value, "community_levy_rate": profile.CommunityLevy}, communityLevy, true)

	blocLevy := value.Mul(profile.BlocLevy)
	journal.Append(ItemBlocLevy, "declared_value * bloc_levy_rate",
		map[string]decimal.Decimal{"declared_value": value, "bloc_levy_rate": profile.BlocLevy}, blocLevy, true)

	other := statFee.Add(communityLevy).Add(blocLevy)
	journal.Append(ItemOtherTaxes, "statistical_fee + community_levy + bloc_levy",
		map[string]decimal.Decimal{"statistical_fee": statFee, "community_levy": communityLevy, "bloc_levy": blocLevy}, other, false)

	total := value.Add(duty).Add(vat).Add(other)
	journal.Append(ItemTotal, "declared_value + duty + vat + other_taxes",
		map[string]decimal.Decimal{"declared_value": value, "duty": duty, "vat": vat, "other_taxes": other}, total, false)

	b := model.CostBreakdown{
		Regime:         regime,
		DeclaredValue:  value,
		DutyRate:       dutyRate,
		Duty:           duty,
		BaseForVAT:     base,
		VAT:            vat,
		StatisticalFee: statFee,
		CommunityLevy:  communityLevy,
		BlocLevy:       blocLevy,
		OtherTaxes:     other,
		TotalCost:      total,
	}
	b.Display = b.Rounded()
	return b, journal
}
