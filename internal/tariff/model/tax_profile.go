package model

import "github.com/shopspring/decimal"

// CountryTaxProfile holds the import taxes a destination levies on top of customs duty.
// Fields a country does not levy are zero.
type CountryTaxProfile struct {
	Country        string          `json:"country"`
	Name           string          `json:"name"`
	Bloc           string          `json:"bloc,omitempty"` // regional economic community, e.g. ECOWAS
	VATRate        decimal.Decimal `json:"vat_rate"`
	VATOnDuty      bool            `json:"vat_on_duty"`
	StatisticalFee decimal.Decimal `json:"statistical_fee"`
	CommunityLevy  decimal.Decimal `json:"community_levy"`
	BlocLevy       decimal.Decimal `json:"bloc_levy"`
}
