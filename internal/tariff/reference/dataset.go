package reference

import "github.com/shopspring/decimal"

// CurrentSchemaVersion is the bundle layout this build writes and reads natively.
const CurrentSchemaVersion = "1.2.0"

// Bundle is the serialized reference dataset. YAML bundles are converted to
// JSON before decoding so both formats share these tags.
type Bundle struct {
	SchemaVersion     string                  `json:"schema_version"`
	DatasetVersion    string                  `json:"dataset_version"`
	Description       string                  `json:"description,omitempty"`
	DefaultOriginRule *RuleEntry              `json:"default_origin_rule,omitempty"`
	Members           []string                `json:"members,omitempty"` // free-trade area states accepted as origins
	Countries         map[string]CountryEntry `json:"countries"`
	OriginRules       OriginRuleTables        `json:"origin_rules"`
}

// CountryEntry is one destination's schedule and tax profile.
type CountryEntry struct {
	Name         string               `json:"name"`
	Bloc         string               `json:"bloc,omitempty"`
	Tax          TaxEntry             `json:"tax"`
	Chapters     map[string]RateEntry `json:"chapters,omitempty"`
	HS6          map[string]RateEntry `json:"hs6,omitempty"`
	SubPositions map[string]RateEntry `json:"sub_positions,omitempty"`
	// Preferential holds free-trade area rates that are not zero, keyed by HS6.
	Preferential map[string]RateEntry `json:"preferential,omitempty"`
}

type TaxEntry struct {
	VATRate        decimal.Decimal `json:"vat_rate"`
	VATOnDuty      bool            `json:"vat_on_duty"`
	StatisticalFee decimal.Decimal `json:"statistical_fee"`
	CommunityLevy  decimal.Decimal `json:"community_levy"`
	BlocLevy       decimal.Decimal `json:"bloc_levy"`
}

type RateEntry struct {
	Rate        decimal.Decimal `json:"rate"`
	Description string          `json:"description,omitempty"`
}

type RuleEntry struct {
	Rule        string `json:"rule"`
	Description string `json:"description,omitempty"`
}

type OriginRuleTables struct {
	Headings map[string]RuleEntry `json:"headings,omitempty"`
	Chapters map[string]RuleEntry `json:"chapters,omitempty"`
}
