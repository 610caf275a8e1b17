package model

import "github.com/shopspring/decimal"

// TaxProfileRecord is a destination row of the relational reference source.
type TaxProfileRecord struct {
	BaseModel
	Country        string          `gorm:"type:varchar(3);column:country;not null;uniqueIndex" json:"country"`
	Name           string          `gorm:"type:varchar(100);column:name;not null" json:"name"`
	Bloc           string          `gorm:"type:varchar(20);column:bloc" json:"bloc"`
	VATRate        decimal.Decimal `gorm:"type:decimal(8,6);column:vat_rate;not null" json:"vat_rate"`
	VATOnDuty      bool            `gorm:"column:vat_on_duty;not null" json:"vat_on_duty"`
	StatisticalFee decimal.Decimal `gorm:"type:decimal(8,6);column:statistical_fee;not null" json:"statistical_fee"`
	CommunityLevy  decimal.Decimal `gorm:"type:decimal(8,6);column:community_levy;not null" json:"community_levy"`
	BlocLevy       decimal.Decimal `gorm:"type:decimal(8,6);column:bloc_levy;not null" json:"bloc_levy"`
}

func (t *TaxProfileRecord) TableName() string {
	return "tax_profiles"
}

// TariffLineRecord is one duty rate of a destination schedule. Precision is
// implied by the code length; Regime separates preferential phase-down rates.
type TariffLineRecord struct {
	BaseModel
	Destination string          `gorm:"type:varchar(3);column:destination;not null;index:idx_tariff_line,unique" json:"destination"`
	Code        string          `gorm:"type:varchar(12);column:code;not null;index:idx_tariff_line,unique" json:"code"`
	Regime      Regime          `gorm:"type:varchar(20);column:regime;not null;default:normal;index:idx_tariff_line,unique" json:"regime"`
	DutyRate    decimal.Decimal `gorm:"type:decimal(8,6);column:duty_rate;not null" json:"duty_rate"`
	Description string          `gorm:"type:text;column:description" json:"description"`
}

func (t *TariffLineRecord) TableName() string {
	return "tariff_lines"
}

// OriginRuleRecord is a rule-of-origin row. Code is empty for the default rule.
type OriginRuleRecord struct {
	BaseModel
	Scope       RuleScope `gorm:"type:varchar(10);column:scope;not null" json:"scope"`
	Code        string    `gorm:"type:varchar(4);column:code" json:"code"`
	RuleCode    string    `gorm:"type:varchar(10);column:rule_code;not null" json:"rule_code"`
	Description string    `gorm:"type:text;column:description" json:"description"`
}

func (o *OriginRuleRecord) TableName() string {
	return "origin_rules"
}

// MemberStateRecord lists the free-trade area members accepted as origins.
type MemberStateRecord struct {
	BaseModel
	Country string `gorm:"type:varchar(3);column:country;not null;uniqueIndex" json:"country"`
	Name    string `gorm:"type:varchar(100);column:name" json:"name"`
}

func (m *MemberStateRecord) TableName() string {
	return "member_states"
}
