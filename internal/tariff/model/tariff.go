package model

import "github.com/shopspring/decimal"

// Precision is the level of the reference hierarchy a duty rate was resolved at.
type Precision string

const (
	PrecisionChapter     Precision = "chapter"      // 2-digit chapter default for the destination
	PrecisionHS6Country  Precision = "hs6_country"  // 6-digit subheading rate for the destination
	PrecisionSubPosition Precision = "sub_position" // 8 to 12 digit national tariff line
)

// TariffRecord is one duty rate of a destination's schedule.
type TariffRecord struct {
	Code        string          `json:"code"`
	Precision   Precision       `json:"precision"`
	DutyRate    decimal.Decimal `json:"duty_rate"` // fraction, 0.15 = 15%
	Description string          `json:"description,omitempty"`
}

// RateResolution is the outcome of resolving a product code against a destination schedule.
type RateResolution struct {
	Destination     string          `json:"destination"`
	Code            string          `json:"code"`
	Rate            decimal.Decimal `json:"rate"`
	Precision       Precision       `json:"precision"`
	MatchedCode     string          `json:"matched_code"`
	SubPositionUsed *string         `json:"sub_position_used,omitempty"`
	Description     string          `json:"description,omitempty"`
}

// SubPositionDetail describes one national line under an HS6 code.
type SubPositionDetail struct {
	Code        string          `json:"code"`
	Rate        decimal.Decimal `json:"rate"`
	Description string          `json:"description,omitempty"`
}

// RateVariationReport summarises the sub-positions known under one HS6 code.
type RateVariationReport struct {
	HS6Code      string              `json:"hs6_code"`
	Destination  string              `json:"destination"`
	HasVariation bool                `json:"has_variation"`
	MinRate      decimal.Decimal     `json:"min_rate"`
	MaxRate      decimal.Decimal     `json:"max_rate"`
	RateUsed     decimal.Decimal     `json:"rate_used"`
	SubPositions []SubPositionDetail `json:"sub_positions"`
}

// RateWarning is attached to a calculation when sub-position rates disagree.
type RateWarning struct {
	MinRate          decimal.Decimal `json:"min_rate"`
	MaxRate          decimal.Decimal `json:"max_rate"`
	MessageEN        string          `json:"message_en"`
	MessageFR        string          `json:"message_fr"`
	RecommendationEN string          `json:"recommendation_en"`
	RecommendationFR string          `json:"recommendation_fr"`
}
