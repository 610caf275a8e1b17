package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Regime is the tariff treatment a cost breakdown was computed under.
type Regime string

const (
	RegimeNormal       Regime = "normal"       // MFN / national schedule
	RegimePreferential Regime = "preferential" // free-trade area treatment
)

// Confidence grades how specific the reference data behind a result was.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// CalculationRequest is the input of a comparative duty calculation.
type CalculationRequest struct {
	OriginCountry      string           `json:"origin_country"`
	DestinationCountry string           `json:"destination_country"`
	ProductCode        string           `json:"product_code"`
	DeclaredValue      *decimal.Decimal `json:"declared_value"` // CIF value
	// Qualifies is supplied by the origin-qualification collaborator: the shipment
	// carries a valid certificate and satisfies the applicable rule.
	Qualifies bool `json:"qualifies"`
}

// Normalize upper-cases and trims the country codes.
func (r CalculationRequest) Normalize() CalculationRequest {
	r.OriginCountry = strings.ToUpper(strings.TrimSpace(r.OriginCountry))
	r.DestinationCountry = strings.ToUpper(strings.TrimSpace(r.DestinationCountry))
	r.ProductCode = strings.TrimSpace(r.ProductCode)
	return r
}

// Validate checks that all required fields are present and the declared value is non-negative.
func (r CalculationRequest) Validate() error {
	if r.OriginCountry == "" {
		return fmt.Errorf("%w: origin_country is required", ErrInvalidRequest)
	}
	if r.DestinationCountry == "" {
		return fmt.Errorf("%w: destination_country is required", ErrInvalidRequest)
	}
	if r.ProductCode == "" {
		return fmt.Errorf("%w: product_code is required", ErrInvalidRequest)
	}
	if r.DeclaredValue == nil {
		return fmt.Errorf("%w: declared_value is required", ErrInvalidRequest)
	}
	if r.DeclaredValue.IsNegative() {
		return fmt.Errorf("%w: declared_value must be non-negative", ErrInvalidRequest)
	}
	return nil
}

// JournalEntry records one line of the tax stack with the inputs it was computed from.
type JournalEntry struct {
	Step    int                        `json:"step"`
	Item    string                     `json:"item"`
	Formula string                     `json:"formula"`
	Inputs  map[string]decimal.Decimal `json:"inputs"`
	Amount  decimal.Decimal            `json:"amount"`
	// Additive entries are the components whose ordered sum is the total cost.
	Additive bool `json:"additive"`
}

// Journal is the ordered audit trail of one regime's computation.
type Journal struct {
	Regime  Regime         `json:"regime"`
	Entries []JournalEntry `json:"entries"`
}

// Append adds an entry, numbering it after the existing ones.
func (j *Journal) Append(item, formula string, inputs map[string]decimal.Decimal, amount decimal.Decimal, additive bool) {
	j.Entries = append(j.Entries, JournalEntry{
		Step:     len(j.Entries) + 1,
		Item:     item,
		Formula:  formula,
		Inputs:   inputs,
		Amount:   amount,
		Additive: additive,
	})
}

// Reconstruct sums the additive entries in order, reproducing the total cost.
func (j Journal) Reconstruct() decimal.Decimal {
	total := decimal.Zero
	for _, e := range j.Entries {
		if e.Additive {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// CostBreakdown is the itemised landed cost for one regime.
type CostBreakdown struct {
	Regime         Regime           `json:"regime"`
	DeclaredValue  decimal.Decimal  `json:"declared_value"`
	DutyRate       decimal.Decimal  `json:"duty_rate"`
	Duty           decimal.Decimal  `json:"duty"`
	BaseForVAT     decimal.Decimal  `json:"base_for_vat"`
	VAT            decimal.Decimal  `json:"vat"`
	StatisticalFee decimal.Decimal  `json:"statistical_fee"`
	CommunityLevy  decimal.Decimal  `json:"community_levy"`
	BlocLevy       decimal.Decimal  `json:"bloc_levy"`
	OtherTaxes     decimal.Decimal  `json:"other_taxes"`
	TotalCost      decimal.Decimal  `json:"total_cost"`
	Display        DisplayBreakdown `json:"display"`
}

// DisplayBreakdown carries the breakdown rounded to cents for presentation only.
type DisplayBreakdown struct {
	Duty       float64 `json:"duty"`
	VAT        float64 `json:"vat"`
	OtherTaxes float64 `json:"other_taxes"`
	TotalCost  float64 `json:"total_cost"`
}

// Rounded derives the presentation values of b.
func (b CostBreakdown) Rounded() DisplayBreakdown {
	return DisplayBreakdown{
		Duty:       b.Duty.Round(2).InexactFloat64(),
		VAT:        b.VAT.Round(2).InexactFloat64(),
		OtherTaxes: b.OtherTaxes.Round(2).InexactFloat64(),
		TotalCost:  b.TotalCost.Round(2).InexactFloat64(),
	}
}

// TariffCalculationResult is the complete outcome of a comparative calculation.
// It is created fresh per request and not modified after it is returned.
type TariffCalculationResult struct {
	ID                 uuid.UUID       `json:"id"` // correlation id
	OriginCountry      string          `json:"origin_country"`
	DestinationCountry string          `json:"destination_country"`
	InputCode          string          `json:"input_code"`
	ProductCode        string          `json:"product_code"`
	DeclaredValue      decimal.Decimal `json:"declared_value"`
	Qualifies          bool            `json:"qualifies"`

	NormalTariffRate       decimal.Decimal `json:"normal_tariff_rate"`
	PreferentialTariffRate decimal.Decimal `json:"preferential_tariff_rate"`
	TariffPrecision        Precision       `json:"tariff_precision"`
	MatchedCode            string          `json:"matched_code"`
	SubPositionUsed        *string         `json:"sub_position_used,omitempty"`

	Normal            CostBreakdown   `json:"normal"`
	Preferential      CostBreakdown   `json:"preferential"`
	Savings           decimal.Decimal `json:"savings"`
	SavingsPercentage decimal.Decimal `json:"savings_percentage"` // fraction of the normal total
	ConfidenceLevel   Confidence      `json:"confidence_level"`

	HasVaryingSubPositions bool                 `json:"has_varying_sub_positions"`
	RateVariation          *RateVariationReport `json:"rate_variation,omitempty"`
	RateWarning            *RateWarning         `json:"rate_warning,omitempty"`
	SubPositionsDetails    []SubPositionDetail  `json:"sub_positions_details,omitempty"`

	OriginRule          OriginRule `json:"origin_rule"`
	NormalJournal       Journal    `json:"normal_journal"`
	PreferentialJournal Journal    `json:"preferential_journal"`
	JournalDigest       string     `json:"journal_digest"`

	DatasetVersion string    `json:"dataset_version"`
	CalculatedAt   time.Time `json:"calculated_at"`
}
