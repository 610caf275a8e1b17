package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CalculationRecord is the stored snapshot of a completed calculation, keyed by its correlation id.
type CalculationRecord struct {
	BaseModel
	OriginCountry      string          `gorm:"type:varchar(3);column:origin_country;not null" json:"origin_country"`
	DestinationCountry string          `gorm:"type:varchar(3);column:destination_country;not null;index" json:"destination_country"`
	ProductCode        string          `gorm:"type:varchar(12);column:product_code;not null" json:"product_code"`
	DeclaredValue      decimal.Decimal `gorm:"type:decimal(20,4);column:declared_value;not null" json:"declared_value"`
	NormalTotal        decimal.Decimal `gorm:"type:decimal(20,4);column:normal_total;not null" json:"normal_total"`
	PreferentialTotal  decimal.Decimal `gorm:"type:decimal(20,4);column:preferential_total;not null" json:"preferential_total"`
	Savings            decimal.Decimal `gorm:"type:decimal(20,4);column:savings;not null" json:"savings"`
	TariffPrecision    Precision       `gorm:"type:varchar(20);column:tariff_precision;not null" json:"tariff_precision"`
	ConfidenceLevel    Confidence      `gorm:"type:varchar(10);column:confidence_level;not null" json:"confidence_level"`
	DatasetVersion     string          `gorm:"type:varchar(50);column:dataset_version;not null" json:"dataset_version"`
	JournalDigest      string          `gorm:"type:varchar(64);column:journal_digest;not null" json:"journal_digest"`
	Result             json.RawMessage `gorm:"type:jsonb;column:result;serializer:json;not null" json:"result"` // full TariffCalculationResult
}

func (c *CalculationRecord) TableName() string {
	return "calculations"
}

// CalculationFilter is used when listing stored calculations.
type CalculationFilter struct {
	DestinationCountry *string `json:"destinationCountry,omitempty"`
	Offset             *int    `json:"offset,omitempty"`
	Limit              *int    `json:"limit,omitempty"`
}

// CalculationListResult is a page of stored calculations.
type CalculationListResult struct {
	TotalCount   int64               `json:"totalCount"`
	Calculations []CalculationRecord `json:"calculations"`
	Offset       int                 `json:"offset"`
	Limit        int                 `json:"limit"`
}
