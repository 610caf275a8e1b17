package model

import (
	"time"

	"github.com/google/uuid"
)

// JournalDocument is the exported audit trail of one stored calculation.
type JournalDocument struct {
	CalculationID       uuid.UUID `json:"calculation_id"`
	OriginCountry       string    `json:"origin_country"`
	DestinationCountry  string    `json:"destination_country"`
	ProductCode         string    `json:"product_code"`
	DatasetVersion      string    `json:"dataset_version"`
	JournalDigest       string    `json:"journal_digest"`
	NormalJournal       Journal   `json:"normal_journal"`
	PreferentialJournal Journal   `json:"preferential_journal"`
	CalculatedAt        time.Time `json:"calculated_at"`
	ExportedAt          time.Time `json:"exported_at"`
}
