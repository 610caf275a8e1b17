package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/OpenNSW/tariff/internal/storage"
	"github.com/OpenNSW/tariff/internal/tariff/model"
)

// JournalPrefix is the storage prefix every exported journal document is written under.
const JournalPrefix = "journals"

// JournalExporter writes the journals of stored calculations to object storage.
type JournalExporter struct {
	records *CalculationRecordService
	exports *storage.ExportService
	now     func() time.Time
}

func NewJournalExporter(records *CalculationRecordService, exports *storage.ExportService) *JournalExporter {
	return &JournalExporter{
		records: records,
		exports: exports,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Export stores the journal document of calculation id under
// journals/<yyyy>/<mm>/<id>.json and returns where it can be fetched.
func (e *JournalExporter) Export(ctx context.Context, id uuid.UUID) (*storage.StoredObject, error) {
	result, err := e.records.GetResult(ctx, id)
	if err != nil {
		return nil, err
	}

	now := e.now()
	doc := model.JournalDocument{
		CalculationID:       result.ID,
		OriginCountry:       result.OriginCountry,
		DestinationCountry:  result.DestinationCountry,
		ProductCode:         result.ProductCode,
		DatasetVersion:      result.DatasetVersion,
		JournalDigest:       result.JournalDigest,
		NormalJournal:       result.NormalJournal,
		PreferentialJournal: result.PreferentialJournal,
		CalculatedAt:        result.CalculatedAt,
		ExportedAt:          now,
	}
	return e.exports.ExportJSON(ctx, JournalPrefix+now.Format("/2006/01"), id.String(), doc)
}
