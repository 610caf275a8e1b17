package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/OpenNSW/tariff/internal/tariff/model"
	"github.com/OpenNSW/tariff/utils"
)

// CalculationRecordService stores and retrieves calculation snapshots.
type CalculationRecordService struct {
	db *gorm.DB
}

// NewCalculationRecordService creates a new instance of CalculationRecordService.
func NewCalculationRecordService(db *gorm.DB) *CalculationRecordService {
	return &CalculationRecordService{db: db}
}

// Save stores result under its correlation id.
func (s *CalculationRecordService) Save(ctx context.Context, result *model.TariffCalculationResult) error {
	if result == nil {
		return fmt.Errorf("calculation result cannot be nil")
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal calculation result: %w", err)
	}

	record := &model.CalculationRecord{
		BaseModel:          model.BaseModel{ID: result.ID},
		OriginCountry:      result.OriginCountry,
		DestinationCountry: result.DestinationCountry,
		ProductCode:        result.ProductCode,
		DeclaredValue:      result.DeclaredValue,
		NormalTotal:        result.Normal.TotalCost,
		PreferentialTotal:  result.Preferential.TotalCost,
		Savings:            result.Savings,
		TariffPrecision:    result.TariffPrecision,
		ConfidenceLevel:    result.ConfidenceLevel,
		DatasetVersion:     result.DatasetVersion,
		JournalDigest:      result.JournalDigest,
		Result:             payload,
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create calculation record: %w", err)
	}
	return nil
}

// GetByID retrieves a stored calculation by its correlation id.
func (s *CalculationRecordService) GetByID(ctx context.Context, id uuid.UUID) (*model.CalculationRecord, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: calculation ID cannot be nil", model.ErrInvalidRequest)
	}

	var record model.CalculationRecord
	result := s.db.WithContext(ctx).First(&record, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", model.ErrCalculationNotFound, id)
		}
		return nil, fmt.Errorf("failed to retrieve calculation: %w", result.Error)
	}
	return &record, nil
}

// GetResult decodes the full result stored for id.
func (s *CalculationRecordService) GetResult(ctx context.Context, id uuid.UUID) (*model.TariffCalculationResult, error) {
	record, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	var result model.TariffCalculationResult
	if err := json.Unmarshal(record.Result, &result); err != nil {
		return nil, fmt.Errorf("failed to decode stored calculation %s: %w", id, err)
	}
	return &result, nil
}

// List returns stored calculations, newest first.
func (s *CalculationRecordService) List(ctx context.Context, filter model.CalculationFilter) (*model.CalculationListResult, error) {
	dest := ""
	if filter.DestinationCountry != nil {
		dest = normalizeCountry(*filter.DestinationCountry)
	}
	filtered := func() *gorm.DB {
		query := s.db.WithContext(ctx).Model(&model.CalculationRecord{})
		if dest != "" {
			query = query.Where("destination_country = ?", dest)
		}
		return query
	}

	var totalCount int64
	if err := filtered().Count(&totalCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count calculations: %w", err)
	}

	offset, limit := utils.GetPaginationParams(filter.Offset, filter.Limit)

	var records []model.CalculationRecord
	if err := filtered().Order("created_at DESC").Offset(offset).Limit(limit).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve calculations: %w", err)
	}
	if records == nil {
		records = []model.CalculationRecord{}
	}

	return &model.CalculationListResult{
		TotalCount:   totalCount,
		Calculations: records,
		Offset:       offset,
		Limit:        limit,
	}, nil
}
