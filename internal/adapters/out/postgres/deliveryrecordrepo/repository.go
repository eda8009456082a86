package deliveryrecordrepo

import (
	"context"
	"errors"

	"dronedelivery/internal/core/domain/model/delivery"
	"dronedelivery/internal/core/domain/model/kernel"
	"dronedelivery/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormDeliveryRecordRepository implements ports.DeliveryRecordRepository using GORM.
type GormDeliveryRecordRepository struct {
	db *gorm.DB
}

// NewGormDeliveryRecordRepository creates a repository on db, which may be a transaction.
func NewGormDeliveryRecordRepository(db *gorm.DB) *GormDeliveryRecordRepository {
	return &GormDeliveryRecordRepository{db: db}
}

// Add inserts a record.
func (r *GormDeliveryRecordRepository) Add(ctx context.Context, record delivery.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := fromDomain(record)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Get retrieves a record by ID.
func (r *GormDeliveryRecordRepository) Get(ctx context.Context, id kernel.UUID) (delivery.Record, error) {
	if err := id.Validate(); err != nil {
		return delivery.Record{}, err
	}

	var dto DeliveryRecordDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return delivery.Record{}, errs.NewObjectNotFoundError("deliveryRecord", id.String())
		}
		return delivery.Record{}, err
	}

	return toDomain(dto)
}
