package allocationpassrepo

import (
	"context"
	"errors"

	"dronedelivery/internal/core/domain/model/delivery"
	"dronedelivery/internal/core/domain/model/kernel"
	"dronedelivery/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormAllocationPassRepository implements ports.AllocationPassRepository using GORM.
type GormAllocationPassRepository struct {
	db *gorm.DB
}

// NewGormAllocationPassRepository creates a repository on db, which may be a transaction.
func NewGormAllocationPassRepository(db *gorm.DB) *GormAllocationPassRepository {
	return &GormAllocationPassRepository{db: db}
}

// Add inserts a pass summary.
func (r *GormAllocationPassRepository) Add(ctx context.Context, pass delivery.AllocationPass) error {
	if err := pass.Validate(); err != nil {
		return err
	}

	dto := fromDomain(pass)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Get retrieves a pass summary by ID.
func (r *GormAllocationPassRepository) Get(ctx context.Context, id kernel.UUID) (delivery.AllocationPass, error) {
	if err := id.Validate(); err != nil {
		return delivery.AllocationPass{}, err
	}

	var dto AllocationPassDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return delivery.AllocationPass{}, errs.NewObjectNotFoundError("allocationPass", id.String())
		}
		return delivery.AllocationPass{}, err
	}

	return toDomain(dto)
}
