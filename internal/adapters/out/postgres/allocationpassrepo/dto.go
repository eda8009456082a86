// Package allocationpassrepo persists allocation pass summaries.
package allocationpassrepo

import (
	"time"

	"dronedelivery/internal/core/domain/model/delivery"
	"dronedelivery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// AllocationPassDTO is the database row of an allocation pass.
type AllocationPassDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	At          time.Time `gorm:"index"`
	Strategy    string    `gorm:"size:32;not null"`
	Trips       int
	Allocated   int
	Unallocated int
}

// TableName overrides GORM's pluralisation.
func (AllocationPassDTO) TableName() string {
	return "allocation_passes"
}

func fromDomain(p delivery.AllocationPass) AllocationPassDTO {
	return AllocationPassDTO{
		ID:          p.ID().Bytes(),
		At:          p.At().UTC(),
		Strategy:    string(p.Strategy()),
		Trips:       p.Trips(),
		Allocated:   p.Allocated(),
		Unallocated: p.Unallocated(),
	}
}

func toDomain(dto AllocationPassDTO) (delivery.AllocationPass, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return delivery.AllocationPass{}, err
	}
	return delivery.RestoreAllocationPass(
		id, dto.At, delivery.Strategy(dto.Strategy), dto.Trips, dto.Allocated, dto.Unallocated,
	)
}
