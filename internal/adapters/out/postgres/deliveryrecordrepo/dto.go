// Package deliveryrecordrepo persists delivery records: one row per order
// handed over by a vehicle.
package deliveryrecordrepo

import (
	"time"

	"dronedelivery/internal/core/domain/model/delivery"
	"dronedelivery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DeliveryRecordDTO is the database row of a delivery record.
type DeliveryRecordDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID         string    `gorm:"index;not null"`
	VehicleID       string    `gorm:"index;not null"`
	WaitMinutes     float64
	DeliveredAt     time.Time `gorm:"index"`
	SimulatedMinute float64
}

// TableName overrides GORM's pluralisation.
func (DeliveryRecordDTO) TableName() string {
	return "delivery_records"
}

func fromDomain(r delivery.Record) DeliveryRecordDTO {
	return DeliveryRecordDTO{
		ID:              r.ID().Bytes(),
		OrderID:         r.OrderID(),
		VehicleID:       r.VehicleID(),
		WaitMinutes:     r.WaitMinutes(),
		DeliveredAt:     r.DeliveredAt().UTC(),
		SimulatedMinute: r.SimulatedMinute(),
	}
}

func toDomain(dto DeliveryRecordDTO) (delivery.Record, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return delivery.Record{}, err
	}
	return delivery.RestoreRecord(id, dto.OrderID, dto.VehicleID, dto.WaitMinutes, dto.DeliveredAt, dto.SimulatedMinute)
}
