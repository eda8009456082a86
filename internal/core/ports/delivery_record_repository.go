// Package ports defines the contracts between the fleet core and its
// collaborators: persistence of the delivery journal, field validation and
// the periodic tick trigger that drives the simulator.
package ports

import (
	"context"

	"dronedelivery/internal/core/domain/model/delivery"
	"dronedelivery/internal/core/domain/model/kernel"
)

// DeliveryRecordRepository defines the persistence contract for delivery records.
// Records are append-only: there is no update.
type DeliveryRecordRepository interface {
	// Add persists a new record. The record must be valid and not already stored.
	Add(ctx context.Context, record delivery.Record) error

	// Get retrieves a record by identifier.
	// Returns errs.ObjectNotFoundError when nothing is stored under id.
	Get(ctx context.Context, id kernel.UUID) (delivery.Record, error)
}
