package ports

import (
	"context"

	"dronedelivery/internal/core/domain/model/delivery"
	"dronedelivery/internal/core/domain/model/kernel"
)

// AllocationPassRepository defines the persistence contract for allocation pass summaries.
type AllocationPassRepository interface {
	// Add persists a new pass summary.
	Add(ctx context.Context, pass delivery.AllocationPass) error

	// Get retrieves a pass by identifier.
	// Returns errs.ObjectNotFoundError when nothing is stored under id.
	Get(ctx context.Context, id kernel.UUID) (delivery.AllocationPass, error)
}
