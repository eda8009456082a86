package ports

import (
	"context"

	"dronedelivery/internal/core/domain/model/delivery"
)

// DeliveryJournal receives the facts the fleet controller produces.
// The controller keeps its own in-memory history; the journal is an
// additional durable copy, and its failures are logged rather than returned.
type DeliveryJournal interface {
	RecordDelivery(ctx context.Context, record delivery.Record) error
	RecordAllocationPass(ctx context.Context, pass delivery.AllocationPass) error
}
