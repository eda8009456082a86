package order

import (
	"time"

	"dronedelivery/internal/core/domain/model/kernel"
)

// Snapshot is a read-only copy of an Order for reports and the HTTP boundary.
type Snapshot struct {
	ID                       string       `json:"id"`
	Destination              kernel.Point `json:"destination"`
	Weight                   float64      `json:"weight"`
	Priority                 string       `json:"priority"`
	Status                   string       `json:"status"`
	Allocated                bool         `json:"allocated"`
	VehicleID                string       `json:"vehicleId,omitempty"`
	ArrivedAt                time.Time    `json:"arrivedAt"`
	AllocatedAt              *time.Time   `json:"allocatedAt,omitempty"`
	DeliveredAt              *time.Time   `json:"deliveredAt,omitempty"`
	EstimatedDeliveryMinutes *float64     `json:"estimatedDeliveryMinutes,omitempty"`
	WaitMinutes              float64      `json:"waitMinutes"`
}

// Snapshot copies the order state as of now.
func (o *Order) Snapshot(now time.Time) Snapshot {
	s := Snapshot{
		ID:          o.id,
		Destination: o.destination,
		Weight:      o.weight,
		Priority:    o.priority.String(),
		Status:      o.status.String(),
		Allocated:   o.IsAllocated(),
		VehicleID:   o.vehicleID,
		ArrivedAt:   o.arrivedAt,
		WaitMinutes: o.WaitMinutes(now),
	}

	if !o.allocatedAt.IsZero() {
		at := o.allocatedAt
		s.AllocatedAt = &at
	}
	if !o.deliveredAt.IsZero() {
		at := o.deliveredAt
		s.DeliveredAt = &at
	}
	if o.hasEstimate {
		minutes := o.estimatedMinutes
		s.EstimatedDeliveryMinutes = &minutes
	}

	return s
}

// Snapshots copies every order in list order.
func Snapshots(orders []*Order, now time.Time) []Snapshot {
	out := make([]Snapshot, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.Snapshot(now))
	}
	return out
}
