package simulator

import (
	"context"
	"time"

	"dronedelivery/internal/core/domain/model/vehicle"
)

// Channel names a notification stream.
type Channel string

const (
	// StateChanged fires after every vehicle state transition.
	StateChanged Channel = "state-changed"
	// DeliveryComplete fires after an order is handed over.
	DeliveryComplete Channel = "delivery-complete"
	// LowBattery fires when a vehicle lands below the recharge threshold or
	// drops below the critical threshold while flying or returning, once per
	// airborne stay.
	LowBattery Channel = "low-battery"
)

// Channels lists every channel in a stable order.
func Channels() []Channel {
	return []Channel{StateChanged, DeliveryComplete, LowBattery}
}

// Notification is the payload delivered to observers.
type Notification struct {
	Channel         Channel       `json:"channel"`
	VehicleID       string        `json:"vehicleId"`
	State           vehicle.State `json:"state"`
	OrderID         string        `json:"orderId,omitempty"`
	Battery         float64       `json:"battery"`
	SimulatedMinute float64       `json:"simulatedMinute"`
	At              time.Time     `json:"at"`
}

// Observer handles a notification. A returned error or a panic is logged and
// does not stop the remaining observers or the tick.
type Observer func(ctx context.Context, n Notification) error

// SubscriptionID identifies a registered observer for Off.
type SubscriptionID uint64

type subscription struct {
	id       SubscriptionID
	observer Observer
}
