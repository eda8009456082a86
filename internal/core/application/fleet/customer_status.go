package fleet

import (
	"fmt"
	"math"
	"time"

	"dronedelivery/internal/core/domain/model/order"
)

// Customer-facing status messages.
const (
	MessagePending         = "Order is waiting for a vehicle"
	MessageAllocated       = "Order allocated to a vehicle"
	MessageDelivered       = "Order delivered successfully"
	MessageReturnedToQueue = "Order returned to the queue"
)

const statePending = "pending"

// CustomerStatus is the customer-facing view of one order.
type CustomerStatus struct {
	OrderID         string    `json:"orderId"`
	Message         string    `json:"message"`
	FriendlyMessage string    `json:"friendlyMessage,omitempty"`
	VehicleID       string    `json:"vehicleId,omitempty"`
	State           string    `json:"state"`
	Distance        *float64  `json:"distance,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// FriendlyMessage phrases the remaining distance for a customer.
func FriendlyMessage(distance float64) string {
	switch {
	case distance < 0.5:
		return "Your package is almost there, just a few meters away."
	case distance < 1:
		return fmt.Sprintf("Your package is about %d meters away.", int(math.Round(distance*1000)))
	case distance < 5:
		return fmt.Sprintf("Your package is %d km away.", int(math.Round(distance)))
	default:
		return fmt.Sprintf("Your package is in transit, %d km away.", int(math.Round(distance)))
	}
}

// setCustomerStatus stores the status of o with message. For allocated orders
// the state is the vehicle's state and the remaining distance runs from the
// vehicle's position to the destination; a zero distance is not reported.
func (c *Controller) setCustomerStatus(o *order.Order, message string) CustomerStatus {
	status := CustomerStatus{
		OrderID:   o.ID(),
		Message:   message,
		State:     statePending,
		UpdatedAt: c.clock(),
	}

	if o.IsAllocated() {
		status.VehicleID = o.VehicleID()
		status.State = "unknown"
		if v, ok := c.vehicleByID[o.VehicleID()]; ok {
			status.State = v.State().String()
			if d := v.Position().DistanceTo(o.Destination()); d > 0 {
				rounded := math.Round(d*100) / 100
				status.Distance = &rounded
				status.FriendlyMessage = FriendlyMessage(d)
			}
		}
	}

	c.customerStatus[o.ID()] = status
	return status
}
