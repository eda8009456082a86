package order

import (
	"errors"
	"fmt"
	"math"
	"time"

	"dronedelivery/internal/core/domain/model/kernel"
	"dronedelivery/internal/pkg/errs"
	"dronedelivery/internal/pkg/guard"
)

const (
	// priorityScoreFactor multiplies the priority weight in the queue score.
	priorityScoreFactor = 100
	// waitScorePerMinute is the score added per minute spent waiting.
	waitScorePerMinute = 2
	// maxWaitScore caps the waiting bonus.
	maxWaitScore = 50
)

// ErrOrderIsNotConstructed is returned when an Order was not created through NewOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// Order is a delivery request: a payload of some weight to carry from the depot to a destination.
//
// Order follows these invariants:
//   - id is non-empty and unique within a controller
//   - weight is positive
//   - the allocation flag (status other than Pending) is set exactly when the order
//     is committed to some vehicle trip or has been delivered
//   - once Delivered, timestamps and status never change again
//
// The vehicle is referenced by id only; the controller resolves it.
type Order struct {
	id          string
	destination kernel.Point
	weight      float64
	priority    Priority
	arrivedAt   time.Time

	status      Status
	vehicleID   string
	allocatedAt time.Time
	deliveredAt time.Time

	estimatedMinutes float64
	hasEstimate      bool

	guard guard.ConstructorGuard
}

// NewOrder creates a pending Order.
//
// Parameters:
//   - id: caller-supplied identifier (non-empty)
//   - destination: delivery point (must be constructed)
//   - weight: payload weight (must be positive)
//   - priority: Low, Medium or High
//   - arrivedAt: arrival timestamp used for wait-time scoring (non-zero)
//
// Returns:
//   - *Order: the created order in Pending status
//   - error: every failed field, joined
//
// Example:
//
//	dest, _ := kernel.NewPoint(3, 5)
//	o, err := order.NewOrder("P1", dest, 4.5, order.High, time.Now())
func NewOrder(id string, destination kernel.Point, weight float64, priority Priority, arrivedAt time.Time) (*Order, error) {
	o := &Order{
		status: Pending,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setDestination(destination),
		o.setWeight(weight),
		o.setPriority(priority),
		o.setArrivedAt(arrivedAt),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order was built by NewOrder.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// ID returns the order identifier.
func (o *Order) ID() string {
	return o.id
}

// Destination returns the delivery point.
func (o *Order) Destination() kernel.Point {
	return o.destination
}

// Weight returns the payload weight.
func (o *Order) Weight() float64 {
	return o.weight
}

// Priority returns the order priority.
func (o *Order) Priority() Priority {
	return o.priority
}

// ArrivedAt returns the arrival timestamp.
func (o *Order) ArrivedAt() time.Time {
	return o.arrivedAt
}

// Status returns the lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// IsAllocated reports the allocation flag: true once the order is committed to
// a vehicle or delivered.
func (o *Order) IsAllocated() bool {
	return o.status == Allocated || o.status == Delivered
}

// IsDelivered reports whether the order reached its destination.
func (o *Order) IsDelivered() bool {
	return o.status == Delivered
}

// VehicleID returns the id of the vehicle carrying the order, or "" when pending.
func (o *Order) VehicleID() string {
	return o.vehicleID
}

// AllocatedAt returns the allocation timestamp (zero when never allocated).
func (o *Order) AllocatedAt() time.Time {
	return o.allocatedAt
}

// DeliveredAt returns the delivery timestamp (zero until delivered).
func (o *Order) DeliveredAt() time.Time {
	return o.deliveredAt
}

// EstimatedDeliveryMinutes returns the estimate recorded at dispatch and whether one exists.
func (o *Order) EstimatedDeliveryMinutes() (float64, bool) {
	return o.estimatedMinutes, o.hasEstimate
}

// Allocate commits the order to vehicleID.
//
// Returns:
//   - nil on success
//   - ValueIsRequiredError when vehicleID is empty
//   - ValueIsInvalidError when the order is not Pending
func (o *Order) Allocate(vehicleID string, at time.Time) error {
	if vehicleID == "" {
		return errs.NewValueIsRequiredError("vehicleID")
	}

	newStatus, err := o.status.Allocate()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.vehicleID = vehicleID
	o.allocatedAt = at
	return nil
}

// Release returns an allocated, undelivered order to the pending pool and clears
// its vehicle reference and estimate.
func (o *Order) Release() error {
	newStatus, err := o.status.Release()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.vehicleID = ""
	o.allocatedAt = time.Time{}
	o.estimatedMinutes = 0
	o.hasEstimate = false
	return nil
}

// MarkDelivered completes the order. Delivered is final.
func (o *Order) MarkDelivered(at time.Time) error {
	newStatus, err := o.status.Deliver()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.deliveredAt = at
	return nil
}

// SetEstimatedDelivery records the estimated delivery duration in simulated minutes.
// Ignored once the order is delivered.
func (o *Order) SetEstimatedDelivery(minutes float64) {
	if o.status == Delivered {
		return
	}
	o.estimatedMinutes = minutes
	o.hasEstimate = true
}

// WaitMinutes returns how long the order has waited: until delivery when
// delivered, until allocation when allocated, otherwise until now.
func (o *Order) WaitMinutes(now time.Time) float64 {
	end := now
	switch {
	case o.status == Delivered:
		end = o.deliveredAt
	case o.status == Allocated && !o.allocatedAt.IsZero():
		end = o.allocatedAt
	}
	return math.Max(0, end.Sub(o.arrivedAt).Minutes())
}

// PriorityScore is the queue ranking score at now:
// priority weight × 100 + min(minutes waited × 2, 50).
func (o *Order) PriorityScore(now time.Time) float64 {
	waited := math.Max(0, now.Sub(o.arrivedAt).Minutes())
	return float64(o.priority.Weight()*priorityScoreFactor) + math.Min(waited*waitScorePerMinute, maxWaitScore)
}

func (o *Order) setID(id string) error {
	if id == "" {
		return errs.NewValueIsRequiredError("id")
	}
	o.id = id
	return nil
}

func (o *Order) setDestination(destination kernel.Point) error {
	if err := destination.Validate(); err != nil {
		return err
	}
	o.destination = destination
	return nil
}

func (o *Order) setWeight(weight float64) error {
	if weight <= 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return errs.NewValueIsInvalidErrorWithCause("weight", fmt.Errorf("%v is not greater than 0", weight))
	}
	o.weight = weight
	return nil
}

func (o *Order) setPriority(priority Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}
	o.priority = priority
	return nil
}

func (o *Order) setArrivedAt(arrivedAt time.Time) error {
	if arrivedAt.IsZero() {
		return errs.NewValueIsRequiredError("arrivedAt")
	}
	o.arrivedAt = arrivedAt
	return nil
}
