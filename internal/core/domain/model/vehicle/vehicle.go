package vehicle

import (
	"errors"
	"fmt"
	"math"

	"dronedelivery/internal/core/domain/model/kernel"
	"dronedelivery/internal/core/domain/model/order"
	"dronedelivery/internal/pkg/errs"
	"dronedelivery/internal/pkg/guard"
)

const (
	// DefaultBatteryCapacity is the maximum battery level when none is configured.
	DefaultBatteryCapacity = 100.0
	// DefaultSpeed is the cruise speed in distance units per hour.
	DefaultSpeed = 30.0

	// LoadingMinutes is the dwell time in Loading.
	LoadingMinutes = 1.0
	// DeliveringMinutes is the dwell time in Delivering.
	DeliveringMinutes = 2.0
	// RechargingMinutes is the dwell time in Recharging.
	RechargingMinutes = 5.0

	// RechargeThreshold sends a returning vehicle to Recharging below this level.
	// The optimizer also skips vehicles below it.
	RechargeThreshold = 20.0
	// CriticalBatteryThreshold forces an airborne vehicle home below this level.
	CriticalBatteryThreshold = 10.0

	// BatteryReserveFactor multiplies a trip's consumption to get the battery
	// it needs before departure.
	BatteryReserveFactor = 2.0

	maxBatteryLevel     = 100.0
	baseConsumptionRate = 0.5
	loadConsumptionRate = 0.3
)

// ErrVehicleIsNotConstructed is returned when a Vehicle was not created through NewVehicle.
var ErrVehicleIsNotConstructed = errors.New("Vehicle must be created via NewVehicle constructor")

// Vehicle is a delivery drone. It owns its current trip: the orders it carries
// and the weight and distance committed to them.
//
// Invariants:
//   - committed weight ≤ weight capacity
//   - committed distance ≤ distance capacity
//   - 0 ≤ battery ≤ battery capacity ≤ 100
//   - orders are only added while the vehicle is Idle or Recharging
//
// Battery drain for a leg is (0.5 + load/weightCapacity × 0.3) × distance percentage points.
type Vehicle struct {
	id               string
	weightCapacity   float64
	distanceCapacity float64
	batteryCapacity  float64
	battery          float64
	speed            float64
	position         kernel.Point

	state      State
	stateSince float64
	history    []HistoryEntry

	orders            []*order.Order
	committedWeight   float64
	committedDistance float64

	completedTrips int
	flightMinutes  float64
	distanceFlown  float64

	guard guard.ConstructorGuard
}

// NewVehicle creates an Idle vehicle with a full battery.
//
// Parameters:
//   - id: caller-supplied identifier (non-empty)
//   - weightCapacity: maximum payload per trip (> 0)
//   - distanceCapacity: maximum distance per trip (> 0)
//   - batteryCapacity: maximum battery level in (0, 100]
//   - speed: cruise speed in distance units per hour (> 0)
//   - position: starting point, usually the depot
//
// Returns:
//   - *Vehicle: the created vehicle
//   - error: every failed field, joined
//
// Example:
//
//	v, err := vehicle.NewVehicle("D1", 10, 50, vehicle.DefaultBatteryCapacity, vehicle.DefaultSpeed, kernel.Origin())
func NewVehicle(
	id string,
	weightCapacity float64,
	distanceCapacity float64,
	batteryCapacity float64,
	speed float64,
	position kernel.Point,
) (*Vehicle, error) {
	v := &Vehicle{
		state: Idle,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		v.setID(id),
		v.setWeightCapacity(weightCapacity),
		v.setDistanceCapacity(distanceCapacity),
		v.setBatteryCapacity(batteryCapacity),
		v.setSpeed(speed),
		v.setPosition(position),
	); err != nil {
		return nil, err
	}

	v.battery = v.batteryCapacity
	return v, nil
}

// Validate ensures the Vehicle was built by NewVehicle.
func (v *Vehicle) Validate() error {
	if v == nil {
		return ErrVehicleIsNotConstructed
	}
	return v.guard.Validate(ErrVehicleIsNotConstructed)
}

// ID returns the vehicle identifier.
func (v *Vehicle) ID() string { return v.id }

// WeightCapacity returns the maximum payload per trip.
func (v *Vehicle) WeightCapacity() float64 { return v.weightCapacity }

// DistanceCapacity returns the maximum distance per trip.
func (v *Vehicle) DistanceCapacity() float64 { return v.distanceCapacity }

// BatteryCapacity returns the maximum battery level.
func (v *Vehicle) BatteryCapacity() float64 { return v.batteryCapacity }

// Battery returns the current battery level.
func (v *Vehicle) Battery() float64 { return v.battery }

// Speed returns the cruise speed in distance units per hour.
func (v *Vehicle) Speed() float64 { return v.speed }

// Position returns the current position.
func (v *Vehicle) Position() kernel.Point { return v.position }

// State returns the operational state.
func (v *Vehicle) State() State { return v.state }

// StateSince returns the simulated minute the current state was entered.
func (v *Vehicle) StateSince() float64 { return v.stateSince }

// CommittedWeight returns the payload weight still aboard.
func (v *Vehicle) CommittedWeight() float64 { return v.committedWeight }

// CommittedDistance returns the distance committed to the current trip.
func (v *Vehicle) CommittedDistance() float64 { return v.committedDistance }

// CompletedTrips returns the number of finished trips.
func (v *Vehicle) CompletedTrips() int { return v.completedTrips }

// FlightMinutes returns the cumulative simulated minutes spent Flying or Returning.
func (v *Vehicle) FlightMinutes() float64 { return v.flightMinutes }

// DistanceFlown returns the cumulative distance travelled.
func (v *Vehicle) DistanceFlown() float64 { return v.distanceFlown }

// IsAvailable reports whether the vehicle may accept orders.
func (v *Vehicle) IsAvailable() bool { return v.state.IsAvailable() }

// HasOrders reports whether any order is aboard.
func (v *Vehicle) HasOrders() bool { return len(v.orders) > 0 }

// Orders returns a copy of the orders aboard, in visiting order.
func (v *Vehicle) Orders() []*order.Order {
	out := make([]*order.Order, len(v.orders))
	copy(out, v.orders)
	return out
}

// NextOrder returns the next order to deliver, or nil.
func (v *Vehicle) NextOrder() *order.Order {
	if len(v.orders) == 0 {
		return nil
	}
	return v.orders[0]
}

// History returns a copy of the closed state stays.
func (v *Vehicle) History() []HistoryEntry {
	out := make([]HistoryEntry, len(v.history))
	copy(out, v.history)
	return out
}

// BatteryConsumption returns the battery drained by flying distance with load aboard.
func (v *Vehicle) BatteryConsumption(distance, load float64) float64 {
	return Consumption(v.weightCapacity, distance, load)
}

// RequiredBattery returns the level v needs to start a trip of distance with
// load aboard.
func (v *Vehicle) RequiredBattery(distance, load float64) float64 {
	return RequiredBattery(v.weightCapacity, distance, load)
}

// Consumption returns the battery a vehicle with weightCapacity drains by
// flying distance with load aboard.
func Consumption(weightCapacity, distance, load float64) float64 {
	return (baseConsumptionRate + load/weightCapacity*loadConsumptionRate) * distance
}

// RequiredBattery returns BatteryReserveFactor times the consumption of a trip.
//
// Example:
//
//	// 10 kg on a 10 kg vehicle over a 30 unit round trip drains 24 and needs 48.
//	need := vehicle.RequiredBattery(10, 30, 10)
func RequiredBattery(weightCapacity, distance, load float64) float64 {
	return BatteryReserveFactor * Consumption(weightCapacity, distance, load)
}

// LegMinutes returns the simulated minutes needed to fly distance.
func (v *Vehicle) LegMinutes(distance float64) float64 {
	return distance / v.speed * 60
}

// EstimateDeliveryMinutes estimates the minutes from now until an order at
// destination is handed over: the direct leg from the current position plus
// the delivering dwell.
func (v *Vehicle) EstimateDeliveryMinutes(destination kernel.Point) float64 {
	return v.LegMinutes(v.position.DistanceTo(destination)) + DeliveringMinutes
}

// Efficiency scores the vehicle for fleet statistics:
// trips ÷ flight minutes (1 when none) × distance flown. Zero without trips.
func (v *Vehicle) Efficiency() float64 {
	if v.completedTrips == 0 {
		return 0
	}
	minutes := v.flightMinutes
	if minutes == 0 {
		minutes = 1
	}
	return float64(v.completedTrips) / minutes * v.distanceFlown
}

// CanCarry checks whether o fits into the current trip. The distance cost is the
// straight-line round trip depot -> destination -> depot; exclusion zones are ignored.
//
// Returns:
//   - bool: true when every check passes
//   - string: the first failed check, empty on success
func (v *Vehicle) CanCarry(o *order.Order, depot kernel.Point) (bool, string) {
	if !v.state.IsAvailable() {
		return false, fmt.Sprintf("vehicle is %s", v.state)
	}

	newWeight := v.committedWeight + o.Weight()
	if newWeight > v.weightCapacity {
		return false, fmt.Sprintf("weight %g exceeds capacity %g", newWeight, v.weightCapacity)
	}

	roundTrip := 2 * depot.DistanceTo(o.Destination())
	newDistance := v.committedDistance + roundTrip
	if newDistance > v.distanceCapacity {
		return false, fmt.Sprintf("distance %g exceeds capacity %g", newDistance, v.distanceCapacity)
	}

	if need := v.RequiredBattery(roundTrip, newWeight); v.battery < need {
		return false, fmt.Sprintf("battery %g is below required %g", v.battery, need)
	}

	return true, ""
}

// AddOrder puts o aboard after CanCarry succeeds. The order's own status is left
// to the caller.
func (v *Vehicle) AddOrder(o *order.Order, depot kernel.Point) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if ok, reason := v.CanCarry(o, depot); !ok {
		return errs.NewPlacementViolationError(v.id, reason)
	}

	v.orders = append(v.orders, o)
	v.committedWeight += o.Weight()
	v.committedDistance += 2 * depot.DistanceTo(o.Destination())
	return nil
}

// LoadRoute commits an already sequenced route whose total length (return leg
// included) is distance. The whole route is rejected when any check fails.
//
// Returns:
//   - nil when the orders are aboard
//   - PlacementViolationError for an unavailable vehicle, or a route over the
//     weight or distance capacity or beyond RequiredBattery
func (v *Vehicle) LoadRoute(orders []*order.Order, distance float64) error {
	if !v.state.IsAvailable() {
		return errs.NewPlacementViolationError(v.id, fmt.Sprintf("vehicle is %s", v.state))
	}

	weight := v.committedWeight
	for _, o := range orders {
		if err := o.Validate(); err != nil {
			return err
		}
		weight += o.Weight()
	}
	if weight > v.weightCapacity {
		return errs.NewPlacementViolationError(v.id,
			fmt.Sprintf("weight %g exceeds capacity %g", weight, v.weightCapacity))
	}
	if total := v.committedDistance + distance; total > v.distanceCapacity {
		return errs.NewPlacementViolationError(v.id,
			fmt.Sprintf("distance %g exceeds capacity %g", total, v.distanceCapacity))
	}
	if need := v.RequiredBattery(distance, weight); v.battery < need {
		return errs.NewPlacementViolationError(v.id,
			fmt.Sprintf("battery %g is below required %g", v.battery, need))
	}

	v.orders = append(v.orders, orders...)
	v.committedWeight = weight
	v.committedDistance += distance
	return nil
}

// ClearTrip drops the orders aboard and zeroes committed weight and distance
// without counting a trip. Used when a plan is discarded.
func (v *Vehicle) ClearTrip() {
	v.orders = nil
	v.committedWeight = 0
	v.committedDistance = 0
}

// CompleteTrip closes the current trip and increments the trip counter.
// It returns the orders still aboard, which were not delivered.
func (v *Vehicle) CompleteTrip() []*order.Order {
	undelivered := v.orders
	v.ClearTrip()
	v.completedTrips++
	return undelivered
}

// StartTrip moves a loaded, available vehicle into Loading at simulated minute at.
func (v *Vehicle) StartTrip(at float64) error {
	if len(v.orders) == 0 {
		return errs.NewPlacementViolationError(v.id, "no orders to start a trip")
	}
	if !v.state.IsAvailable() {
		return errs.NewPlacementViolationError(v.id, fmt.Sprintf("vehicle is %s", v.state))
	}
	v.TransitionTo(Loading, at)
	return nil
}

// TransitionTo switches state at simulated minute at, closing the previous stay
// in the history. Time spent airborne is added to the flight minutes.
// Transitioning to the current state is a no-op and returns false.
func (v *Vehicle) TransitionTo(state State, at float64) bool {
	if state == v.state {
		return false
	}

	duration := math.Max(0, at-v.stateSince)
	v.history = append(v.history, HistoryEntry{
		State:    v.state,
		Start:    v.stateSince,
		End:      at,
		Duration: duration,
	})
	if v.state.IsAirborne() {
		v.flightMinutes += duration
	}

	v.state = state
	v.stateSince = at
	return true
}

// DwellMinutes returns the simulated minutes spent in the current state at now.
func (v *Vehicle) DwellMinutes(now float64) float64 {
	return now - v.stateSince
}

// FlyTo moves the vehicle to target and drains the battery for the leg at the
// current load. Battery never drops below zero.
func (v *Vehicle) FlyTo(target kernel.Point) {
	distance := v.position.DistanceTo(target)
	v.battery = math.Max(0, v.battery-v.BatteryConsumption(distance, v.committedWeight))
	v.distanceFlown += distance
	v.position = target
}

// DropNextOrder removes the next order from the trip and lightens the load.
// It returns nil when nothing is aboard.
func (v *Vehicle) DropNextOrder() *order.Order {
	if len(v.orders) == 0 {
		return nil
	}

	delivered := v.orders[0]
	v.orders = v.orders[1:]
	v.committedWeight = math.Max(0, v.committedWeight-delivered.Weight())
	return delivered
}

// Recharge restores the battery to capacity.
func (v *Vehicle) Recharge() {
	v.battery = v.batteryCapacity
}

// SetBattery overrides the battery level, clamped to [0, capacity].
// Used for scenario set-up.
func (v *Vehicle) SetBattery(level float64) {
	v.battery = math.Max(0, math.Min(level, v.batteryCapacity))
}

// RecallTo aborts the current trip without counting it: orders are dropped,
// the vehicle is placed at depot and becomes Idle at simulated minute at.
// It returns the orders that were aboard.
func (v *Vehicle) RecallTo(depot kernel.Point, at float64) []*order.Order {
	aboard := v.orders
	v.ClearTrip()
	v.position = depot
	v.TransitionTo(Idle, at)
	return aboard
}

func (v *Vehicle) setID(id string) error {
	if id == "" {
		return errs.NewValueIsRequiredError("id")
	}
	v.id = id
	return nil
}

func (v *Vehicle) setWeightCapacity(capacity float64) error {
	if !isPositive(capacity) {
		return errs.NewValueIsInvalidErrorWithCause("weightCapacity", fmt.Errorf("%v is not greater than 0", capacity))
	}
	v.weightCapacity = capacity
	return nil
}

func (v *Vehicle) setDistanceCapacity(capacity float64) error {
	if !isPositive(capacity) {
		return errs.NewValueIsInvalidErrorWithCause("distanceCapacity", fmt.Errorf("%v is not greater than 0", capacity))
	}
	v.distanceCapacity = capacity
	return nil
}

func (v *Vehicle) setBatteryCapacity(capacity float64) error {
	if !isPositive(capacity) || capacity > maxBatteryLevel {
		return errs.NewValueIsOutOfRangeError("batteryCapacity", capacity, 0, maxBatteryLevel)
	}
	v.batteryCapacity = capacity
	return nil
}

func (v *Vehicle) setSpeed(speed float64) error {
	if !isPositive(speed) {
		return errs.NewValueIsInvalidErrorWithCause("speed", fmt.Errorf("%v is not greater than 0", speed))
	}
	v.speed = speed
	return nil
}

func (v *Vehicle) setPosition(position kernel.Point) error {
	if err := position.Validate(); err != nil {
		return err
	}
	v.position = position
	return nil
}

func isPositive(f float64) bool {
	return f > 0 && !math.IsInf(f, 0)
}
