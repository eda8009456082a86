// Package simulator drives vehicles through their operational states over a
// simulated clock: loading, flying, delivering, returning and recharging.
//
// Time only moves through Advance, or through Tick, which advances by one
// second of wall time scaled by the speed multiplier. Start hands Tick to a
// ports.TickTrigger; the trigger's callback takes the shared lock so ticks never
// interleave with other fleet operations.
package simulator

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync"
	"time"

	"dronedelivery/internal/core/domain/model/kernel"
	"dronedelivery/internal/core/domain/model/order"
	"dronedelivery/internal/core/domain/model/vehicle"
	"dronedelivery/internal/core/ports"
	"dronedelivery/internal/pkg/errs"
	"dronedelivery/internal/pkg/logging"
)

// DefaultSpeed is the speed multiplier used when Start is given zero:
// one wall-clock second per simulated minute.
const DefaultSpeed = 60.0

// Fleet is the simulator's view of the fleet it drives. Calls are made while
// the shared lock is held.
type Fleet interface {
	// Vehicles returns the vehicles to evaluate, in a stable order.
	Vehicles() []*vehicle.Vehicle
	// Depot returns the point every trip starts from and returns to.
	Depot() kernel.Point
	// RecordDelivery is called once an order has been marked delivered.
	RecordDelivery(ctx context.Context, o *order.Order, v *vehicle.Vehicle, simulatedMinute float64)
	// ReleaseUndelivered receives orders still aboard when a trip ends.
	ReleaseUndelivered(ctx context.Context, orders []*order.Order)
}

// Stats reports the simulator state.
type Stats struct {
	Running          bool    `json:"running"`
	SimulatedMinutes float64 `json:"simulatedMinutes"`
	ActiveVehicles   int     `json:"activeVehicles"`
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithClock overrides the wall clock used to stamp notifications and deliveries.
func WithClock(clock func() time.Time) Option {
	return func(s *Simulator) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLocker sets the lock taken by trigger callbacks. It must be the lock that
// guards the fleet.
func WithLocker(locker sync.Locker) Option {
	return func(s *Simulator) {
		if locker != nil {
			s.locker = locker
		}
	}
}

// Simulator is the discrete-event state machine. It is not safe for concurrent
// use; callers serialise through the lock given with WithLocker.
type Simulator struct {
	fleet   Fleet
	trigger ports.TickTrigger
	locker  sync.Locker
	clock   func() time.Time
	logger  *slog.Logger

	running bool
	speed   float64
	minutes float64

	// alerted maps a vehicle id to the start of the airborne stay that
	// already raised a critical battery notification.
	alerted map[string]float64

	nextSubscription SubscriptionID
	observers        map[Channel][]subscription
}

// New creates a stopped simulator at minute zero. trigger may be nil, in which
// case Start only marks the simulator running and time moves through Tick and
// Advance alone.
func New(fleet Fleet, trigger ports.TickTrigger, logger *slog.Logger, opts ...Option) *Simulator {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Simulator{
		fleet:     fleet,
		trigger:   trigger,
		locker:    &sync.Mutex{},
		clock:     time.Now,
		logger:    logger.With("component", "simulator"),
		speed:     DefaultSpeed,
		alerted:   make(map[string]float64),
		observers: make(map[Channel][]subscription),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// On registers observer on channel. Observers run in registration order.
func (s *Simulator) On(channel Channel, observer Observer) (SubscriptionID, error) {
	if !knownChannel(channel) {
		return 0, errs.NewValueIsInvalidErrorWithCause("channel", fmt.Errorf("unknown channel %q", channel))
	}
	if observer == nil {
		return 0, errs.NewValueIsRequiredError("observer")
	}

	s.nextSubscription++
	id := s.nextSubscription
	s.observers[channel] = append(s.observers[channel], subscription{id: id, observer: observer})
	return id, nil
}

// Off removes a registration. It reports whether anything was removed.
func (s *Simulator) Off(channel Channel, id SubscriptionID) bool {
	subs := s.observers[channel]
	for i, sub := range subs {
		if sub.id == id {
			s.observers[channel] = append(subs[:i:i], subs[i+1:]...)
			return true
		}
	}
	return false
}

// Start begins periodic ticking at speed (simulated minutes per wall-clock
// minute; zero means DefaultSpeed). It is a no-op while running. The simulated
// clock is not reset.
func (s *Simulator) Start(ctx context.Context, speed float64) error {
	if s.running {
		return nil
	}
	if speed < 0 || math.IsNaN(speed) || math.IsInf(speed, 0) {
		return errs.NewValueIsInvalidErrorWithCause("speed", fmt.Errorf("%v is not a positive number", speed))
	}
	if speed == 0 {
		speed = DefaultSpeed
	}

	if s.trigger != nil {
		err := s.trigger.Start(func(ctx context.Context) {
			s.locker.Lock()
			defer s.locker.Unlock()
			// a callback queued behind Stop or Reset must not move the clock
			if !s.running {
				return
			}
			s.Tick(ctx)
		})
		if err != nil {
			return fmt.Errorf("start tick trigger: %w", err)
		}
	}

	s.speed = speed
	s.running = true
	s.logger.InfoContext(ctx, "Simulation started", "speed", speed, "simulatedMinute", s.minutes)
	return nil
}

// Stop cancels periodic ticking. Vehicle state is left as it is.
func (s *Simulator) Stop(ctx context.Context) {
	if !s.running {
		return
	}
	if s.trigger != nil {
		s.trigger.Stop()
	}
	s.running = false
	s.logger.InfoContext(ctx, "Simulation stopped", "simulatedMinute", s.minutes)
}

// Reset stops the simulator and rewinds the clock to zero. Observers stay registered.
func (s *Simulator) Reset(ctx context.Context) {
	s.Stop(ctx)
	s.minutes = 0
	s.speed = DefaultSpeed
	clear(s.alerted)
}

// IsRunning reports whether periodic ticking is active.
func (s *Simulator) IsRunning() bool {
	return s.running
}

// Now returns the simulated clock in minutes.
func (s *Simulator) Now() float64 {
	return s.minutes
}

// Tick advances by one second of wall time at the current speed.
func (s *Simulator) Tick(ctx context.Context) {
	// speed is always positive here, so Advance cannot fail
	_ = s.Advance(ctx, s.speed/60)
}

// Advance moves the simulated clock forward by minutes and evaluates every
// vehicle once. At most one transition per vehicle happens per call.
//
// Parameters:
//   - minutes: simulated minutes to add; must be a non-negative number
//
// Returns:
//   - error: ValueIsInvalidError for a negative, NaN or infinite step
//
// Example:
//
//	// a loaded vehicle leaves Loading after one simulated minute
//	_ = sim.Advance(ctx, vehicle.LoadingMinutes)
func (s *Simulator) Advance(ctx context.Context, minutes float64) error {
	if minutes < 0 || math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return errs.NewValueIsInvalidErrorWithCause("minutes", fmt.Errorf("%v is not a non-negative number", minutes))
	}

	s.minutes += minutes
	for _, v := range s.fleet.Vehicles() {
		s.step(ctx, v)
	}
	return nil
}

// Stats reports the running flag, the clock rounded to one decimal and the
// number of vehicles that are neither idle nor recharging.
func (s *Simulator) Stats() Stats {
	active := 0
	for _, v := range s.fleet.Vehicles() {
		if !v.IsAvailable() {
			active++
		}
	}
	return Stats{
		Running:          s.running,
		SimulatedMinutes: math.Round(s.minutes*10) / 10,
		ActiveVehicles:   active,
	}
}

func (s *Simulator) step(ctx context.Context, v *vehicle.Vehicle) {
	dwell := v.DwellMinutes(s.minutes)

	switch v.State() {
	case vehicle.Loading:
		if dwell >= vehicle.LoadingMinutes {
			s.transition(ctx, v, vehicle.Flying)
		}

	case vehicle.Flying:
		next := v.NextOrder()
		if next == nil {
			s.transition(ctx, v, vehicle.Returning)
			break
		}
		if dwell >= v.LegMinutes(v.Position().DistanceTo(next.Destination())) {
			v.FlyTo(next.Destination())
			s.transition(ctx, v, vehicle.Delivering)
		}

	case vehicle.Delivering:
		if dwell >= vehicle.DeliveringMinutes {
			s.completeDelivery(ctx, v)
		}

	case vehicle.Returning:
		depot := s.fleet.Depot()
		if dwell >= v.LegMinutes(v.Position().DistanceTo(depot)) {
			s.land(ctx, v, depot)
		}

	case vehicle.Recharging:
		if dwell >= vehicle.RechargingMinutes {
			v.Recharge()
			s.transition(ctx, v, vehicle.Idle)
		}

	case vehicle.Idle, vehicle.Unknown:
	}

	s.checkCriticalBattery(ctx, v)
}

// checkCriticalBattery sends an airborne vehicle below the critical level
// home and raises one low-battery notification per airborne stay.
func (s *Simulator) checkCriticalBattery(ctx context.Context, v *vehicle.Vehicle) {
	if !v.State().IsAirborne() || v.Battery() >= vehicle.CriticalBatteryThreshold {
		return
	}

	s.transition(ctx, v, vehicle.Returning)
	if since, ok := s.alerted[v.ID()]; ok && since == v.StateSince() {
		return
	}
	s.alerted[v.ID()] = v.StateSince()

	s.logger.WarnContext(ctx, "Critical battery, forcing return",
		"vehicleId", v.ID(), "battery", v.Battery())
	s.notify(ctx, LowBattery, v, "")
}

func (s *Simulator) completeDelivery(ctx context.Context, v *vehicle.Vehicle) {
	delivered := v.DropNextOrder()

	if v.HasOrders() {
		s.transition(ctx, v, vehicle.Flying)
	} else {
		s.transition(ctx, v, vehicle.Returning)
	}

	if delivered == nil {
		return
	}
	if err := delivered.MarkDelivered(s.clock()); err != nil {
		s.logger.ErrorContext(ctx, "Failed to mark order delivered",
			"orderId", delivered.ID(), "vehicleId", v.ID(), "error", err)
		return
	}
	s.fleet.RecordDelivery(ctx, delivered, v, s.minutes)
	s.notify(ctx, DeliveryComplete, v, delivered.ID())
}

func (s *Simulator) land(ctx context.Context, v *vehicle.Vehicle, depot kernel.Point) {
	v.FlyTo(depot)
	if undelivered := v.CompleteTrip(); len(undelivered) > 0 {
		s.logger.WarnContext(ctx, "Trip ended with orders aboard",
			"vehicleId", v.ID(), "orders", len(undelivered))
		s.fleet.ReleaseUndelivered(ctx, undelivered)
	}

	if v.Battery() < vehicle.RechargeThreshold {
		s.transition(ctx, v, vehicle.Recharging)
		s.notify(ctx, LowBattery, v, "")
		return
	}
	s.transition(ctx, v, vehicle.Idle)
}

func (s *Simulator) transition(ctx context.Context, v *vehicle.Vehicle, state vehicle.State) {
	if !v.TransitionTo(state, s.minutes) {
		return
	}
	s.notify(ctx, StateChanged, v, "")
}

func (s *Simulator) notify(ctx context.Context, channel Channel, v *vehicle.Vehicle, orderID string) {
	subs := s.observers[channel]
	if len(subs) == 0 {
		return
	}

	n := Notification{
		Channel:         channel,
		VehicleID:       v.ID(),
		State:           v.State(),
		OrderID:         orderID,
		Battery:         v.Battery(),
		SimulatedMinute: s.minutes,
		At:              s.clock(),
	}
	for _, sub := range subs {
		s.dispatch(ctx, sub, n)
	}
}

func (s *Simulator) dispatch(ctx context.Context, sub subscription, n Notification) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "Observer panicked",
				"channel", n.Channel, "subscription", sub.id, "panic", r)
		}
	}()

	if err := sub.observer(ctx, n); err != nil {
		s.logger.ErrorContext(ctx, "Observer failed",
			"channel", n.Channel, "subscription", sub.id, "error", err)
	}
}

func knownChannel(c Channel) bool {
	return slices.Contains(Channels(), c)
}
