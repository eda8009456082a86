// Package fleet holds the Controller: the single owner of vehicles, orders and
// exclusion zones. It validates and registers entities, runs allocation passes
// through the domain services, drives the simulator and answers queries.
//
// Every public method takes the controller's mutex. The simulator's periodic
// tick takes the same mutex, so ticks and allocation passes never interleave.
// Simulator observers run while the mutex is held and must not call back into
// the Controller.
package fleet

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"dronedelivery/internal/core/application/simulator"
	"dronedelivery/internal/core/application/validation"
	"dronedelivery/internal/core/domain/model/delivery"
	"dronedelivery/internal/core/domain/model/kernel"
	"dronedelivery/internal/core/domain/model/order"
	"dronedelivery/internal/core/domain/model/vehicle"
	"dronedelivery/internal/core/domain/model/zone"
	"dronedelivery/internal/core/domain/services"
	"dronedelivery/internal/core/ports"
	"dronedelivery/internal/pkg/logging"
)

// DefaultCombinationCap is the optimizer combination cap used by processing passes.
const DefaultCombinationCap = 50

// Option configures a Controller.
type Option func(*config)

type config struct {
	journals       []ports.DeliveryJournal
	trigger        ports.TickTrigger
	clock          services.Clock
	combinationCap int
}

// WithJournal adds a sink for deliveries and allocation passes. Journals are
// called in the order they were added.
func WithJournal(journal ports.DeliveryJournal) Option {
	return func(c *config) {
		if journal != nil {
			c.journals = append(c.journals, journal)
		}
	}
}

// WithTickTrigger sets the periodic driver used by StartSimulation.
// Without one the simulator only moves through Advance and Tick.
func WithTickTrigger(trigger ports.TickTrigger) Option {
	return func(c *config) { c.trigger = trigger }
}

// WithClock overrides the wall clock used for order timestamps.
func WithClock(clock services.Clock) Option {
	return func(c *config) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithCombinationCap overrides DefaultCombinationCap.
func WithCombinationCap(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.combinationCap = n
		}
	}
}

// Controller orchestrates the fleet. See the package documentation for its
// locking rules.
type Controller struct {
	mu sync.Mutex

	depot     kernel.Point
	validator ports.Validator
	journals  []ports.DeliveryJournal
	clock     services.Clock
	logger    *slog.Logger

	vehicles []*vehicle.Vehicle
	orders   []*order.Order
	zones    []*zone.ExclusionZone

	vehicleByID map[string]*vehicle.Vehicle
	orderByID   map[string]*order.Order
	zoneByID    map[string]*zone.ExclusionZone

	queue     *services.PriorityQueue
	allocator *services.GreedyAllocator
	optimizer *services.RouteOptimizer
	sim       *simulator.Simulator

	deliveries     []delivery.Record
	passes         []delivery.AllocationPass
	customerStatus map[string]CustomerStatus
}

// New creates an empty controller whose trips start and end at depot.
//
// Parameters:
//   - depot: origin of every trip
//   - validator: field checks applied before any entity is created; nil uses validation.FieldValidator
//   - logger: base logger; nil discards
//   - opts: journal, tick trigger, clock and combination cap
//
// Example:
//
//	c := fleet.New(kernel.Origin(), validation.NewFieldValidator(), logger,
//	    fleet.WithTickTrigger(jobs.NewSimulationTickJob(logger)))
func New(depot kernel.Point, validator ports.Validator, logger *slog.Logger, opts ...Option) *Controller {
	cfg := config{clock: time.Now, combinationCap: DefaultCombinationCap}
	for _, opt := range opts {
		opt(&cfg)
	}
	if logger == nil {
		logger = logging.Discard()
	}
	if validator == nil {
		validator = validation.NewFieldValidator()
	}

	c := &Controller{
		depot:          depot,
		validator:      validator,
		journals:       cfg.journals,
		clock:          cfg.clock,
		logger:         logger.With("component", "fleet_controller"),
		vehicleByID:    make(map[string]*vehicle.Vehicle),
		orderByID:      make(map[string]*order.Order),
		zoneByID:       make(map[string]*zone.ExclusionZone),
		queue:          services.NewPriorityQueue(cfg.clock),
		allocator:      services.NewGreedyAllocator(depot, cfg.clock),
		optimizer:      services.NewRouteOptimizer(depot, services.WithCombinationCap(cfg.combinationCap)),
		customerStatus: make(map[string]CustomerStatus),
	}
	c.sim = simulator.New(simulationFleet{c: c}, cfg.trigger, logger,
		simulator.WithClock(cfg.clock),
		simulator.WithLocker(&c.mu),
	)
	return c
}

// Depot returns the trip origin.
func (c *Controller) Depot() kernel.Point {
	return c.depot
}

func (c *Controller) recordPass(ctx context.Context, pass delivery.AllocationPass) {
	c.passes = append(c.passes, pass)
	for _, journal := range c.journals {
		if err := journal.RecordAllocationPass(ctx, pass); err != nil {
			c.logger.ErrorContext(ctx, "Failed to journal allocation pass", "passId", pass.ID(), "error", err)
		}
	}
}

func (c *Controller) recordDelivery(ctx context.Context, record delivery.Record) {
	c.deliveries = append(c.deliveries, record)
	for _, journal := range c.journals {
		if err := journal.RecordDelivery(ctx, record); err != nil {
			c.logger.ErrorContext(ctx, "Failed to journal delivery",
				"orderId", record.OrderID(), "vehicleId", record.VehicleID(), "error", err)
		}
	}
}

// simulationFleet is the simulator's view of the controller. The simulator only
// calls it while c.mu is held.
type simulationFleet struct {
	c *Controller
}

func (f simulationFleet) Vehicles() []*vehicle.Vehicle { return f.c.vehicles }

func (f simulationFleet) Depot() kernel.Point { return f.c.depot }

func (f simulationFleet) RecordDelivery(ctx context.Context, o *order.Order, v *vehicle.Vehicle, minute float64) {
	c := f.c
	record, err := delivery.NewRecord(o.ID(), v.ID(), o.WaitMinutes(o.DeliveredAt()), o.DeliveredAt(), minute)
	if err != nil {
		c.logger.ErrorContext(ctx, "Failed to build delivery record", "orderId", o.ID(), "error", err)
		return
	}
	c.recordDelivery(ctx, record)
	c.setCustomerStatus(o, MessageDelivered)
	c.logger.InfoContext(ctx, "Order delivered", "orderId", o.ID(), "vehicleId", v.ID(), "simulatedMinute", minute)
}

func (f simulationFleet) ReleaseUndelivered(ctx context.Context, orders []*order.Order) {
	c := f.c
	for _, o := range orders {
		if err := o.Release(); err != nil {
			c.logger.ErrorContext(ctx, "Failed to release order", "orderId", o.ID(), "error", err)
			continue
		}
		c.setCustomerStatus(o, MessageReturnedToQueue)
	}
}
