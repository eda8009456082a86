package fleet

import (
	"context"
	"math"

	"dronedelivery/internal/core/application/simulator"
	"dronedelivery/internal/core/domain/model/delivery"
	"dronedelivery/internal/core/domain/model/kernel"
	"dronedelivery/internal/core/domain/model/order"
	"dronedelivery/internal/core/domain/model/vehicle"
	"dronedelivery/internal/core/domain/model/zone"
	"dronedelivery/internal/core/domain/services"
	"dronedelivery/internal/pkg/errs"
)

// routeEstimateSpeed is the reference speed, in units per hour, of route estimates.
const routeEstimateSpeed = 30.0

// RouteEstimate describes the depot-to-destination leg of one order.
type RouteEstimate struct {
	OrderID          string          `json:"orderId"`
	Origin           kernel.Point    `json:"origin"`
	Destination      kernel.Point    `json:"destination"`
	DirectDistance   float64         `json:"directDistance"`
	ObstacleDistance float64         `json:"obstacleDistance"`
	Zones            []zone.Snapshot `json:"zones"`
	EstimatedMinutes float64         `json:"estimatedMinutes"`
}

// EfficiencyReport identifies the vehicle with the best trips ÷ flight minutes × distance score.
type EfficiencyReport struct {
	VehicleID     string  `json:"vehicleId"`
	Trips         int     `json:"trips"`
	DistanceFlown float64 `json:"distanceFlown"`
	FlightMinutes float64 `json:"flightMinutes"`
}

// Statistics aggregates the fleet state.
type Statistics struct {
	TotalVehicles       int               `json:"totalVehicles"`
	VehiclesByState     map[string]int    `json:"vehiclesByState"`
	ActiveVehicles      int               `json:"activeVehicles"`
	IdleVehicles        int               `json:"idleVehicles"`
	RechargingVehicles  int               `json:"rechargingVehicles"`
	TotalOrders         int               `json:"totalOrders"`
	AllocatedOrders     int               `json:"allocatedOrders"`
	UnallocatedOrders   int               `json:"unallocatedOrders"`
	TotalTrips          int               `json:"totalTrips"`
	Deliveries          int               `json:"deliveries"`
	MeanDeliveryMinutes float64           `json:"meanDeliveryMinutes"`
	MostEfficient       *EfficiencyReport `json:"mostEfficient"`
	// AllocationRate is the allocated share of all orders, in percent with two decimals.
	AllocationRate float64             `json:"allocationRate"`
	Zones          int                 `json:"zones"`
	Queue          services.QueueStats `json:"queue"`
	Simulation     simulator.Stats     `json:"simulation"`
}

// Vehicles lists every vehicle in registration order.
func (c *Controller) Vehicles(_ context.Context) []vehicle.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return vehicle.Snapshots(c.vehicles)
}

// Vehicle returns one vehicle with its state history.
func (c *Controller) Vehicle(_ context.Context, id string) (vehicle.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.vehicleByID[id]
	if !ok {
		return vehicle.Snapshot{}, errs.NewObjectNotFoundError("vehicleId", id)
	}
	return v.Snapshot(true), nil
}

// Orders lists every order in creation order.
func (c *Controller) Orders(_ context.Context) []order.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return order.Snapshots(c.orders, c.clock())
}

// Order returns one order.
func (c *Controller) Order(_ context.Context, id string) (order.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	o, ok := c.orderByID[id]
	if !ok {
		return order.Snapshot{}, errs.NewObjectNotFoundError("orderId", id)
	}
	return o.Snapshot(c.clock()), nil
}

// Zones lists every exclusion zone, inactive ones included.
func (c *Controller) Zones(_ context.Context) []zone.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return zoneSnapshots(c.zones)
}

// Zone returns one exclusion zone.
func (c *Controller) Zone(_ context.Context, id string) (zone.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	z, ok := c.zoneByID[id]
	if !ok {
		return zone.Snapshot{}, errs.NewObjectNotFoundError("zoneId", id)
	}
	return z.Snapshot(), nil
}

// ZonesContaining lists the active zones whose no-fly radius contains p.
func (c *Controller) ZonesContaining(_ context.Context, p kernel.Point) []zone.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := []zone.Snapshot{}
	for _, z := range c.zones {
		if z.IsActive() && z.Contains(p) {
			out = append(out, z.Snapshot())
		}
	}
	return out
}

// RouteEstimate computes the depot-to-destination leg of an order: the direct
// distance, the obstacle-adjusted distance, the active zones on the way and the
// flight minutes at 30 units per hour. Distances are rounded to two decimals,
// minutes to one.
func (c *Controller) RouteEstimate(_ context.Context, orderID string) (RouteEstimate, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	o, ok := c.orderByID[orderID]
	if !ok {
		return RouteEstimate{}, errs.NewObjectNotFoundError("orderId", orderID)
	}

	dest := o.Destination()
	direct := c.depot.DistanceTo(dest)
	withObstacles := services.DistanceWithObstacles(c.depot, dest, c.zones)

	return RouteEstimate{
		OrderID:          o.ID(),
		Origin:           c.depot,
		Destination:      dest,
		DirectDistance:   round(direct, 2),
		ObstacleDistance: round(withObstacles, 2),
		Zones:            zoneSnapshots(services.IntersectingZones(c.depot, dest, c.zones)),
		EstimatedMinutes: round(withObstacles/routeEstimateSpeed*60, 1),
	}, nil
}

// Statistics aggregates vehicles, orders, deliveries, queue and simulation.
func (c *Controller) Statistics(_ context.Context) Statistics {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := Statistics{
		TotalVehicles:   len(c.vehicles),
		VehiclesByState: make(map[string]int, len(vehicle.States())),
		TotalOrders:     len(c.orders),
		Deliveries:      len(c.deliveries),
		Zones:           len(c.zones),
		Queue:           c.queue.Stats(),
		Simulation:      c.sim.Stats(),
	}
	for _, s := range vehicle.States() {
		stats.VehiclesByState[s.String()] = 0
	}

	var best *vehicle.Vehicle
	for _, v := range c.vehicles {
		stats.VehiclesByState[v.State().String()]++
		switch v.State() {
		case vehicle.Idle:
			stats.IdleVehicles++
		case vehicle.Recharging:
			stats.RechargingVehicles++
		default:
			stats.ActiveVehicles++
		}
		stats.TotalTrips += v.CompletedTrips()
		if v.Efficiency() > 0 && (best == nil || v.Efficiency() > best.Efficiency()) {
			best = v
		}
	}
	if best != nil {
		stats.MostEfficient = &EfficiencyReport{
			VehicleID:     best.ID(),
			Trips:         best.CompletedTrips(),
			DistanceFlown: round(best.DistanceFlown(), 1),
			FlightMinutes: round(best.FlightMinutes(), 1),
		}
	}

	for _, o := range c.orders {
		if o.IsAllocated() {
			stats.AllocatedOrders++
		}
	}
	stats.UnallocatedOrders = stats.TotalOrders - stats.AllocatedOrders
	if stats.TotalOrders > 0 {
		stats.AllocationRate = round(float64(stats.AllocatedOrders)/float64(stats.TotalOrders)*100, 2)
	}

	if len(c.deliveries) > 0 {
		total := 0.0
		for _, d := range c.deliveries {
			total += d.WaitMinutes()
		}
		stats.MeanDeliveryMinutes = round(total/float64(len(c.deliveries)), 1)
	}

	return stats
}

// QueueStats reports the pending queue.
func (c *Controller) QueueStats(_ context.Context) services.QueueStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Stats()
}

// SimulationStats reports the simulator.
func (c *Controller) SimulationStats(_ context.Context) simulator.Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sim.Stats()
}

// CustomerStatus returns the latest customer-facing status of an order.
func (c *Controller) CustomerStatus(_ context.Context, orderID string) (CustomerStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	status, ok := c.customerStatus[orderID]
	if !ok {
		return CustomerStatus{}, errs.NewObjectNotFoundError("orderId", orderID)
	}
	return status, nil
}

// Deliveries returns the delivery history, oldest first.
func (c *Controller) Deliveries(_ context.Context) []delivery.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]delivery.Record{}, c.deliveries...)
}

// AllocationHistory returns one entry per processing pass, oldest first.
func (c *Controller) AllocationHistory(_ context.Context) []delivery.AllocationPass {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]delivery.AllocationPass{}, c.passes...)
}

func zoneSnapshots(zones []*zone.ExclusionZone) []zone.Snapshot {
	out := make([]zone.Snapshot, 0, len(zones))
	for _, z := range zones {
		out = append(out, z.Snapshot())
	}
	return out
}

func round(f float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(f*p) / p
}
