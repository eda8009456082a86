package fleet

import (
	"context"

	"dronedelivery/internal/core/domain/model/kernel"
	"dronedelivery/internal/core/domain/model/order"
	"dronedelivery/internal/core/domain/model/vehicle"
	"dronedelivery/internal/core/domain/model/zone"
	"dronedelivery/internal/core/ports"
	"dronedelivery/internal/pkg/errs"
)

// RegisterVehicle validates fields and adds an idle vehicle at the depot.
//
// Returns:
//   - vehicle.Snapshot: the registered vehicle
//   - error: ValidationError when the validator rejects the fields,
//     DuplicateIDError when the id is taken
func (c *Controller) RegisterVehicle(ctx context.Context, fields ports.VehicleFields) (vehicle.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if res := c.validator.ValidateVehicle(fields); !res.Valid {
		return vehicle.Snapshot{}, errs.NewValidationError("vehicle", res.Errors)
	}
	if _, exists := c.vehicleByID[fields.ID]; exists {
		return vehicle.Snapshot{}, errs.NewDuplicateIDError("vehicle", fields.ID)
	}

	v, err := vehicle.NewVehicle(
		fields.ID,
		*fields.WeightCapacity,
		*fields.DistanceCapacity,
		valueOr(fields.BatteryCapacity, vehicle.DefaultBatteryCapacity),
		valueOr(fields.Speed, vehicle.DefaultSpeed),
		c.depot,
	)
	if err != nil {
		return vehicle.Snapshot{}, err
	}

	c.vehicles = append(c.vehicles, v)
	c.vehicleByID[v.ID()] = v
	c.logger.InfoContext(ctx, "Vehicle registered",
		"vehicleId", v.ID(), "weightCapacity", v.WeightCapacity(), "distanceCapacity", v.DistanceCapacity())
	return v.Snapshot(false), nil
}

// CreateOrder validates fields, creates a pending order stamped with the
// current time and queues it.
//
// Returns:
//   - order.Snapshot: the created order
//   - error: ValidationError, DuplicateIDError, or CapacityError when the
//     weight exceeds the largest registered vehicle's capacity
func (c *Controller) CreateOrder(ctx context.Context, fields ports.OrderFields) (order.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if res := c.validator.ValidateOrder(fields); !res.Valid {
		return order.Snapshot{}, errs.NewValidationError("order", res.Errors)
	}
	if _, exists := c.orderByID[fields.ID]; exists {
		return order.Snapshot{}, errs.NewDuplicateIDError("order", fields.ID)
	}
	if largest := c.largestWeightCapacity(); largest > 0 && *fields.Weight > largest {
		return order.Snapshot{}, errs.NewCapacityError(fields.ID, *fields.Weight, largest)
	}

	destination, err := kernel.NewPoint(*fields.Destination.X, *fields.Destination.Y)
	if err != nil {
		return order.Snapshot{}, err
	}
	priority := order.Medium
	if fields.Priority != nil {
		if priority, err = order.ParsePriority(*fields.Priority); err != nil {
			return order.Snapshot{}, err
		}
	}

	now := c.clock()
	o, err := order.NewOrder(fields.ID, destination, *fields.Weight, priority, now)
	if err != nil {
		return order.Snapshot{}, err
	}

	c.orders = append(c.orders, o)
	c.orderByID[o.ID()] = o
	c.queue.Insert(o)
	c.setCustomerStatus(o, MessagePending)
	c.logger.InfoContext(ctx, "Order created",
		"orderId", o.ID(), "weight", o.Weight(), "priority", o.Priority().String())
	return o.Snapshot(now), nil
}

// AddZone validates fields and adds an active exclusion zone.
func (c *Controller) AddZone(ctx context.Context, fields ports.ZoneFields) (zone.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if res := c.validator.ValidateZone(fields); !res.Valid {
		return zone.Snapshot{}, errs.NewValidationError("zone", res.Errors)
	}
	if _, exists := c.zoneByID[fields.ID]; exists {
		return zone.Snapshot{}, errs.NewDuplicateIDError("zone", fields.ID)
	}

	center, err := kernel.NewPoint(*fields.Center.X, *fields.Center.Y)
	if err != nil {
		return zone.Snapshot{}, err
	}
	z, err := zone.NewExclusionZone(fields.ID, center, *fields.Radius, valueOr(fields.SafetyRadius, 0), fields.Kind)
	if err != nil {
		return zone.Snapshot{}, err
	}

	c.zones = append(c.zones, z)
	c.zoneByID[z.ID()] = z
	c.logger.InfoContext(ctx, "Exclusion zone added",
		"zoneId", z.ID(), "radius", z.Radius(), "safetyRadius", z.SafetyRadius())
	return z.Snapshot(), nil
}

// SetZoneActive switches routing around zone id on or off.
func (c *Controller) SetZoneActive(ctx context.Context, id string, active bool) (zone.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	z, ok := c.zoneByID[id]
	if !ok {
		return zone.Snapshot{}, errs.NewObjectNotFoundError("zoneId", id)
	}
	if active {
		z.Activate()
	} else {
		z.Deactivate()
	}

	c.logger.InfoContext(ctx, "Exclusion zone toggled", "zoneId", id, "active", active)
	return z.Snapshot(), nil
}

func (c *Controller) largestWeightCapacity() float64 {
	largest := 0.0
	for _, v := range c.vehicles {
		largest = max(largest, v.WeightCapacity())
	}
	return largest
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
