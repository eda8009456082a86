package fleet

import (
	"context"

	"dronedelivery/internal/core/domain/model/order"
	"dronedelivery/internal/core/domain/model/vehicle"
	"dronedelivery/internal/core/domain/model/zone"
)

// ClearAssignments discards every trip while keeping the registered entities.
// Idle and recharging vehicles drop their planned loads; busy vehicles are
// recalled to the depot and become idle. Allocated, undelivered orders return
// to pending and stay queued. Delivery and allocation histories are emptied.
func (c *Controller) ClearAssignments(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.sim.Now()
	for _, v := range c.vehicles {
		if v.IsAvailable() {
			v.ClearTrip()
			continue
		}
		v.RecallTo(c.depot, now)
	}

	released := 0
	for _, o := range c.orders {
		if o.Status() != order.Allocated {
			continue
		}
		if err := o.Release(); err != nil {
			c.logger.ErrorContext(ctx, "Failed to release order", "orderId", o.ID(), "error", err)
			continue
		}
		c.setCustomerStatus(o, MessageReturnedToQueue)
		released++
	}

	c.deliveries = nil
	c.passes = nil
	c.logger.InfoContext(ctx, "Assignments cleared", "releasedOrders", released)
}

// Reset stops the simulation and removes every vehicle, order, zone and
// history entry. Observers stay subscribed.
func (c *Controller) Reset(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sim.Reset(ctx)

	c.vehicles = nil
	c.orders = nil
	c.zones = nil
	c.vehicleByID = make(map[string]*vehicle.Vehicle)
	c.orderByID = make(map[string]*order.Order)
	c.zoneByID = make(map[string]*zone.ExclusionZone)
	c.queue.Clear()
	c.deliveries = nil
	c.passes = nil
	c.customerStatus = make(map[string]CustomerStatus)

	c.logger.InfoContext(ctx, "Fleet reset")
}
