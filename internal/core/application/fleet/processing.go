package fleet

import (
	"context"
	"slices"

	"dronedelivery/internal/core/domain/model/delivery"
	"dronedelivery/internal/core/domain/model/order"
	"dronedelivery/internal/core/domain/model/vehicle"
)

// MessageNothingToProcess is reported when a pass finds no pending orders.
const MessageNothingToProcess = "no pending orders to process"

// ProcessResult reports one processing pass. Allocation failures are reported
// here and never returned as errors.
type ProcessResult struct {
	Message  string            `json:"message,omitempty"`
	Strategy delivery.Strategy `json:"strategy,omitempty"`
	// Rounds is the number of greedy planning rounds; zero for the optimizer.
	Rounds int `json:"rounds"`
	// Trips is the number of vehicles dispatched.
	Trips int `json:"trips"`
	// Allocated is the number of orders dispatched.
	Allocated int `json:"allocated"`
	// Unallocated lists orders no vehicle could take.
	Unallocated []string `json:"unallocated"`
	// Deferred lists orders a multi-round plan put into an earlier round; they
	// are pending again. Rounds place high priority orders first, so deferred
	// orders can outrank the ones dispatched in the same pass.
	Deferred []string           `json:"deferred,omitempty"`
	Vehicles []vehicle.Snapshot `json:"vehicles,omitempty"`
}

// ProcessDeliveries runs an allocation pass over the pending orders with the
// route optimizer (useOptimizer) or the multi-round greedy allocator.
// With nothing pending it reports MessageNothingToProcess and changes nothing.
func (c *Controller) ProcessDeliveries(ctx context.Context, useOptimizer bool) (ProcessResult, error) {
	strategy := delivery.StrategyMultiRound
	if useOptimizer {
		strategy = delivery.StrategyOptimizer
	}
	return c.ProcessWith(ctx, strategy)
}

// ProcessWith runs an allocation pass with an explicit strategy.
//
// Returns:
//   - ProcessResult: what was dispatched, deferred and left pending
//   - error: ValueIsInvalidError for an unknown strategy, or the context error
func (c *Controller) ProcessWith(ctx context.Context, strategy delivery.Strategy) (ProcessResult, error) {
	if _, err := delivery.ParseStrategy(string(strategy)); err != nil {
		return ProcessResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return ProcessResult{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	pending := c.queue.Pending()
	if len(pending) == 0 {
		return ProcessResult{Message: MessageNothingToProcess, Strategy: strategy, Unallocated: []string{}}, nil
	}

	var result ProcessResult
	switch strategy {
	case delivery.StrategyOptimizer:
		result = c.processWithOptimizer(ctx, pending)
	case delivery.StrategyMultiRound:
		result = c.processMultiRound(ctx, pending)
	case delivery.StrategyFirstFit:
		result = c.processFirstFit(ctx, pending)
	}
	result.Strategy = strategy
	result.Vehicles = vehicle.Snapshots(c.vehicles)

	pass, err := delivery.NewAllocationPass(c.clock(), strategy, result.Trips, result.Allocated, len(result.Unallocated))
	if err != nil {
		c.logger.ErrorContext(ctx, "Failed to build allocation pass", "error", err)
	} else {
		c.recordPass(ctx, pass)
	}

	c.logger.InfoContext(ctx, "Allocation pass finished",
		"strategy", strategy,
		"trips", result.Trips,
		"allocated", result.Allocated,
		"unallocated", len(result.Unallocated),
		"deferred", len(result.Deferred),
	)
	return result, nil
}

// processWithOptimizer gives every available vehicle with enough battery its
// best-scoring subset of the remaining pending orders, in registration order.
func (c *Controller) processWithOptimizer(ctx context.Context, pending []*order.Order) ProcessResult {
	var result ProcessResult
	now := c.clock()

	for _, v := range c.vehicles {
		if !v.IsAvailable() || v.Battery() < vehicle.RechargeThreshold {
			continue
		}
		if !slices.ContainsFunc(pending, isPending) {
			break
		}

		best := c.optimizer.BestCombination(pending, v, c.zones)
		if !best.Viable() {
			continue
		}
		if err := v.LoadRoute(best.Orders, best.Distance); err != nil {
			c.logger.WarnContext(ctx, "Optimizer route rejected", "vehicleId", v.ID(), "error", err)
			continue
		}

		for _, o := range best.Orders {
			if err := o.Allocate(v.ID(), now); err != nil {
				c.logger.ErrorContext(ctx, "Failed to allocate order", "orderId", o.ID(), "error", err)
				continue
			}
			result.Allocated++
		}
		if c.dispatch(ctx, v) {
			result.Trips++
		}
	}

	result.Unallocated = pendingIDs(pending)
	return result
}

// processMultiRound plans with the multi-round allocator. Only the final
// round's loads are dispatched; orders planned for earlier rounds go back to
// pending so a later pass can place them.
func (c *Controller) processMultiRound(ctx context.Context, pending []*order.Order) ProcessResult {
	planned := c.allocator.AllocateMultiRound(c.vehicles, pending)

	aboard := make(map[string]bool)
	for _, v := range c.vehicles {
		if v.IsAvailable() {
			for _, o := range v.Orders() {
				aboard[o.ID()] = true
			}
		}
	}

	result := ProcessResult{Rounds: planned.Rounds}
	for _, o := range pending {
		if o.Status() != order.Allocated || aboard[o.ID()] {
			continue
		}
		if err := o.Release(); err != nil {
			c.logger.ErrorContext(ctx, "Failed to defer order", "orderId", o.ID(), "error", err)
			continue
		}
		result.Deferred = append(result.Deferred, o.ID())
	}

	c.dispatchLoaded(ctx, &result)
	result.Unallocated = idsOf(planned.Unallocated)
	return result
}

// processFirstFit runs a single greedy pass and dispatches every loaded vehicle.
func (c *Controller) processFirstFit(ctx context.Context, pending []*order.Order) ProcessResult {
	planned := c.allocator.AllocateFirstFit(c.vehicles, pending)

	result := ProcessResult{Rounds: planned.Rounds}
	c.dispatchLoaded(ctx, &result)
	result.Unallocated = idsOf(planned.Unallocated)
	return result
}

func (c *Controller) dispatchLoaded(ctx context.Context, result *ProcessResult) {
	for _, v := range c.vehicles {
		if !v.IsAvailable() || !v.HasOrders() {
			continue
		}
		loaded := len(v.Orders())
		if c.dispatch(ctx, v) {
			result.Trips++
			result.Allocated += loaded
		}
	}
}

// dispatch stamps delivery estimates on the orders aboard v and starts its trip.
func (c *Controller) dispatch(ctx context.Context, v *vehicle.Vehicle) bool {
	for _, o := range v.Orders() {
		o.SetEstimatedDelivery(v.EstimateDeliveryMinutes(o.Destination()))
		c.setCustomerStatus(o, MessageAllocated)
	}
	if err := v.StartTrip(c.sim.Now()); err != nil {
		c.logger.ErrorContext(ctx, "Failed to start trip", "vehicleId", v.ID(), "error", err)
		return false
	}
	c.logger.InfoContext(ctx, "Trip started", "vehicleId", v.ID(), "orders", len(v.Orders()))
	return true
}

func isPending(o *order.Order) bool {
	return o.Status() == order.Pending
}

func pendingIDs(orders []*order.Order) []string {
	ids := []string{}
	for _, o := range orders {
		if isPending(o) {
			ids = append(ids, o.ID())
		}
	}
	return ids
}

func idsOf(orders []*order.Order) []string {
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID())
	}
	return ids
}
