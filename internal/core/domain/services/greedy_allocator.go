package services

import (
	"cmp"
	"slices"
	"time"

	"dronedelivery/internal/core/domain/model/kernel"
	"dronedelivery/internal/core/domain/model/order"
	"dronedelivery/internal/core/domain/model/vehicle"
)

// AllocationResult reports one allocator run. Allocation never fails: orders
// that fit nowhere are listed in Unallocated.
type AllocationResult struct {
	// Rounds is the number of greedy rounds (multi-round) or the trip count
	// implied by the vehicles' loads (first-fit).
	Rounds      int
	Allocated   int
	Unallocated []*order.Order
	Vehicles    []vehicle.Snapshot
}

// GreedyAllocator places orders into vehicles first-fit, highest priority and
// heaviest orders first. Feasibility is vehicle.CanCarry: exclusion zones are
// ignored and every order costs a straight depot round trip.
type GreedyAllocator struct {
	depot kernel.Point
	clock Clock
}

// NewGreedyAllocator creates an allocator for vehicles based at depot.
// A nil clock defaults to time.Now; it stamps order allocation times.
func NewGreedyAllocator(depot kernel.Point, clock Clock) *GreedyAllocator {
	if clock == nil {
		clock = time.Now
	}
	return &GreedyAllocator{depot: depot, clock: clock}
}

// AllocateMultiRound plans successive rounds until every order is placed or a
// round places nothing.
//
// Each round starts by discarding the trip plan of every available vehicle
// (the completed-trip counter is not touched), then tries every unallocated
// order against the vehicles in list order. Orders placed in an earlier round
// stay Allocated to the vehicle chosen in that round even though the vehicle's
// current plan only holds the last round's load.
//
// Parameters:
//   - vehicles: the fleet in registration order; busy vehicles are skipped
//   - orders: candidates; only Pending orders are placed
//
// Returns:
//   - AllocationResult: rounds run, orders placed, orders left pending, vehicle snapshots
//
// Example:
//
//	allocator := services.NewGreedyAllocator(depot, time.Now)
//	result := allocator.AllocateMultiRound(vehicles, queue.Pending())
//	for _, o := range result.Unallocated {
//		log.Printf("order %s waits for the next pass", o.ID())
//	}
func (a *GreedyAllocator) AllocateMultiRound(vehicles []*vehicle.Vehicle, orders []*order.Order) AllocationResult {
	sorted := sortForAllocation(orders)

	rounds, placed := 0, 0
	for hasPending(sorted) {
		rounds++
		for _, v := range vehicles {
			if v.IsAvailable() {
				v.ClearTrip()
			}
		}

		placedThisRound := 0
		for _, o := range sorted {
			if o.Status() != order.Pending {
				continue
			}
			if a.place(o, vehicles) {
				placedThisRound++
			}
		}

		placed += placedThisRound
		if placedThisRound == 0 {
			break
		}
	}

	return AllocationResult{
		Rounds:      rounds,
		Allocated:   placed,
		Unallocated: pendingOf(sorted),
		Vehicles:    vehicle.Snapshots(vehicles),
	}
}

// AllocateFirstFit runs a single pass on top of whatever the vehicles already carry.
// Rounds is the maximum over vehicles of completed trips plus one when loaded.
func (a *GreedyAllocator) AllocateFirstFit(vehicles []*vehicle.Vehicle, orders []*order.Order) AllocationResult {
	sorted := sortForAllocation(orders)

	placed := 0
	var unallocated []*order.Order
	for _, o := range sorted {
		if o.Status() != order.Pending {
			continue
		}
		if a.place(o, vehicles) {
			placed++
			continue
		}
		unallocated = append(unallocated, o)
	}

	trips := 0
	for _, v := range vehicles {
		n := v.CompletedTrips()
		if v.HasOrders() {
			n++
		}
		trips = max(trips, n)
	}

	return AllocationResult{
		Rounds:      trips,
		Allocated:   placed,
		Unallocated: unallocated,
		Vehicles:    vehicle.Snapshots(vehicles),
	}
}

// place puts o into the first vehicle that can carry it.
func (a *GreedyAllocator) place(o *order.Order, vehicles []*vehicle.Vehicle) bool {
	for _, v := range vehicles {
		if ok, _ := v.CanCarry(o, a.depot); !ok {
			continue
		}
		if err := o.Allocate(v.ID(), a.clock()); err != nil {
			return false
		}
		if err := v.AddOrder(o, a.depot); err != nil {
			_ = o.Release()
			continue
		}
		return true
	}
	return false
}

// sortForAllocation orders by priority descending, then weight descending.
// The input slice is left untouched.
func sortForAllocation(orders []*order.Order) []*order.Order {
	sorted := make([]*order.Order, 0, len(orders))
	for _, o := range orders {
		if o != nil {
			sorted = append(sorted, o)
		}
	}
	slices.SortStableFunc(sorted, func(a, b *order.Order) int {
		if c := cmp.Compare(b.Priority().Weight(), a.Priority().Weight()); c != 0 {
			return c
		}
		return cmp.Compare(b.Weight(), a.Weight())
	})
	return sorted
}

func hasPending(orders []*order.Order) bool {
	return slices.ContainsFunc(orders, func(o *order.Order) bool {
		return o.Status() == order.Pending
	})
}

func pendingOf(orders []*order.Order) []*order.Order {
	var pending []*order.Order
	for _, o := range orders {
		if o.Status() == order.Pending {
			pending = append(pending, o)
		}
	}
	return pending
}
