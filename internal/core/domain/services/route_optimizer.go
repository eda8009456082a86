package services

import (
	"cmp"
	"math"
	"slices"

	"dronedelivery/internal/core/domain/model/kernel"
	"dronedelivery/internal/core/domain/model/order"
	"dronedelivery/internal/core/domain/model/vehicle"
	"dronedelivery/internal/core/domain/model/zone"
)

const (
	// DefaultCombinationCap bounds the subsets scored per subset size.
	DefaultCombinationCap = 100

	maxSubsetSize       = 4
	truncatedCandidates = 8

	priorityBonus = 10.0
	countBonus    = 5.0
	noScore       = -1.0
)

// Combination is a scored, sequenced subset of orders for one vehicle.
type Combination struct {
	// Orders in visiting sequence.
	Orders              []*order.Order
	Score               float64
	Distance            float64
	Weight              float64
	WeightUtilization   float64
	DistanceUtilization float64
}

// Viable reports whether the combination can be committed.
func (c Combination) Viable() bool {
	return c.Score > 0 && len(c.Orders) > 0
}

// RouteOptimizer searches bounded subsets of pending orders for the best load of
// a single vehicle. Results are deterministic for identical inputs.
type RouteOptimizer struct {
	depot           kernel.Point
	maxCombinations int
}

// OptimizerOption configures a RouteOptimizer.
type OptimizerOption func(*RouteOptimizer)

// WithCombinationCap overrides DefaultCombinationCap. Values below 1 are ignored.
func WithCombinationCap(n int) OptimizerOption {
	return func(r *RouteOptimizer) {
		if n > 0 {
			r.maxCombinations = n
		}
	}
}

// NewRouteOptimizer creates an optimizer for routes that start and end at depot.
//
// Example:
//
//	opt := services.NewRouteOptimizer(depot, services.WithCombinationCap(50))
//	best := opt.BestCombination(pending, v, zones)
//	if best.Viable() { ... }
func NewRouteOptimizer(depot kernel.Point, opts ...OptimizerOption) *RouteOptimizer {
	r := &RouteOptimizer{depot: depot, maxCombinations: DefaultCombinationCap}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CombinationCap returns the configured cap.
func (r *RouteOptimizer) CombinationCap() int {
	return r.maxCombinations
}

// BestCombination scores subsets of the pending orders, largest size first
// (at most four), and keeps the first strictly higher score. When nothing is
// feasible a Combination with Score -1 and no orders is returned.
//
// The vehicle's capacities and battery are read; its state is not. Callers
// filter vehicles before asking.
func (r *RouteOptimizer) BestCombination(
	orders []*order.Order,
	v *vehicle.Vehicle,
	zones []*zone.ExclusionZone,
) Combination {
	available := make([]*order.Order, 0, len(orders))
	for _, o := range orders {
		if o != nil && o.Status() == order.Pending {
			available = append(available, o)
		}
	}

	best := Combination{Score: noScore}
	if len(available) == 0 {
		return best
	}

	for size := min(maxSubsetSize, len(available)); size >= 1; size-- {
		for _, subset := range r.combinations(available, size) {
			if c := r.ScoreCombination(subset, v, zones); c.Score > best.Score {
				best = c
			}
		}
	}

	if !best.Viable() {
		return Combination{Score: noScore}
	}
	return best
}

// ScoreCombination sequences orders and scores the resulting route for v.
//
// Score = mean(weight utilisation %, distance utilisation %) + 10 × Σ priority
// weights + 5 × order count. A route over either capacity, or one the vehicle's
// battery cannot cover with the reserve, scores -1. An empty subset scores 0.
func (r *RouteOptimizer) ScoreCombination(
	orders []*order.Order,
	v *vehicle.Vehicle,
	zones []*zone.ExclusionZone,
) Combination {
	if len(orders) == 0 {
		return Combination{}
	}

	route := r.Sequence(orders, zones)

	weight, prioritySum := 0.0, 0
	stops := make([]kernel.Point, 0, len(route))
	for _, o := range route {
		weight += o.Weight()
		prioritySum += o.Priority().Weight()
		stops = append(stops, o.Destination())
	}
	distance := RouteDistance(r.depot, stops, zones)

	if weight > v.WeightCapacity() || distance > v.DistanceCapacity() ||
		v.Battery() < v.RequiredBattery(distance, weight) {
		return Combination{Score: noScore, Distance: distance, Weight: weight}
	}

	weightUtil := weight / v.WeightCapacity() * 100
	distanceUtil := distance / v.DistanceCapacity() * 100
	score := (weightUtil+distanceUtil)/2 + priorityBonus*float64(prioritySum) + countBonus*float64(len(route))

	return Combination{
		Orders:              route,
		Score:               score,
		Distance:            distance,
		Weight:              weight,
		WeightUtilization:   weightUtil,
		DistanceUtilization: distanceUtil,
	}
}

// Sequence orders the stops by nearest neighbour from the depot using obstacle
// distance. Ties keep the earlier order.
func (r *RouteOptimizer) Sequence(orders []*order.Order, zones []*zone.ExclusionZone) []*order.Order {
	remaining := slices.Clone(orders)
	if len(remaining) <= 1 {
		return remaining
	}

	route := make([]*order.Order, 0, len(remaining))
	current := r.depot
	for len(remaining) > 0 {
		next, nearest := 0, math.Inf(1)
		for i, o := range remaining {
			if d := DistanceWithObstacles(current, o.Destination(), zones); d < nearest {
				next, nearest = i, d
			}
		}
		route = append(route, remaining[next])
		current = remaining[next].Destination()
		remaining = slices.Delete(remaining, next, next+1)
	}
	return route
}

// combinations lists subsets of the given size. Singletons come in input
// order. Larger subsets are drawn from candidates sorted by priority and weight
// (descending), restricted to the top eight when C(n, size) exceeds the cap, and
// truncated to the cap.
func (r *RouteOptimizer) combinations(orders []*order.Order, size int) [][]*order.Order {
	if size <= 0 || len(orders) < size {
		return nil
	}
	if size == 1 {
		out := make([][]*order.Order, len(orders))
		for i, o := range orders {
			out[i] = []*order.Order{o}
		}
		return out
	}

	candidates := slices.Clone(orders)
	slices.SortStableFunc(candidates, func(a, b *order.Order) int {
		if c := cmp.Compare(b.Priority().Weight(), a.Priority().Weight()); c != 0 {
			return c
		}
		return cmp.Compare(b.Weight(), a.Weight())
	})
	if binomialExceeds(len(candidates), size, r.maxCombinations) {
		candidates = candidates[:min(truncatedCandidates, len(candidates))]
	}

	var out [][]*order.Order
	var walk func(start int, picked []*order.Order)
	walk = func(start int, picked []*order.Order) {
		if len(out) >= r.maxCombinations {
			return
		}
		if len(picked) == size {
			out = append(out, slices.Clone(picked))
			return
		}
		for i := start; i <= len(candidates)-(size-len(picked)); i++ {
			walk(i+1, append(picked, candidates[i]))
		}
	}
	walk(0, make([]*order.Order, 0, size))
	return out
}

// binomialExceeds reports whether C(n, k) > limit without overflowing.
func binomialExceeds(n, k, limit int) bool {
	if k > n-k {
		k = n - k
	}
	c := 1
	for i := 1; i <= k; i++ {
		c = c * (n - k + i) / i
		if c > limit {
			return true
		}
	}
	return false
}
