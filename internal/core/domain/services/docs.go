// Package services provides the domain services that work across vehicles,
// orders and exclusion zones: the priority queue, the greedy allocator, the
// route/load optimizer and obstacle-aware distance.
//
// The package includes:
//   - PriorityQueue: orders ranked by priority weight and waiting time
//   - GreedyAllocator: multi-round and first-fit order placement
//   - RouteOptimizer: bounded subset search with nearest-neighbour sequencing
//   - DistanceWithObstacles: straight-line distance adjusted for exclusion zones
//
// None of the services are safe for concurrent use; the fleet controller
// serialises access to them.
package services
