// Package vehicle models delivery drones: capacity limits, battery drain,
// the operational state machine with its history, and the trip each vehicle
// owns (orders aboard plus committed weight and distance).
//
// Feasibility rules used by the allocators live here so that every placement
// path applies the same checks:
//
//	committed weight + order weight ≤ weight capacity
//	committed distance + round trip ≤ distance capacity
//	battery ≥ drain(round trip, new load)
//	state ∈ {Idle, Recharging}
package vehicle
