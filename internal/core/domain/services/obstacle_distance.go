package services

import (
	"math"

	"dronedelivery/internal/core/domain/model/kernel"
	"dronedelivery/internal/core/domain/model/zone"
)

// DistanceWithObstacles returns the flight distance from a to b.
//
// It starts from the straight-line distance. For every active zone whose
// safety circle reaches the segment, the detour through a single waypoint
// (zone center offset by the safety radius, perpendicular to the heading) is
// computed, and the larger of the running distance and the detour is kept.
// Detours are not summed across zones.
//
// Example:
//
//	d := services.DistanceWithObstacles(depot, dest, zones)
func DistanceWithObstacles(a, b kernel.Point, zones []*zone.ExclusionZone) float64 {
	distance := a.DistanceTo(b)
	for _, z := range IntersectingZones(a, b, zones) {
		distance = math.Max(distance, z.BypassDistance(a, b))
	}
	return distance
}

// IntersectingZones returns the active zones whose safety circle reaches the segment a-b,
// in the order given.
func IntersectingZones(a, b kernel.Point, zones []*zone.ExclusionZone) []*zone.ExclusionZone {
	var hits []*zone.ExclusionZone
	for _, z := range zones {
		if z == nil || !z.IsActive() {
			continue
		}
		if z.IntersectsSegment(a, b) {
			hits = append(hits, z)
		}
	}
	return hits
}

// RouteDistance returns the length of depot -> stops... -> depot with obstacle detours.
func RouteDistance(depot kernel.Point, stops []kernel.Point, zones []*zone.ExclusionZone) float64 {
	if len(stops) == 0 {
		return 0
	}

	total := 0.0
	current := depot
	for _, stop := range stops {
		total += DistanceWithObstacles(current, stop, zones)
		current = stop
	}
	return total + DistanceWithObstacles(current, depot, zones)
}
