package services_test

import (
	"math"
	"testing"

	"dronedelivery/internal/core/domain/model/kernel"
	"dronedelivery/internal/core/domain/model/zone"
	"dronedelivery/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
)

func TestDistanceWithObstacles(t *testing.T) {
	a := kernel.Origin()
	b := point(t, 10, 0)

	t.Run("straight line without zones", func(t *testing.T) {
		assert.InDelta(t, 10.0, services.DistanceWithObstacles(a, b, nil), 1e-9)
	})

	t.Run("bypass through perpendicular waypoint", func(t *testing.T) {
		z := newZone(t, "Z1", 5, 0, 1, 2)

		got := services.DistanceWithObstacles(a, b, []*zone.ExclusionZone{z})

		// waypoint (5, 2)
		assert.InDelta(t, 2*math.Hypot(5, 2), got, 1e-9)
	})

	t.Run("keeps the larger detour instead of summing", func(t *testing.T) {
		far := newZone(t, "Z1", 5, 0, 1, 2)
		near := newZone(t, "Z2", 3, 0, 0.5, 1)

		got := services.DistanceWithObstacles(a, b, []*zone.ExclusionZone{near, far})

		bigger := 2 * math.Hypot(5, 2)
		smaller := math.Hypot(3, 1) + math.Hypot(7, 1)
		assert.InDelta(t, math.Max(bigger, smaller), got, 1e-9)
		assert.Less(t, got, bigger+smaller-10)
	})

	t.Run("ignores inactive zones", func(t *testing.T) {
		z := newZone(t, "Z1", 5, 0, 1, 2)
		z.Deactivate()

		assert.InDelta(t, 10.0, services.DistanceWithObstacles(a, b, []*zone.ExclusionZone{z}), 1e-9)
	})

	t.Run("ignores zones whose safety circle misses the segment", func(t *testing.T) {
		z := newZone(t, "Z1", 5, 5, 1, 2)

		assert.InDelta(t, 10.0, services.DistanceWithObstacles(a, b, []*zone.ExclusionZone{z}), 1e-9)
	})

	t.Run("zone beyond segment end is not counted", func(t *testing.T) {
		z := newZone(t, "Z1", 14, 0, 1, 2)

		assert.InDelta(t, 10.0, services.DistanceWithObstacles(a, b, []*zone.ExclusionZone{z}), 1e-9)
	})
}

func TestIntersectingZones(t *testing.T) {
	a := kernel.Origin()
	b := point(t, 10, 0)
	hit := newZone(t, "HIT", 5, 1, 1, 2)
	miss := newZone(t, "MISS", 5, 8, 1, 2)
	off := newZone(t, "OFF", 2, 0, 1, 2)
	off.Deactivate()

	got := services.IntersectingZones(a, b, []*zone.ExclusionZone{miss, hit, off, nil})

	assert.Len(t, got, 1)
	assert.Equal(t, "HIT", got[0].ID())
}

func TestRouteDistance(t *testing.T) {
	depot := kernel.Origin()

	t.Run("includes return leg", func(t *testing.T) {
		stops := []kernel.Point{point(t, 3, 4), point(t, 6, 8)}

		assert.InDelta(t, 20.0, services.RouteDistance(depot, stops, nil), 1e-9)
	})

	t.Run("empty route is zero", func(t *testing.T) {
		assert.Zero(t, services.RouteDistance(depot, nil, nil))
	})
}
