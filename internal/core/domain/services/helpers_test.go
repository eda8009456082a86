package services_test

import (
	"testing"
	"time"

	"dronedelivery/internal/core/domain/model/kernel"
	"dronedelivery/internal/core/domain/model/order"
	"dronedelivery/internal/core/domain/model/vehicle"
	"dronedelivery/internal/core/domain/model/zone"

	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func point(t *testing.T, x, y float64) kernel.Point {
	t.Helper()
	p, err := kernel.NewPoint(x, y)
	require.NoError(t, err)
	return p
}

func newOrder(t *testing.T, id string, x, y, weight float64, priority order.Priority, arrivedAt time.Time) *order.Order {
	t.Helper()
	o, err := order.NewOrder(id, point(t, x, y), weight, priority, arrivedAt)
	require.NoError(t, err)
	return o
}

func newVehicle(t *testing.T, id string, weightCapacity, distanceCapacity float64) *vehicle.Vehicle {
	t.Helper()
	v, err := vehicle.NewVehicle(id, weightCapacity, distanceCapacity,
		vehicle.DefaultBatteryCapacity, vehicle.DefaultSpeed, kernel.Origin())
	require.NoError(t, err)
	return v
}

func newZone(t *testing.T, id string, x, y, radius, safety float64) *zone.ExclusionZone {
	t.Helper()
	z, err := zone.NewExclusionZone(id, point(t, x, y), radius, safety, "")
	require.NoError(t, err)
	return z
}

func ids(orders []*order.Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID())
	}
	return out
}
