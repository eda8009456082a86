package order_test

import (
	"testing"
	"time"

	"dronedelivery/internal/core/domain/model/kernel"
	"dronedelivery/internal/core/domain/model/order"
	"dronedelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func createValidOrder(t *testing.T, id string, weight float64, priority order.Priority) *order.Order {
	t.Helper()
	dest, err := kernel.NewPoint(3, 5)
	require.NoError(t, err)

	o, err := order.NewOrder(id, dest, weight, priority, baseTime)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	dest, _ := kernel.NewPoint(3, 5)

	t.Run("should create pending order with valid parameters", func(t *testing.T) {
		o, err := order.NewOrder("P1", dest, 4.5, order.High, baseTime)

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.Equal(t, "P1", o.ID())
		assert.True(t, o.Destination().IsEqual(dest))
		assert.InDelta(t, 4.5, o.Weight(), 1e-9)
		assert.Equal(t, order.High, o.Priority())
		assert.Equal(t, order.Pending, o.Status())
		assert.False(t, o.IsAllocated())
		assert.Empty(t, o.VehicleID())
	})

	t.Run("should fail with empty id", func(t *testing.T) {
		o, err := order.NewOrder("", dest, 1, order.Medium, baseTime)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Nil(t, o)
	})

	t.Run("should fail with non-positive weight", func(t *testing.T) {
		for _, w := range []float64{0, -2} {
			o, err := order.NewOrder("P1", dest, w, order.Medium, baseTime)

			require.ErrorIs(t, err, errs.ErrValueIsInvalid)
			assert.Contains(t, err.Error(), "is not greater than 0")
			assert.Nil(t, o)
		}
	})

	t.Run("should join every field error", func(t *testing.T) {
		var zeroPoint kernel.Point

		o, err := order.NewOrder("", zeroPoint, -1, order.Priority(7), time.Time{})

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "value is required: id")
		assert.Contains(t, err.Error(), "point must be created")
		assert.Contains(t, err.Error(), "weight")
		assert.Contains(t, err.Error(), "priority")
		assert.Contains(t, err.Error(), "arrivedAt")
	})
}

func TestOrder_Validate(t *testing.T) {
	var zero order.Order
	require.ErrorIs(t, zero.Validate(), order.ErrOrderIsNotConstructed)

	var nilOrder *order.Order
	require.ErrorIs(t, nilOrder.Validate(), order.ErrOrderIsNotConstructed)
}

func TestOrder_Lifecycle(t *testing.T) {
	t.Run("allocate then deliver", func(t *testing.T) {
		o := createValidOrder(t, "P1", 2, order.Medium)
		allocatedAt := baseTime.Add(3 * time.Minute)
		deliveredAt := baseTime.Add(10 * time.Minute)

		require.NoError(t, o.Allocate("D1", allocatedAt))
		assert.True(t, o.IsAllocated())
		assert.Equal(t, "D1", o.VehicleID())
		assert.Equal(t, allocatedAt, o.AllocatedAt())

		require.NoError(t, o.MarkDelivered(deliveredAt))
		assert.True(t, o.IsDelivered())
		assert.True(t, o.IsAllocated())
		assert.Equal(t, deliveredAt, o.DeliveredAt())
	})

	t.Run("allocate requires vehicle id", func(t *testing.T) {
		o := createValidOrder(t, "P1", 2, order.Medium)

		require.ErrorIs(t, o.Allocate("", baseTime), errs.ErrValueIsRequired)
		assert.Equal(t, order.Pending, o.Status())
	})

	t.Run("double allocation is rejected", func(t *testing.T) {
		o := createValidOrder(t, "P1", 2, order.Medium)
		require.NoError(t, o.Allocate("D1", baseTime))

		err := o.Allocate("D2", baseTime)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, "D1", o.VehicleID())
	})

	t.Run("release clears vehicle and estimate", func(t *testing.T) {
		o := createValidOrder(t, "P1", 2, order.Medium)
		require.NoError(t, o.Allocate("D1", baseTime))
		o.SetEstimatedDelivery(12.5)

		require.NoError(t, o.Release())

		assert.Equal(t, order.Pending, o.Status())
		assert.False(t, o.IsAllocated())
		assert.Empty(t, o.VehicleID())
		assert.True(t, o.AllocatedAt().IsZero())
		_, ok := o.EstimatedDeliveryMinutes()
		assert.False(t, ok)
	})

	t.Run("delivered order is immutable", func(t *testing.T) {
		o := createValidOrder(t, "P1", 2, order.Medium)
		require.NoError(t, o.Allocate("D1", baseTime))
		deliveredAt := baseTime.Add(5 * time.Minute)
		require.NoError(t, o.MarkDelivered(deliveredAt))

		require.Error(t, o.MarkDelivered(baseTime.Add(time.Hour)))
		require.Error(t, o.Release())
		require.Error(t, o.Allocate("D2", baseTime))
		o.SetEstimatedDelivery(99)

		assert.Equal(t, deliveredAt, o.DeliveredAt())
		_, ok := o.EstimatedDeliveryMinutes()
		assert.False(t, ok)
	})

	t.Run("cannot deliver a pending order", func(t *testing.T) {
		o := createValidOrder(t, "P1", 2, order.Medium)

		require.ErrorIs(t, o.MarkDelivered(baseTime), errs.ErrValueIsInvalid)
	})
}

func TestOrder_WaitMinutes(t *testing.T) {
	o := createValidOrder(t, "P1", 2, order.Low)

	assert.InDelta(t, 7.0, o.WaitMinutes(baseTime.Add(7*time.Minute)), 1e-9)
	assert.InDelta(t, 0.0, o.WaitMinutes(baseTime.Add(-time.Minute)), 1e-9, "clock skew never yields negative waits")

	require.NoError(t, o.Allocate("D1", baseTime.Add(4*time.Minute)))
	assert.InDelta(t, 4.0, o.WaitMinutes(baseTime.Add(30*time.Minute)), 1e-9)

	require.NoError(t, o.MarkDelivered(baseTime.Add(9*time.Minute)))
	assert.InDelta(t, 9.0, o.WaitMinutes(baseTime.Add(time.Hour)), 1e-9)
}

func TestOrder_PriorityScore(t *testing.T) {
	tests := []struct {
		name     string
		priority order.Priority
		waited   time.Duration
		expected float64
	}{
		{name: "fresh high", priority: order.High, waited: 0, expected: 300},
		{name: "medium after ten minutes", priority: order.Medium, waited: 10 * time.Minute, expected: 220},
		{name: "low wait bonus is capped", priority: order.Low, waited: 2 * time.Hour, expected: 150},
		{name: "cap reached exactly at 25 minutes", priority: order.Medium, waited: 25 * time.Minute, expected: 250},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o := createValidOrder(t, "P1", 1, tc.priority)

			assert.InDelta(t, tc.expected, o.PriorityScore(baseTime.Add(tc.waited)), 1e-9)
		})
	}
}

func TestOrder_Snapshot(t *testing.T) {
	o := createValidOrder(t, "P1", 2, order.High)
	require.NoError(t, o.Allocate("D1", baseTime.Add(time.Minute)))
	o.SetEstimatedDelivery(8.83)

	s := o.Snapshot(baseTime.Add(5 * time.Minute))

	assert.Equal(t, "P1", s.ID)
	assert.Equal(t, "high", s.Priority)
	assert.Equal(t, "allocated", s.Status)
	assert.True(t, s.Allocated)
	assert.Equal(t, "D1", s.VehicleID)
	require.NotNil(t, s.AllocatedAt)
	assert.Nil(t, s.DeliveredAt)
	require.NotNil(t, s.EstimatedDeliveryMinutes)
	assert.InDelta(t, 8.83, *s.EstimatedDeliveryMinutes, 1e-9)
	assert.InDelta(t, 1.0, s.WaitMinutes, 1e-9)
}
