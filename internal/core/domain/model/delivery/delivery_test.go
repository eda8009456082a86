package delivery_test

import (
	"encoding/json"
	"testing"
	"time"

	"dronedelivery/internal/core/domain/model/delivery"
	"dronedelivery/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("should create record with fresh id", func(t *testing.T) {
		r, err := delivery.NewRecord("P1", "D1", 12.5, at, 42)

		require.NoError(t, err)
		require.NoError(t, r.Validate())
		require.NoError(t, r.ID().Validate())
		assert.Equal(t, "P1", r.OrderID())
		assert.Equal(t, "D1", r.VehicleID())
		assert.InDelta(t, 12.5, r.WaitMinutes(), 1e-9)
		assert.Equal(t, at, r.DeliveredAt())
		assert.InDelta(t, 42.0, r.SimulatedMinute(), 1e-9)
	})

	t.Run("should reject missing identifiers and negative wait", func(t *testing.T) {
		_, err := delivery.RestoreRecord(kernel.UUID{}, "", "", -1, at, 0)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "orderID")
		assert.Contains(t, err.Error(), "vehicleID")
		assert.Contains(t, err.Error(), "waitMinutes")
	})

	t.Run("should marshal to JSON", func(t *testing.T) {
		id, _ := kernel.UUIDFromString("550e8400-e29b-41d4-a716-446655440000")
		r, err := delivery.RestoreRecord(id, "P1", "D1", 3, at, 7)
		require.NoError(t, err)

		out, err := json.Marshal(r)

		require.NoError(t, err)
		assert.JSONEq(t, `{
			"id":"550e8400-e29b-41d4-a716-446655440000",
			"orderId":"P1","vehicleId":"D1","waitMinutes":3,
			"deliveredAt":"2024-05-01T12:00:00Z","simulatedMinute":7}`, string(out))
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var r delivery.Record
		require.ErrorIs(t, r.Validate(), delivery.ErrRecordIsNotConstructed)
	})
}

func TestNewAllocationPass(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("should create pass", func(t *testing.T) {
		p, err := delivery.NewAllocationPass(at, delivery.StrategyOptimizer, 2, 5, 1)

		require.NoError(t, err)
		require.NoError(t, p.Validate())
		assert.Equal(t, delivery.StrategyOptimizer, p.Strategy())
		assert.Equal(t, 2, p.Trips())
		assert.Equal(t, 5, p.Allocated())
		assert.Equal(t, 1, p.Unallocated())
	})

	t.Run("should reject unknown strategy and negative counts", func(t *testing.T) {
		_, err := delivery.NewAllocationPass(at, "random", -1, 0, 0)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "strategy")
		assert.Contains(t, err.Error(), "counts")
	})
}

func TestParseStrategy(t *testing.T) {
	for _, s := range []string{"optimizer", "multi-round", "first-fit"} {
		got, err := delivery.ParseStrategy(s)

		require.NoError(t, err)
		assert.Equal(t, delivery.Strategy(s), got)
	}

	_, err := delivery.ParseStrategy("")
	require.Error(t, err)
}
