package services_test

import (
	"testing"
	"time"

	"dronedelivery/internal/core/domain/model/order"
	"dronedelivery/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityQueue_Ordering(t *testing.T) {
	now := baseTime.Add(2 * time.Hour)

	t.Run("should rank by priority weight and capped wait bonus", func(t *testing.T) {
		q := services.NewPriorityQueue(fixedClock(now))
		lowOld := newOrder(t, "LOW", 1, 1, 1, order.Low, now.Add(-100*time.Minute))      // 100 + 50
		mediumOld := newOrder(t, "MED", 1, 1, 1, order.Medium, now.Add(-30*time.Minute)) // 200 + 50
		highNew := newOrder(t, "HIGH", 1, 1, 1, order.High, now)                         // 300

		q.Insert(lowOld)
		q.Insert(mediumOld)
		q.Insert(highNew)

		assert.Equal(t, []string{"HIGH", "MED", "LOW"}, ids(q.Pending()))
		assert.Equal(t, "HIGH", q.PeekNext().ID())
	})

	t.Run("ties are broken by earlier arrival", func(t *testing.T) {
		q := services.NewPriorityQueue(fixedClock(now))
		younger := newOrder(t, "YOUNG", 1, 1, 1, order.Medium, now.Add(-40*time.Minute))
		older := newOrder(t, "OLD", 1, 1, 1, order.Medium, now.Add(-60*time.Minute))

		q.InsertBatch([]*order.Order{younger, older})

		assert.Equal(t, []string{"OLD", "YOUNG"}, ids(q.Pending()))
	})

	t.Run("wait bonus lets an old order overtake a fresh one of the same tier", func(t *testing.T) {
		q := services.NewPriorityQueue(fixedClock(now))
		fresh := newOrder(t, "FRESH", 1, 1, 1, order.Low, now.Add(-time.Minute))
		waiting := newOrder(t, "WAITING", 1, 1, 1, order.Low, now.Add(-10*time.Minute))

		q.Insert(fresh)
		q.Insert(waiting)

		assert.Equal(t, "WAITING", q.PeekNext().ID())
	})
}

func TestPriorityQueue_PeekAndPop(t *testing.T) {
	q := services.NewPriorityQueue(fixedClock(baseTime))

	assert.Nil(t, q.PeekNext())
	assert.Nil(t, q.PopNext())

	q.InsertBatch([]*order.Order{
		newOrder(t, "A", 1, 1, 1, order.Low, baseTime),
		newOrder(t, "B", 1, 1, 1, order.High, baseTime),
	})
	require.Equal(t, 2, q.Len())

	assert.Equal(t, "B", q.PeekNext().ID())
	assert.Equal(t, 2, q.Len(), "peek must not remove")

	assert.Equal(t, "B", q.PopNext().ID())
	assert.Equal(t, "A", q.PopNext().ID())
	assert.Nil(t, q.PopNext())
	assert.Zero(t, q.Len())
}

func TestPriorityQueue_PendingAndStats(t *testing.T) {
	now := baseTime.Add(time.Hour)
	q := services.NewPriorityQueue(fixedClock(now))

	high := newOrder(t, "H", 1, 1, 1, order.High, now.Add(-10*time.Minute))
	medium := newOrder(t, "M", 1, 1, 1, order.Medium, now.Add(-20*time.Minute))
	allocated := newOrder(t, "X", 1, 1, 1, order.Low, now.Add(-30*time.Minute))
	require.NoError(t, allocated.Allocate("D1", now))

	q.InsertBatch([]*order.Order{high, medium, allocated})

	t.Run("pending excludes allocated orders but Len keeps them", func(t *testing.T) {
		assert.Equal(t, []string{"H", "M"}, ids(q.Pending()))
		assert.Equal(t, 3, q.Len())
	})

	t.Run("stats count pending per tier with mean wait", func(t *testing.T) {
		stats := q.Stats()

		assert.Equal(t, 2, stats.TotalPending)
		assert.Equal(t, map[string]int{"high": 1, "medium": 1, "low": 0}, stats.ByPriority)
		assert.InDelta(t, 15.0, stats.MeanWaitMinutes, 1e-9)
		assert.Equal(t, "H", stats.NextOrderID)
	})

	t.Run("clear empties the queue", func(t *testing.T) {
		q.Clear()

		assert.Zero(t, q.Len())
		stats := q.Stats()
		assert.Zero(t, stats.TotalPending)
		assert.Zero(t, stats.MeanWaitMinutes)
		assert.Empty(t, stats.NextOrderID)
	})
}

func TestPriorityQueue_IgnoresNil(t *testing.T) {
	q := services.NewPriorityQueue(nil)

	q.Insert(nil)
	q.InsertBatch([]*order.Order{nil})

	assert.Zero(t, q.Len())
}
