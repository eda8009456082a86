package services

import (
	"cmp"
	"math"
	"slices"
	"time"

	"dronedelivery/internal/core/domain/model/order"
)

// Clock returns the current wall-clock time.
type Clock func() time.Time

// QueueStats summarises the pending part of a PriorityQueue.
type QueueStats struct {
	TotalPending    int            `json:"totalPending"`
	ByPriority      map[string]int `json:"byPriority"`
	MeanWaitMinutes float64        `json:"meanWaitMinutes"`
	NextOrderID     string         `json:"nextOrderId,omitempty"`
}

// PriorityQueue keeps every known order, allocated or not, in one sequence
// ranked by order.PriorityScore (descending) and arrival time (ascending).
// The sequence is re-sorted on every insert; scores depend on the clock, so
// ranking between inserts reflects the time of the last insert.
type PriorityQueue struct {
	orders []*order.Order
	clock  Clock
}

// NewPriorityQueue creates an empty queue. A nil clock defaults to time.Now.
func NewPriorityQueue(clock Clock) *PriorityQueue {
	if clock == nil {
		clock = time.Now
	}
	return &PriorityQueue{clock: clock}
}

// Insert adds o and re-sorts. Equal scores go to the earlier arrival, then to
// the earlier insertion.
//
// Parameters:
//   - o: a constructed order; nil is ignored
//
// Example:
//
//	q := services.NewPriorityQueue(time.Now)
//	q.Insert(o)
//	next := q.PeekNext() // highest priority weight and wait bonus first
func (q *PriorityQueue) Insert(o *order.Order) {
	if o == nil {
		return
	}
	q.orders = append(q.orders, o)
	q.sort()
}

// InsertBatch adds every order and sorts once.
func (q *PriorityQueue) InsertBatch(orders []*order.Order) {
	for _, o := range orders {
		if o != nil {
			q.orders = append(q.orders, o)
		}
	}
	q.sort()
}

// PeekNext returns the head of the queue without removing it, or nil when empty.
func (q *PriorityQueue) PeekNext() *order.Order {
	if len(q.orders) == 0 {
		return nil
	}
	return q.orders[0]
}

// PopNext removes and returns the head of the queue, or nil when empty.
func (q *PriorityQueue) PopNext() *order.Order {
	if len(q.orders) == 0 {
		return nil
	}
	head := q.orders[0]
	q.orders[0] = nil
	q.orders = q.orders[1:]
	return head
}

// Pending returns the pending orders in queue order.
func (q *PriorityQueue) Pending() []*order.Order {
	pending := make([]*order.Order, 0, len(q.orders))
	for _, o := range q.orders {
		if o.Status() == order.Pending {
			pending = append(pending, o)
		}
	}
	return pending
}

// Stats counts pending orders per priority tier and their mean wait, rounded to
// one decimal. NextOrderID is the head of the queue regardless of its status.
func (q *PriorityQueue) Stats() QueueStats {
	now := q.clock()
	pending := q.Pending()

	stats := QueueStats{
		TotalPending: len(pending),
		ByPriority: map[string]int{
			order.High.String():   0,
			order.Medium.String(): 0,
			order.Low.String():    0,
		},
	}

	totalWait := 0.0
	for _, o := range pending {
		stats.ByPriority[o.Priority().String()]++
		totalWait += o.WaitMinutes(now)
	}
	if len(pending) > 0 {
		stats.MeanWaitMinutes = math.Round(totalWait/float64(len(pending))*10) / 10
	}
	if next := q.PeekNext(); next != nil {
		stats.NextOrderID = next.ID()
	}
	return stats
}

// Len returns the number of orders held, allocated ones included.
func (q *PriorityQueue) Len() int {
	return len(q.orders)
}

// Clear empties the queue.
func (q *PriorityQueue) Clear() {
	q.orders = nil
}

func (q *PriorityQueue) sort() {
	now := q.clock()
	slices.SortStableFunc(q.orders, func(a, b *order.Order) int {
		if c := cmp.Compare(b.PriorityScore(now), a.PriorityScore(now)); c != 0 {
			return c
		}
		return a.ArrivedAt().Compare(b.ArrivedAt())
	})
}
