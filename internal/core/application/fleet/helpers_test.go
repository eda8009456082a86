package fleet_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"dronedelivery/internal/core/application/fleet"
	"dronedelivery/internal/core/application/validation"
	"dronedelivery/internal/core/domain/model/delivery"
	"dronedelivery/internal/core/domain/model/kernel"
	"dronedelivery/internal/core/ports"
	"dronedelivery/internal/pkg/logging"

	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 10, 14, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T {
	return &v
}

type fakeJournal struct {
	mu         sync.Mutex
	deliveries []delivery.Record
	passes     []delivery.AllocationPass
	err        error
}

func (j *fakeJournal) RecordDelivery(_ context.Context, r delivery.Record) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.deliveries = append(j.deliveries, r)
	return j.err
}

func (j *fakeJournal) RecordAllocationPass(_ context.Context, p delivery.AllocationPass) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.passes = append(j.passes, p)
	return j.err
}

type fakeTrigger struct {
	fn     func(ctx context.Context)
	starts int
	stops  int
}

func (t *fakeTrigger) Start(fn func(ctx context.Context)) error {
	t.starts++
	t.fn = fn
	return nil
}

func (t *fakeTrigger) Stop() { t.stops++ }

func newController(opts ...fleet.Option) *fleet.Controller {
	opts = append([]fleet.Option{fleet.WithClock(func() time.Time { return now })}, opts...)
	return fleet.New(kernel.Origin(), validation.NewFieldValidator(), logging.Discard(), opts...)
}

func registerVehicle(t *testing.T, c *fleet.Controller, id string, weight, distance float64) {
	t.Helper()
	_, err := c.RegisterVehicle(context.Background(), ports.VehicleFields{
		ID:               id,
		WeightCapacity:   ptr(weight),
		DistanceCapacity: ptr(distance),
	})
	require.NoError(t, err)
}

func orderFields(id string, x, y, weight float64, priority string) ports.OrderFields {
	return ports.OrderFields{
		ID:          id,
		Destination: &ports.PointFields{X: ptr(x), Y: ptr(y)},
		Weight:      ptr(weight),
		Priority:    ptr(priority),
	}
}

func createOrder(t *testing.T, c *fleet.Controller, id string, x, y, weight float64, priority string) {
	t.Helper()
	_, err := c.CreateOrder(context.Background(), orderFields(id, x, y, weight, priority))
	require.NoError(t, err)
}
