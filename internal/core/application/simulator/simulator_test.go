package simulator_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dronedelivery/internal/core/application/simulator"
	"dronedelivery/internal/core/domain/model/kernel"
	"dronedelivery/internal/core/domain/model/order"
	"dronedelivery/internal/core/domain/model/vehicle"
	"dronedelivery/internal/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wallClock = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

type delivered struct {
	orderID   string
	vehicleID string
	minute    float64
}

type fakeFleet struct {
	vehicles  []*vehicle.Vehicle
	depot     kernel.Point
	delivered []delivered
	released  []*order.Order
}

func (f *fakeFleet) Vehicles() []*vehicle.Vehicle { return f.vehicles }
func (f *fakeFleet) Depot() kernel.Point          { return f.depot }

func (f *fakeFleet) RecordDelivery(_ context.Context, o *order.Order, v *vehicle.Vehicle, minute float64) {
	f.delivered = append(f.delivered, delivered{orderID: o.ID(), vehicleID: v.ID(), minute: minute})
}

func (f *fakeFleet) ReleaseUndelivered(_ context.Context, orders []*order.Order) {
	for _, o := range orders {
		_ = o.Release()
	}
	f.released = append(f.released, orders...)
}

type fakeTrigger struct {
	starts, stops int
	fn            func(ctx context.Context)
	startErr      error
}

func (t *fakeTrigger) Start(fn func(ctx context.Context)) error {
	if t.startErr != nil {
		return t.startErr
	}
	t.starts++
	t.fn = fn
	return nil
}

func (t *fakeTrigger) Stop() { t.stops++ }

type countingLocker struct {
	sync.Mutex
	locks int
}

func (l *countingLocker) Lock() {
	l.Mutex.Lock()
	l.locks++
}

// loadedVehicle returns a vehicle at the depot in Loading with one 2 kg order at (3, 4).
func loadedVehicle(t *testing.T, battery float64) (*vehicle.Vehicle, *order.Order) {
	t.Helper()
	v, err := vehicle.NewVehicle("D1", 10, 50, vehicle.DefaultBatteryCapacity, vehicle.DefaultSpeed, kernel.Origin())
	require.NoError(t, err)
	v.SetBattery(battery)

	dest, err := kernel.NewPoint(3, 4)
	require.NoError(t, err)
	o, err := order.NewOrder("P1", dest, 2, order.Medium, wallClock.Add(-30*time.Minute))
	require.NoError(t, err)

	require.NoError(t, v.AddOrder(o, kernel.Origin()))
	require.NoError(t, o.Allocate(v.ID(), wallClock))
	require.NoError(t, v.StartTrip(0))
	return v, o
}

func newSimulator(fleet simulator.Fleet, trigger *fakeTrigger, opts ...simulator.Option) *simulator.Simulator {
	opts = append([]simulator.Option{simulator.WithClock(func() time.Time { return wallClock })}, opts...)
	if trigger == nil {
		return simulator.New(fleet, nil, logging.Discard(), opts...)
	}
	return simulator.New(fleet, trigger, logging.Discard(), opts...)
}

func TestSimulator_DeliveryCycle(t *testing.T) {
	ctx := context.Background()
	v, o := loadedVehicle(t, 100)
	fleet := &fakeFleet{vehicles: []*vehicle.Vehicle{v}, depot: kernel.Origin()}
	sim := newSimulator(fleet, nil)

	var states []vehicle.State
	_, err := sim.On(simulator.StateChanged, func(_ context.Context, n simulator.Notification) error {
		states = append(states, n.State)
		return nil
	})
	require.NoError(t, err)

	t.Run("loading waits one minute", func(t *testing.T) {
		require.NoError(t, sim.Advance(ctx, 0.5))
		assert.Equal(t, vehicle.Loading, v.State())

		require.NoError(t, sim.Advance(ctx, 0.5))
		assert.Equal(t, vehicle.Flying, v.State())
	})

	t.Run("flying takes the leg time and drains the battery", func(t *testing.T) {
		require.NoError(t, sim.Advance(ctx, 9))
		assert.Equal(t, vehicle.Flying, v.State(), "5 units at 30/h is 10 minutes")

		require.NoError(t, sim.Advance(ctx, 1))
		assert.Equal(t, vehicle.Delivering, v.State())
		assert.True(t, v.Position().IsEqual(o.Destination()))
		assert.InDelta(t, 100-2.8, v.Battery(), 1e-9)
	})

	t.Run("delivering hands over the order and heads home", func(t *testing.T) {
		require.NoError(t, sim.Advance(ctx, 2))

		assert.Equal(t, vehicle.Returning, v.State())
		assert.Equal(t, order.Delivered, o.Status())
		assert.Equal(t, wallClock, o.DeliveredAt())
		require.Len(t, fleet.delivered, 1)
		assert.Equal(t, delivered{orderID: "P1", vehicleID: "D1", minute: 13}, fleet.delivered[0])
	})

	t.Run("returning lands at the depot and completes the trip", func(t *testing.T) {
		require.NoError(t, sim.Advance(ctx, 10))

		assert.Equal(t, vehicle.Idle, v.State())
		assert.True(t, v.Position().IsEqual(kernel.Origin()))
		assert.Equal(t, 1, v.CompletedTrips())
		assert.False(t, v.HasOrders())
		assert.InDelta(t, 100-2.8-2.5, v.Battery(), 1e-9)
		assert.InDelta(t, 20.0, v.FlightMinutes(), 1e-9)
		assert.InDelta(t, 10.0, v.DistanceFlown(), 1e-9)
		assert.Empty(t, fleet.released)
	})

	assert.Equal(t, []vehicle.State{
		vehicle.Flying, vehicle.Delivering, vehicle.Returning, vehicle.Idle,
	}, states)
	assert.InDelta(t, 23.0, sim.Now(), 1e-9)
}

func TestSimulator_LowBatteryLandingRecharges(t *testing.T) {
	ctx := context.Background()
	v, _ := loadedVehicle(t, 15)
	fleet := &fakeFleet{vehicles: []*vehicle.Vehicle{v}, depot: kernel.Origin()}
	sim := newSimulator(fleet, nil)

	var lowBattery []simulator.Notification
	_, err := sim.On(simulator.LowBattery, func(_ context.Context, n simulator.Notification) error {
		lowBattery = append(lowBattery, n)
		return nil
	})
	require.NoError(t, err)

	for _, step := range []float64{1, 10, 2, 10} {
		require.NoError(t, sim.Advance(ctx, step))
	}

	assert.Equal(t, vehicle.Recharging, v.State())
	assert.InDelta(t, 15-2.8-2.5, v.Battery(), 1e-9)
	require.Len(t, lowBattery, 1)
	assert.Equal(t, "D1", lowBattery[0].VehicleID)
	assert.InDelta(t, 9.7, lowBattery[0].Battery, 1e-9)

	require.NoError(t, sim.Advance(ctx, 4))
	assert.Equal(t, vehicle.Recharging, v.State())

	require.NoError(t, sim.Advance(ctx, 1))
	assert.Equal(t, vehicle.Idle, v.State())
	assert.InDelta(t, 100.0, v.Battery(), 1e-9)
}

func TestSimulator_CriticalBatteryForcesReturn(t *testing.T) {
	ctx := context.Background()
	v, o := loadedVehicle(t, 100)
	fleet := &fakeFleet{vehicles: []*vehicle.Vehicle{v}, depot: kernel.Origin()}
	sim := newSimulator(fleet, nil)

	lowBattery := 0
	_, err := sim.On(simulator.LowBattery, func(context.Context, simulator.Notification) error {
		lowBattery++
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, sim.Advance(ctx, 1))
	require.Equal(t, vehicle.Flying, v.State())
	v.SetBattery(9)

	require.NoError(t, sim.Advance(ctx, 0.5))
	assert.Equal(t, vehicle.Returning, v.State())
	assert.Equal(t, 1, lowBattery)

	require.NoError(t, sim.Advance(ctx, 0.5))
	assert.Equal(t, vehicle.Recharging, v.State(), "landed at the depot it never left")
	assert.Equal(t, 2, lowBattery, "landing below the recharge threshold notifies again")
	assert.Equal(t, []*order.Order{o}, fleet.released)
	assert.Equal(t, order.Pending, o.Status())
	assert.Empty(t, fleet.delivered)
}

func TestSimulator_CriticalBatteryWhileReturning(t *testing.T) {
	ctx := context.Background()
	v, _ := loadedVehicle(t, 100)
	fleet := &fakeFleet{vehicles: []*vehicle.Vehicle{v}, depot: kernel.Origin()}
	sim := newSimulator(fleet, nil)

	var lowBattery []simulator.Notification
	_, err := sim.On(simulator.LowBattery, func(_ context.Context, n simulator.Notification) error {
		lowBattery = append(lowBattery, n)
		return nil
	})
	require.NoError(t, err)

	for _, step := range []float64{1, 10, 2} {
		require.NoError(t, sim.Advance(ctx, step))
	}
	require.Equal(t, vehicle.Returning, v.State())
	returningSince := v.StateSince()
	v.SetBattery(5)

	require.NoError(t, sim.Advance(ctx, 0.1))

	assert.Equal(t, vehicle.Returning, v.State())
	assert.InDelta(t, returningSince, v.StateSince(), 1e-9, "the return leg keeps its timer")
	require.Len(t, lowBattery, 1)
	assert.InDelta(t, 5.0, lowBattery[0].Battery, 1e-9)

	require.NoError(t, sim.Advance(ctx, 0.1))
	assert.Len(t, lowBattery, 1, "one alert per return leg")

	require.NoError(t, sim.Advance(ctx, 10))
	assert.Equal(t, vehicle.Recharging, v.State())
	assert.Len(t, lowBattery, 2, "landing below the recharge threshold notifies again")
}

func TestSimulator_Observers(t *testing.T) {
	ctx := context.Background()

	t.Run("run in registration order despite failures and panics", func(t *testing.T) {
		v, _ := loadedVehicle(t, 100)
		sim := newSimulator(&fakeFleet{vehicles: []*vehicle.Vehicle{v}}, nil)

		var calls []string
		_, err := sim.On(simulator.StateChanged, func(context.Context, simulator.Notification) error {
			calls = append(calls, "first")
			return errors.New("boom")
		})
		require.NoError(t, err)
		_, err = sim.On(simulator.StateChanged, func(context.Context, simulator.Notification) error {
			calls = append(calls, "second")
			panic("observer bug")
		})
		require.NoError(t, err)
		_, err = sim.On(simulator.StateChanged, func(context.Context, simulator.Notification) error {
			calls = append(calls, "third")
			return nil
		})
		require.NoError(t, err)

		require.NoError(t, sim.Advance(ctx, 1))

		assert.Equal(t, []string{"first", "second", "third"}, calls)
		assert.Equal(t, vehicle.Flying, v.State())
	})

	t.Run("off removes a single registration", func(t *testing.T) {
		v, _ := loadedVehicle(t, 100)
		sim := newSimulator(&fakeFleet{vehicles: []*vehicle.Vehicle{v}}, nil)

		calls := 0
		id, err := sim.On(simulator.StateChanged, func(context.Context, simulator.Notification) error {
			calls++
			return nil
		})
		require.NoError(t, err)

		assert.True(t, sim.Off(simulator.StateChanged, id))
		assert.False(t, sim.Off(simulator.StateChanged, id))

		require.NoError(t, sim.Advance(ctx, 1))
		assert.Zero(t, calls)
	})

	t.Run("rejects unknown channels and nil observers", func(t *testing.T) {
		sim := newSimulator(&fakeFleet{}, nil)

		_, err := sim.On("take-off", func(context.Context, simulator.Notification) error { return nil })
		require.Error(t, err)

		_, err = sim.On(simulator.LowBattery, nil)
		require.Error(t, err)
	})
}

func TestSimulator_StartStop(t *testing.T) {
	ctx := context.Background()

	t.Run("start is idempotent and stop cancels the trigger", func(t *testing.T) {
		trigger := &fakeTrigger{}
		sim := newSimulator(&fakeFleet{}, trigger)

		require.NoError(t, sim.Start(ctx, 120))
		require.NoError(t, sim.Start(ctx, 30))

		assert.Equal(t, 1, trigger.starts)
		assert.True(t, sim.IsRunning())

		sim.Stop(ctx)
		sim.Stop(ctx)

		assert.Equal(t, 1, trigger.stops)
		assert.False(t, sim.IsRunning())
	})

	t.Run("trigger callback ticks under the shared lock", func(t *testing.T) {
		trigger := &fakeTrigger{}
		locker := &countingLocker{}
		sim := newSimulator(&fakeFleet{}, trigger, simulator.WithLocker(locker))

		require.NoError(t, sim.Start(ctx, 120))
		trigger.fn(ctx)
		trigger.fn(ctx)

		assert.Equal(t, 2, locker.locks)
		assert.InDelta(t, 4.0, sim.Now(), 1e-9, "two ticks at 120x are four minutes")
	})

	t.Run("callback queued behind stop does nothing", func(t *testing.T) {
		trigger := &fakeTrigger{}
		v, _ := loadedVehicle(t, 100)
		sim := newSimulator(&fakeFleet{vehicles: []*vehicle.Vehicle{v}}, trigger)
		require.NoError(t, sim.Start(ctx, 120))

		sim.Stop(ctx)
		trigger.fn(ctx)

		assert.Zero(t, sim.Now())
		assert.Equal(t, vehicle.Loading, v.State())
	})

	t.Run("callback queued behind reset leaves the clock at zero", func(t *testing.T) {
		trigger := &fakeTrigger{}
		v, _ := loadedVehicle(t, 100)
		sim := newSimulator(&fakeFleet{vehicles: []*vehicle.Vehicle{v}}, trigger)
		require.NoError(t, sim.Start(ctx, 60))
		require.NoError(t, sim.Advance(ctx, 1))
		require.Equal(t, vehicle.Flying, v.State())

		sim.Reset(ctx)
		trigger.fn(ctx)

		assert.Zero(t, sim.Now())
		assert.False(t, sim.IsRunning())
		assert.Equal(t, vehicle.Flying, v.State())
		assert.Equal(t, kernel.Origin(), v.Position())
	})

	t.Run("zero speed uses the default", func(t *testing.T) {
		sim := newSimulator(&fakeFleet{}, nil)

		require.NoError(t, sim.Start(ctx, 0))
		sim.Tick(ctx)

		assert.InDelta(t, 1.0, sim.Now(), 1e-9)
	})

	t.Run("negative speed is rejected", func(t *testing.T) {
		sim := newSimulator(&fakeFleet{}, &fakeTrigger{})

		require.Error(t, sim.Start(ctx, -1))
		assert.False(t, sim.IsRunning())
	})

	t.Run("trigger failure is returned", func(t *testing.T) {
		sim := newSimulator(&fakeFleet{}, &fakeTrigger{startErr: errors.New("cron down")})

		err := sim.Start(ctx, 60)

		require.ErrorContains(t, err, "cron down")
		assert.False(t, sim.IsRunning())
	})

	t.Run("stop keeps the clock and reset rewinds it", func(t *testing.T) {
		sim := newSimulator(&fakeFleet{}, &fakeTrigger{})
		require.NoError(t, sim.Start(ctx, 60))
		require.NoError(t, sim.Advance(ctx, 7.26))

		sim.Stop(ctx)
		assert.InDelta(t, 7.26, sim.Now(), 1e-9)

		require.NoError(t, sim.Start(ctx, 60))
		assert.InDelta(t, 7.26, sim.Now(), 1e-9, "start does not rewind")

		sim.Reset(ctx)
		assert.Zero(t, sim.Now())
		assert.False(t, sim.IsRunning())
	})
}

func TestSimulator_Advance(t *testing.T) {
	sim := newSimulator(&fakeFleet{}, nil)

	require.Error(t, sim.Advance(context.Background(), -1))
	assert.Zero(t, sim.Now())
}

func TestSimulator_Stats(t *testing.T) {
	busy, _ := loadedVehicle(t, 100)
	idle, err := vehicle.NewVehicle("D2", 5, 20, 100, 30, kernel.Origin())
	require.NoError(t, err)
	sim := newSimulator(&fakeFleet{vehicles: []*vehicle.Vehicle{busy, idle}}, nil)
	require.NoError(t, sim.Advance(context.Background(), 0.26))

	stats := sim.Stats()

	assert.False(t, stats.Running)
	assert.InDelta(t, 0.3, stats.SimulatedMinutes, 1e-9)
	assert.Equal(t, 1, stats.ActiveVehicles)
}
