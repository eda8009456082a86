package fleet

import (
	"context"

	"dronedelivery/internal/core/application/simulator"
)

// StartSimulation starts the periodic tick at speed simulated minutes per
// wall-clock minute; 0 selects simulator.DefaultSpeed. Starting a running
// simulation is a no-op.
func (c *Controller) StartSimulation(ctx context.Context, speed float64) (simulator.Stats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.sim.Start(ctx, speed); err != nil {
		return simulator.Stats{}, err
	}
	return c.sim.Stats(), nil
}

// StopSimulation cancels the periodic tick. Vehicle state is left as is.
func (c *Controller) StopSimulation(ctx context.Context) simulator.Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sim.Stop(ctx)
	return c.sim.Stats()
}

// Advance moves the simulated clock by minutes and steps every vehicle once.
func (c *Controller) Advance(ctx context.Context, minutes float64) (simulator.Stats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.sim.Advance(ctx, minutes); err != nil {
		return simulator.Stats{}, err
	}
	return c.sim.Stats(), nil
}

// Tick runs one periodic step at the current speed.
func (c *Controller) Tick(ctx context.Context) simulator.Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sim.Tick(ctx)
	return c.sim.Stats()
}

// Subscribe registers an observer on a notification channel. Observers run
// with the controller locked and must not call back into it.
func (c *Controller) Subscribe(channel simulator.Channel, observer simulator.Observer) (simulator.SubscriptionID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sim.On(channel, observer)
}

// Unsubscribe removes an observer. It reports whether one was removed.
func (c *Controller) Unsubscribe(channel simulator.Channel, id simulator.SubscriptionID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sim.Off(channel, id)
}
