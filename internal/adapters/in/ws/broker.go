// Package ws streams simulator notifications to WebSocket clients.
//
// A Broker is subscribed to the simulator channels as an observer and fans
// notifications out to per-connection buffers. Slow clients lose
// notifications instead of stalling the simulation tick.
package ws

import (
	"context"
	"sync"

	"dronedelivery/internal/core/application/simulator"
)

// subscriberBuffer is the number of notifications queued per client.
const subscriberBuffer = 64

type filter map[simulator.Channel]struct{}

func (f filter) accepts(c simulator.Channel) bool {
	if len(f) == 0 {
		return true
	}
	_, ok := f[c]
	return ok
}

// Broker fans notifications out to subscribers.
type Broker struct {
	mu     sync.Mutex
	subs   map[chan simulator.Notification]filter
	closed bool
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{subs: map[chan simulator.Notification]filter{}}
}

// Subscribe registers a buffered receiver for the given channels; no channels
// means all of them. After Close the returned channel is already closed.
func (b *Broker) Subscribe(channels ...simulator.Channel) chan simulator.Notification {
	ch := make(chan simulator.Notification, subscriberBuffer)

	f := filter{}
	for _, c := range channels {
		f[c] = struct{}{}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.subs[ch] = f
	return ch
}

// Unsubscribe removes and closes ch. Unknown channels are ignored.
func (b *Broker) Unsubscribe(ch chan simulator.Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[ch]; !ok {
		return
	}
	delete(b.subs, ch)
	close(ch)
}

// Publish delivers n to every matching subscriber without blocking.
// Its signature matches simulator.Observer.
func (b *Broker) Publish(_ context.Context, n simulator.Notification) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch, f := range b.subs {
		if !f.accepts(n.Channel) {
			continue
		}
		select {
		case ch <- n:
		default:
		}
	}
	return nil
}

// Subscribers returns the number of registered subscribers.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close closes every subscriber channel; connected clients are disconnected.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
}
