package ports

import "context"

// TickTrigger invokes a callback periodically until stopped.
// Callbacks run one at a time; Stop does not wait for a running callback.
type TickTrigger interface {
	Start(fn func(ctx context.Context)) error
	Stop()
}
