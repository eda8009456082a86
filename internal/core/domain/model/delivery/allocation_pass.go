package delivery

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dronedelivery/internal/core/domain/model/kernel"
	"dronedelivery/internal/pkg/errs"
	"dronedelivery/internal/pkg/guard"
)

// Strategy names the allocation algorithm used by a processing pass.
type Strategy string

const (
	// StrategyOptimizer commits the best-scoring order subset per available vehicle.
	StrategyOptimizer Strategy = "optimizer"
	// StrategyMultiRound plans repeated greedy rounds.
	StrategyMultiRound Strategy = "multi-round"
	// StrategyFirstFit runs a single greedy pass.
	StrategyFirstFit Strategy = "first-fit"
)

// ParseStrategy validates a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyOptimizer, StrategyMultiRound, StrategyFirstFit:
		return Strategy(s), nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("strategy",
			fmt.Errorf("%q is not one of %s, %s, %s", s, StrategyOptimizer, StrategyMultiRound, StrategyFirstFit))
	}
}

// ErrAllocationPassIsNotConstructed is returned when an AllocationPass was not created through its constructors.
var ErrAllocationPassIsNotConstructed = errors.New("AllocationPass must be created via NewAllocationPass constructor")

// AllocationPass summarises one processing run.
type AllocationPass struct {
	id          kernel.UUID
	at          time.Time
	strategy    Strategy
	trips       int
	allocated   int
	unallocated int
	guard       guard.ConstructorGuard
}

// NewAllocationPass creates a pass summary with a fresh identifier.
func NewAllocationPass(at time.Time, strategy Strategy, trips, allocated, unallocated int) (AllocationPass, error) {
	return RestoreAllocationPass(kernel.NewUUID(), at, strategy, trips, allocated, unallocated)
}

// RestoreAllocationPass rebuilds a pass read back from the journal.
func RestoreAllocationPass(
	id kernel.UUID,
	at time.Time,
	strategy Strategy,
	trips, allocated, unallocated int,
) (AllocationPass, error) {
	var problems []error
	if err := id.Validate(); err != nil {
		problems = append(problems, err)
	}
	if _, err := ParseStrategy(string(strategy)); err != nil {
		problems = append(problems, err)
	}
	if trips < 0 || allocated < 0 || unallocated < 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("counts",
			fmt.Errorf("trips=%d allocated=%d unallocated=%d must not be negative", trips, allocated, unallocated)))
	}
	if err := errors.Join(problems...); err != nil {
		return AllocationPass{}, err
	}

	return AllocationPass{
		id:          id,
		at:          at,
		strategy:    strategy,
		trips:       trips,
		allocated:   allocated,
		unallocated: unallocated,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the pass was built by a constructor.
func (p AllocationPass) Validate() error {
	return p.guard.Validate(ErrAllocationPassIsNotConstructed)
}

// ID returns the pass identifier.
func (p AllocationPass) ID() kernel.UUID { return p.id }

// At returns when the pass ran.
func (p AllocationPass) At() time.Time { return p.at }

// Strategy returns the algorithm used.
func (p AllocationPass) Strategy() Strategy { return p.strategy }

// Trips returns the number of vehicles dispatched.
func (p AllocationPass) Trips() int { return p.trips }

// Allocated returns the number of orders placed.
func (p AllocationPass) Allocated() int { return p.allocated }

// Unallocated returns the number of orders left pending.
func (p AllocationPass) Unallocated() int { return p.unallocated }

// MarshalJSON renders the pass for reports.
func (p AllocationPass) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID          kernel.UUID `json:"id"`
		At          time.Time   `json:"at"`
		Strategy    Strategy    `json:"strategy"`
		Trips       int         `json:"trips"`
		Allocated   int         `json:"allocated"`
		Unallocated int         `json:"unallocated"`
	}{p.id, p.at, p.strategy, p.trips, p.allocated, p.unallocated})
}
