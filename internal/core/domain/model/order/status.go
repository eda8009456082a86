package order

import (
	"fmt"

	"dronedelivery/internal/pkg/errs"
)

// Status is the order lifecycle state.
//
// State transitions:
//
//	Pending ──> Allocated ──> Delivered
//	   ^            │
//	   └────────────┘
//	     (release)
//
// Delivered is final.
type Status int

const (
	// Unknown catches uninitialized Status values.
	Unknown Status = iota
	// Pending orders wait in the priority queue for a vehicle.
	Pending
	// Allocated orders are committed to a vehicle's current or planned trip.
	Allocated
	// Delivered orders have been dropped at their destination.
	Delivered
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Allocated:
		return "allocated"
	case Delivered:
		return "delivered"
	case Unknown:
		return "unknown"
	default:
		return "unknown"
	}
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if s < Pending || s > Delivered {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// Allocate transitions Pending -> Allocated.
func (s Status) Allocate() (Status, error) {
	if s != Pending {
		return 0, transitionError(s, "allocate")
	}
	return Allocated, nil
}

// Release transitions Allocated -> Pending.
func (s Status) Release() (Status, error) {
	if s != Allocated {
		return 0, transitionError(s, "release")
	}
	return Pending, nil
}

// Deliver transitions Allocated -> Delivered.
func (s Status) Deliver() (Status, error) {
	if s != Allocated {
		return 0, transitionError(s, "deliver")
	}
	return Delivered, nil
}

func transitionError(s Status, action string) error {
	return errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("%s is not a valid status to %s", s, action),
	)
}
