package vehicle

import (
	"fmt"
	"strings"

	"dronedelivery/internal/pkg/errs"
)

// State is the operational state of a vehicle.
//
//	Idle -> Loading -> Flying -> Delivering -> Flying | Returning
//	Returning -> Idle | Recharging
//	Recharging -> Idle
type State int

const (
	// Unknown catches uninitialized State values.
	Unknown State = iota
	// Idle vehicles wait at the depot and can accept orders.
	Idle
	// Loading vehicles are being packed for a trip.
	Loading
	// Flying vehicles are on their way to the next destination.
	Flying
	// Delivering vehicles are handing over an order.
	Delivering
	// Returning vehicles fly back to the depot.
	Returning
	// Recharging vehicles are at the depot restoring battery. They can accept orders.
	Recharging
)

var stateNames = map[State]string{
	Idle:       "idle",
	Loading:    "loading",
	Flying:     "flying",
	Delivering: "delivering",
	Returning:  "returning",
	Recharging: "recharging",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseState maps a state name back to a State.
func ParseState(s string) (State, error) {
	for state, name := range stateNames {
		if strings.EqualFold(name, s) {
			return state, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("state", fmt.Errorf("%q is not a vehicle state", s))
}

// MarshalText renders the state name in JSON output.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// IsAvailable reports whether a vehicle in this state may be given new orders.
func (s State) IsAvailable() bool {
	return s == Idle || s == Recharging
}

// IsAirborne reports whether time spent in this state counts as flight time.
func (s State) IsAirborne() bool {
	return s == Flying || s == Returning
}

// States lists every valid state in lifecycle order.
func States() []State {
	return []State{Idle, Loading, Flying, Delivering, Returning, Recharging}
}
