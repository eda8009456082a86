package order

import (
	"fmt"
	"strings"

	"dronedelivery/internal/pkg/errs"
)

// Priority ranks orders. Its numeric value is the priority weight used by
// queue scoring and by the optimizer's priority bonus.
type Priority int

const (
	// Low priority, weight 1.
	Low Priority = 1
	// Medium priority, weight 2. Orders created without a priority get Medium.
	Medium Priority = 2
	// High priority, weight 3.
	High Priority = 3
)

// ParsePriority maps "low", "medium" or "high" (any case) to a Priority.
// An empty string yields Medium.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return Medium, nil
	case "low":
		return Low, nil
	case "medium":
		return Medium, nil
	case "high":
		return High, nil
	default:
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"priority",
			fmt.Errorf("%q is not one of low, medium, high", s),
		)
	}
}

// Weight returns the numeric priority weight (1, 2 or 3).
func (p Priority) Weight() int {
	return int(p)
}

// Validate rejects values outside Low..High.
func (p Priority) Validate() error {
	if p < Low || p > High {
		return errs.NewValueIsOutOfRangeError("priority", int(p), int(Low), int(High))
	}
	return nil
}

func (p Priority) String() string {
	switch p {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return "unknown"
	}
}
