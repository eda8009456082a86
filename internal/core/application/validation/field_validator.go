// Package validation implements ports.Validator: field-level checks on raw
// vehicle, order and zone input, reported as a list of messages.
package validation

import (
	"fmt"
	"math"
	"strings"

	"dronedelivery/internal/core/domain/model/order"
	"dronedelivery/internal/core/ports"
)

const maxBatteryCapacity = 100.0

// FieldValidator is the default ports.Validator.
type FieldValidator struct{}

var _ ports.Validator = FieldValidator{}

// NewFieldValidator creates a FieldValidator.
func NewFieldValidator() FieldValidator {
	return FieldValidator{}
}

// ValidateVehicle requires an id and positive weight and distance capacities.
// Battery capacity, when given, must lie in (0, 100]; speed, when given, must be positive.
func (FieldValidator) ValidateVehicle(f ports.VehicleFields) ports.ValidationResult {
	var problems []string

	problems = appendIfProblem(problems, requireID("vehicle", f.ID))
	problems = appendIfProblem(problems, requirePositive("weight capacity", f.WeightCapacity))
	problems = appendIfProblem(problems, requirePositive("distance capacity", f.DistanceCapacity))

	if f.BatteryCapacity != nil {
		if b := *f.BatteryCapacity; !isFinite(b) || b <= 0 || b > maxBatteryCapacity {
			problems = append(problems, "battery capacity must be a number between 0 and 100")
		}
	}
	if f.Speed != nil {
		if s := *f.Speed; !isFinite(s) || s <= 0 {
			problems = append(problems, "speed must be a positive number")
		}
	}

	return result(problems)
}

// ValidateOrder requires an id, a destination with both coordinates and a positive weight.
// Priority, when given, must be low, medium or high.
func (FieldValidator) ValidateOrder(f ports.OrderFields) ports.ValidationResult {
	var problems []string

	problems = appendIfProblem(problems, requireID("order", f.ID))
	problems = appendIfProblem(problems, requirePoint("destination", f.Destination))
	problems = appendIfProblem(problems, requirePositive("weight", f.Weight))

	if f.Priority != nil {
		if _, err := order.ParsePriority(*f.Priority); err != nil || strings.TrimSpace(*f.Priority) == "" {
			problems = append(problems, "priority must be one of: low, medium, high")
		}
	}

	return result(problems)
}

// ValidateZone requires an id, a center with both coordinates and a positive radius.
// A supplied safety radius must not be smaller than the radius.
func (FieldValidator) ValidateZone(f ports.ZoneFields) ports.ValidationResult {
	var problems []string

	problems = appendIfProblem(problems, requireID("zone", f.ID))
	problems = appendIfProblem(problems, requirePoint("center", f.Center))
	problems = appendIfProblem(problems, requirePositive("radius", f.Radius))

	if f.SafetyRadius != nil && f.Radius != nil {
		if s := *f.SafetyRadius; !isFinite(s) || s < *f.Radius {
			problems = append(problems, "safety radius must be a number not smaller than the radius")
		}
	}

	return result(problems)
}

func requireID(entity, id string) string {
	if strings.TrimSpace(id) == "" {
		return fmt.Sprintf("%s id is required and must be a non-empty string", entity)
	}
	return ""
}

func requirePositive(name string, v *float64) string {
	switch {
	case v == nil:
		return name + " is required"
	case !isFinite(*v) || *v <= 0:
		return name + " must be a positive number"
	default:
		return ""
	}
}

func requirePoint(name string, p *ports.PointFields) string {
	switch {
	case p == nil:
		return name + " is required"
	case p.X == nil || p.Y == nil || !isFinite(*p.X) || !isFinite(*p.Y):
		return name + " must have numeric x and y coordinates"
	default:
		return ""
	}
}

func appendIfProblem(problems []string, msg string) []string {
	if msg == "" {
		return problems
	}
	return append(problems, msg)
}

func result(problems []string) ports.ValidationResult {
	return ports.ValidationResult{Valid: len(problems) == 0, Errors: problems}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
