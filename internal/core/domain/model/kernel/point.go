package kernel

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"dronedelivery/internal/pkg/errs"
	"dronedelivery/internal/pkg/guard"
)

// ErrPointIsNotConstructed is returned when a zero-value Point is used where a
// constructed one is required.
var ErrPointIsNotConstructed = errs.NewValueIsRequiredError("point must be created via NewPoint or Origin")

// Point is an immutable position on the continuous delivery plane.
// Distances between points are Euclidean and expressed in the same unit as
// vehicle distance capacities.
//
// Example:
//
//	depot := kernel.Origin()
//	dest, err := kernel.NewPoint(3, 4)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(depot.DistanceTo(dest)) // 5
type Point struct { //nolint:recvcheck //using for validation
	x     float64
	y     float64
	guard guard.ConstructorGuard
}

// NewPoint creates a Point. Both coordinates must be finite numbers.
//
// Parameters:
//   - x: horizontal coordinate
//   - y: vertical coordinate
//
// Returns:
//   - Point: the constructed point
//   - error: ValueIsInvalidError when a coordinate is NaN or infinite
func NewPoint(x, y float64) (Point, error) {
	p := Point{guard: guard.NewConstructorGuard()}

	if err := errors.Join(p.setX(x), p.setY(y)); err != nil {
		return Point{}, err
	}

	return p, nil
}

// Origin returns the point (0,0), the default depot position.
func Origin() Point {
	return Point{guard: guard.NewConstructorGuard()}
}

// Validate reports whether the point was built by a constructor.
func (p Point) Validate() error {
	return p.guard.Validate(ErrPointIsNotConstructed)
}

// X returns the horizontal coordinate.
func (p Point) X() float64 {
	return p.x
}

// Y returns the vertical coordinate.
func (p Point) Y() float64 {
	return p.y
}

// String implements fmt.Stringer.
func (p Point) String() string {
	return fmt.Sprintf("Point(%g,%g)", p.x, p.y)
}

// MarshalJSON renders the point as {"x":..,"y":..}.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}{X: p.x, Y: p.y})
}

// IsEqual compares coordinates exactly.
func (p Point) IsEqual(other Point) bool {
	return p.x == other.x && p.y == other.y
}

// DistanceTo returns the Euclidean distance between p and other.
func (p Point) DistanceTo(other Point) float64 {
	return math.Hypot(other.x-p.x, other.y-p.y)
}

// HeadingTo returns the angle in radians of the direction from p to other,
// measured from the positive X axis.
func (p Point) HeadingTo(other Point) float64 {
	return math.Atan2(other.y-p.y, other.x-p.x)
}

// Offset returns p moved by distance along angle (radians).
func (p Point) Offset(angle, distance float64) Point {
	return Point{
		x:     p.x + math.Cos(angle)*distance,
		y:     p.y + math.Sin(angle)*distance,
		guard: guard.NewConstructorGuard(),
	}
}

// DistanceToSegment returns the shortest distance from p to the segment a-b.
// A degenerate segment (a == b) is treated as a single point.
func (p Point) DistanceToSegment(a, b Point) float64 {
	dx := b.x - a.x
	dy := b.y - a.y
	lengthSquared := dx*dx + dy*dy
	if lengthSquared == 0 {
		return p.DistanceTo(a)
	}

	t := ((p.x-a.x)*dx + (p.y-a.y)*dy) / lengthSquared
	t = math.Max(0, math.Min(1, t))

	closest := Point{x: a.x + t*dx, y: a.y + t*dy}
	return p.DistanceTo(closest)
}

func (p *Point) setX(x float64) error {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return errs.NewValueIsInvalidErrorWithCause("x", fmt.Errorf("%v is not a finite number", x))
	}

	p.x = x
	return nil
}

func (p *Point) setY(y float64) error {
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return errs.NewValueIsInvalidErrorWithCause("y", fmt.Errorf("%v is not a finite number", y))
	}

	p.y = y
	return nil
}
