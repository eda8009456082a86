// Package zone models exclusion zones: circular no-fly areas that routes must
// keep a safety distance from.
package zone

import (
	"errors"
	"fmt"
	"math"

	"dronedelivery/internal/core/domain/model/kernel"
	"dronedelivery/internal/pkg/errs"
	"dronedelivery/internal/pkg/guard"
)

const (
	// DefaultKind tags zones created without an explicit kind.
	DefaultKind = "exclusion_zone"
	// defaultSafetyMargin is added to the radius when no safety radius is given.
	defaultSafetyMargin = 1.0
)

// ErrZoneIsNotConstructed is returned when an ExclusionZone was not created through NewExclusionZone.
var ErrZoneIsNotConstructed = errors.New("ExclusionZone must be created via NewExclusionZone constructor")

// ExclusionZone is a circle that vehicles must not fly through. Routing treats
// the larger safety circle as the obstacle. Inactive zones are ignored by routing.
type ExclusionZone struct {
	id           string
	center       kernel.Point
	radius       float64
	safetyRadius float64
	kind         string
	active       bool
	guard        guard.ConstructorGuard
}

// NewExclusionZone creates an active zone.
//
// Parameters:
//   - id: caller-supplied identifier (non-empty)
//   - center: constructed point
//   - radius: positive radius
//   - safetyRadius: clearance used by routing; 0 means radius + 1, otherwise it must be ≥ radius
//   - kind: free-form tag; empty means DefaultKind
//
// Returns:
//   - *ExclusionZone: the created zone
//   - error: every failed field, joined
func NewExclusionZone(id string, center kernel.Point, radius, safetyRadius float64, kind string) (*ExclusionZone, error) {
	z := &ExclusionZone{
		active: true,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		z.setID(id),
		z.setCenter(center),
		z.setRadius(radius),
	); err != nil {
		return nil, err
	}

	if err := z.setSafetyRadius(safetyRadius); err != nil {
		return nil, err
	}

	z.kind = kind
	if z.kind == "" {
		z.kind = DefaultKind
	}

	return z, nil
}

// Validate ensures the zone was built by NewExclusionZone.
func (z *ExclusionZone) Validate() error {
	if z == nil {
		return ErrZoneIsNotConstructed
	}
	return z.guard.Validate(ErrZoneIsNotConstructed)
}

// ID returns the zone identifier.
func (z *ExclusionZone) ID() string {
	return z.id
}

// Center returns the zone center.
func (z *ExclusionZone) Center() kernel.Point {
	return z.center
}

// Radius returns the no-fly radius.
func (z *ExclusionZone) Radius() float64 {
	return z.radius
}

// SafetyRadius returns the clearance radius used by routing.
func (z *ExclusionZone) SafetyRadius() float64 {
	return z.safetyRadius
}

// Kind returns the zone tag.
func (z *ExclusionZone) Kind() string {
	return z.kind
}

// IsActive reports whether routing must consider the zone.
func (z *ExclusionZone) IsActive() bool {
	return z.active
}

// Activate makes routing consider the zone.
func (z *ExclusionZone) Activate() {
	z.active = true
}

// Deactivate makes routing ignore the zone.
func (z *ExclusionZone) Deactivate() {
	z.active = false
}

// Contains reports whether p lies inside the no-fly radius.
func (z *ExclusionZone) Contains(p kernel.Point) bool {
	return z.center.DistanceTo(p) <= z.radius
}

// IntersectsSegment reports whether the safety circle reaches the segment a-b.
func (z *ExclusionZone) IntersectsSegment(a, b kernel.Point) bool {
	return z.center.DistanceToSegment(a, b) <= z.safetyRadius
}

// BypassDistance returns the length of the detour a -> c -> b, where c is the
// zone center pushed out by the safety radius perpendicular to the a-b heading.
func (z *ExclusionZone) BypassDistance(a, b kernel.Point) float64 {
	heading := a.HeadingTo(b)
	waypoint := z.center.Offset(heading+math.Pi/2, z.safetyRadius)
	return a.DistanceTo(waypoint) + waypoint.DistanceTo(b)
}

func (z *ExclusionZone) setID(id string) error {
	if id == "" {
		return errs.NewValueIsRequiredError("id")
	}
	z.id = id
	return nil
}

func (z *ExclusionZone) setCenter(center kernel.Point) error {
	if err := center.Validate(); err != nil {
		return err
	}
	z.center = center
	return nil
}

func (z *ExclusionZone) setRadius(radius float64) error {
	if radius <= 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return errs.NewValueIsInvalidErrorWithCause("radius", fmt.Errorf("%v is not greater than 0", radius))
	}
	z.radius = radius
	return nil
}

func (z *ExclusionZone) setSafetyRadius(safetyRadius float64) error {
	if safetyRadius == 0 {
		z.safetyRadius = z.radius + defaultSafetyMargin
		return nil
	}
	if safetyRadius < z.radius || math.IsNaN(safetyRadius) || math.IsInf(safetyRadius, 0) {
		return errs.NewValueIsInvalidErrorWithCause(
			"safetyRadius",
			fmt.Errorf("%v is smaller than radius %v", safetyRadius, z.radius),
		)
	}
	z.safetyRadius = safetyRadius
	return nil
}

// Snapshot is a read-only copy of a zone.
type Snapshot struct {
	ID           string       `json:"id"`
	Center       kernel.Point `json:"center"`
	Radius       float64      `json:"radius"`
	SafetyRadius float64      `json:"safetyRadius"`
	Kind         string       `json:"kind"`
	Active       bool         `json:"active"`
}

// Snapshot copies the zone state.
func (z *ExclusionZone) Snapshot() Snapshot {
	return Snapshot{
		ID:           z.id,
		Center:       z.center,
		Radius:       z.radius,
		SafetyRadius: z.safetyRadius,
		Kind:         z.kind,
		Active:       z.active,
	}
}
