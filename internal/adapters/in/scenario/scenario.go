// Package scenario loads a fleet bootstrap file: the depot, vehicles,
// exclusion zones and orders to register at start-up.
//
// Example file:
//
//	depot: {x: 0, y: 0}
//	vehicles:
//	  - {id: D1, weightCapacity: 10, distanceCapacity: 50}
//	zones:
//	  - {id: Z1, center: {x: 5, y: 0}, radius: 1}
//	orders:
//	  - {id: P1, destination: {x: 3, y: 4}, weight: 2, priority: high}
package scenario

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"dronedelivery/internal/core/domain/model/kernel"
	"dronedelivery/internal/core/domain/model/order"
	"dronedelivery/internal/core/domain/model/vehicle"
	"dronedelivery/internal/core/domain/model/zone"
	"dronedelivery/internal/core/ports"
	"dronedelivery/internal/pkg/errs"

	"gopkg.in/yaml.v3"
)

// Scenario is the decoded bootstrap file. Entities keep the raw field form so
// they pass through the same validation as API requests.
type Scenario struct {
	Depot    *ports.PointFields    `yaml:"depot"`
	Vehicles []ports.VehicleFields `yaml:"vehicles"`
	Zones    []ports.ZoneFields    `yaml:"zones"`
	Orders   []ports.OrderFields   `yaml:"orders"`
}

// Registrar creates entities. *fleet.Controller implements it.
type Registrar interface {
	RegisterVehicle(ctx context.Context, fields ports.VehicleFields) (vehicle.Snapshot, error)
	AddZone(ctx context.Context, fields ports.ZoneFields) (zone.Snapshot, error)
	CreateOrder(ctx context.Context, fields ports.OrderFields) (order.Snapshot, error)
}

// Summary counts the entities Apply created.
type Summary struct {
	Vehicles int
	Zones    int
	Orders   int
}

// Load reads and decodes the file at path.
func Load(path string) (Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("open scenario: %w", err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return Scenario{}, fmt.Errorf("scenario %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a scenario. Unknown keys are rejected; an empty document is
// an empty scenario.
func Parse(r io.Reader) (Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Scenario{}, fmt.Errorf("decode scenario: %w", err)
	}
	return s, nil
}

// DepotPoint returns the configured depot, or fallback when the file has none.
func (s Scenario) DepotPoint(fallback kernel.Point) (kernel.Point, error) {
	if s.Depot == nil {
		return fallback, nil
	}
	if s.Depot.X == nil || s.Depot.Y == nil {
		return kernel.Point{}, errs.NewValueIsRequiredError("depot")
	}
	return kernel.NewPoint(*s.Depot.X, *s.Depot.Y)
}

// Apply registers zones, then vehicles, then orders, so order capacity checks
// see the whole fleet. Every entity is attempted; failures are joined.
func Apply(ctx context.Context, r Registrar, s Scenario) (Summary, error) {
	var (
		summary Summary
		failed  []error
	)

	for _, z := range s.Zones {
		if _, err := r.AddZone(ctx, z); err != nil {
			failed = append(failed, fmt.Errorf("zone %q: %w", z.ID, err))
			continue
		}
		summary.Zones++
	}
	for _, v := range s.Vehicles {
		if _, err := r.RegisterVehicle(ctx, v); err != nil {
			failed = append(failed, fmt.Errorf("vehicle %q: %w", v.ID, err))
			continue
		}
		summary.Vehicles++
	}
	for _, o := range s.Orders {
		if _, err := r.CreateOrder(ctx, o); err != nil {
			failed = append(failed, fmt.Errorf("order %q: %w", o.ID, err))
			continue
		}
		summary.Orders++
	}

	return summary, errors.Join(failed...)
}
