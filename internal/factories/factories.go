// Package factories generates random fleets and orders for load scenarios and
// property tests.
package factories

import (
	"math"
	"math/rand"

	"dronedelivery/internal/adapters/in/scenario"
	"dronedelivery/internal/core/domain/model/order"
	"dronedelivery/internal/core/ports"

	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"
)

// fractionSteps is the resolution of random values within a range.
const fractionSteps = 1_000_000

// Bounds limits the generated values.
type Bounds struct {
	// Radius is the largest distance of a destination or zone center from the depot.
	Radius float64
	// MinWeightCapacity and MaxWeightCapacity bound vehicle payloads.
	MinWeightCapacity float64
	MaxWeightCapacity float64
	// MinDistanceCapacity and MaxDistanceCapacity bound vehicle ranges.
	MinDistanceCapacity float64
	MaxDistanceCapacity float64
	// MaxOrderWeight bounds order weights; it is also capped by the largest
	// vehicle capacity of the generated fleet.
	MaxOrderWeight float64
	// MaxZoneRadius bounds zone radii.
	MaxZoneRadius float64
}

// DefaultBounds describes a small city fleet around the depot.
func DefaultBounds() Bounds {
	return Bounds{
		Radius:              20,
		MinWeightCapacity:   2,
		MaxWeightCapacity:   15,
		MinDistanceCapacity: 20,
		MaxDistanceCapacity: 80,
		MaxOrderWeight:      8,
		MaxZoneRadius:       3,
	}
}

// Factory creates random entity field sets. It is not safe for concurrent use.
type Factory struct {
	fake   faker.Faker
	bounds Bounds
}

// New returns a factory. A zero seed draws from a random source; any other
// seed makes the generated values repeatable. Identifiers always come from cuid.
func New(seed int64, bounds Bounds) *Factory {
	fake := faker.New()
	if seed != 0 {
		fake = faker.NewWithSeed(rand.NewSource(seed))
	}
	return &Factory{fake: fake, bounds: bounds}
}

// Vehicle creates a vehicle with capacities inside the bounds and default
// battery and speed.
func (f *Factory) Vehicle() ports.VehicleFields {
	weight := f.between(f.bounds.MinWeightCapacity, f.bounds.MaxWeightCapacity)
	distance := f.between(f.bounds.MinDistanceCapacity, f.bounds.MaxDistanceCapacity)
	return ports.VehicleFields{
		ID:               "drone-" + cuid.New(),
		WeightCapacity:   &weight,
		DistanceCapacity: &distance,
	}
}

// Order creates an order within the radius weighing at most maxWeight.
func (f *Factory) Order(maxWeight float64) ports.OrderFields {
	weight := math.Max(0.1, f.between(0.1, maxWeight))
	priority := f.fake.RandomStringElement([]string{
		order.Low.String(), order.Medium.String(), order.High.String(),
	})
	return ports.OrderFields{
		ID:          "order-" + cuid.New(),
		Destination: f.point(f.bounds.Radius),
		Weight:      &weight,
		Priority:    &priority,
	}
}

// Zone creates an exclusion zone with the default safety margin.
func (f *Factory) Zone() ports.ZoneFields {
	radius := f.between(0.5, f.bounds.MaxZoneRadius)
	return ports.ZoneFields{
		ID:     "zone-" + cuid.New(),
		Center: f.point(f.bounds.Radius),
		Radius: &radius,
		Kind:   f.fake.RandomStringElement([]string{"airport", "hospital", "stadium", "military"}),
	}
}

// Scenario creates vehicles, orders and zones. Order weights never exceed the
// largest generated vehicle capacity, so every order can be registered.
func (f *Factory) Scenario(vehicles, orders, zones int) scenario.Scenario {
	var s scenario.Scenario

	largest := 0.0
	for range vehicles {
		v := f.Vehicle()
		largest = math.Max(largest, *v.WeightCapacity)
		s.Vehicles = append(s.Vehicles, v)
	}

	maxWeight := math.Min(f.bounds.MaxOrderWeight, largest)
	if maxWeight > 0 {
		for range orders {
			s.Orders = append(s.Orders, f.Order(maxWeight))
		}
	}

	for range zones {
		s.Zones = append(s.Zones, f.Zone())
	}
	return s
}

func (f *Factory) point(radius float64) *ports.PointFields {
	x := f.between(-radius, radius)
	y := f.between(-radius, radius)
	return &ports.PointFields{X: &x, Y: &y}
}

// between returns a value in [lo, hi] rounded to two decimals.
func (f *Factory) between(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	v := lo + float64(f.fake.IntBetween(0, fractionSteps))/fractionSteps*(hi-lo)
	return math.Round(v*100) / 100
}
