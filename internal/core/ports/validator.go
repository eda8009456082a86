package ports

// PointFields is a raw coordinate pair. Nil pointers mean "not supplied".
type PointFields struct {
	X *float64 `json:"x" yaml:"x"`
	Y *float64 `json:"y" yaml:"y"`
}

// VehicleFields is the raw input for registering a vehicle.
// Optional fields fall back to vehicle defaults when nil.
type VehicleFields struct {
	ID               string   `json:"id"               yaml:"id"`
	WeightCapacity   *float64 `json:"weightCapacity"   yaml:"weightCapacity"`
	DistanceCapacity *float64 `json:"distanceCapacity" yaml:"distanceCapacity"`
	BatteryCapacity  *float64 `json:"batteryCapacity"  yaml:"batteryCapacity"`
	Speed            *float64 `json:"speed"            yaml:"speed"`
}

// OrderFields is the raw input for creating an order.
type OrderFields struct {
	ID          string       `json:"id"          yaml:"id"`
	Destination *PointFields `json:"destination" yaml:"destination"`
	Weight      *float64     `json:"weight"      yaml:"weight"`
	Priority    *string      `json:"priority"    yaml:"priority"`
}

// ZoneFields is the raw input for adding an exclusion zone.
type ZoneFields struct {
	ID           string       `json:"id"           yaml:"id"`
	Center       *PointFields `json:"center"       yaml:"center"`
	Radius       *float64     `json:"radius"       yaml:"radius"`
	SafetyRadius *float64     `json:"safetyRadius" yaml:"safetyRadius"`
	Kind         string       `json:"kind"         yaml:"kind"`
}

// ValidationResult is the validator's verdict: a flag plus human-readable messages.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// Validator checks raw field sets before any entity is created.
type Validator interface {
	ValidateVehicle(fields VehicleFields) ValidationResult
	ValidateOrder(fields OrderFields) ValidationResult
	ValidateZone(fields ZoneFields) ValidationResult
}
