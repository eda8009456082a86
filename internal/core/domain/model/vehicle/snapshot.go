package vehicle

import "dronedelivery/internal/core/domain/model/kernel"

// Snapshot is a read-only copy of a Vehicle for reports and the HTTP boundary.
type Snapshot struct {
	ID                string         `json:"id"`
	State             State          `json:"state"`
	StateSince        float64        `json:"stateSince"`
	Position          kernel.Point   `json:"position"`
	Battery           float64        `json:"battery"`
	BatteryCapacity   float64        `json:"batteryCapacity"`
	WeightCapacity    float64        `json:"weightCapacity"`
	DistanceCapacity  float64        `json:"distanceCapacity"`
	Speed             float64        `json:"speed"`
	OrderIDs          []string       `json:"orderIds"`
	CommittedWeight   float64        `json:"committedWeight"`
	CommittedDistance float64        `json:"committedDistance"`
	CompletedTrips    int            `json:"completedTrips"`
	FlightMinutes     float64        `json:"flightMinutes"`
	DistanceFlown     float64        `json:"distanceFlown"`
	History           []HistoryEntry `json:"history,omitempty"`
}

// Snapshot copies the vehicle state. History is included only when withHistory is set.
func (v *Vehicle) Snapshot(withHistory bool) Snapshot {
	ids := make([]string, 0, len(v.orders))
	for _, o := range v.orders {
		ids = append(ids, o.ID())
	}

	s := Snapshot{
		ID:                v.id,
		State:             v.state,
		StateSince:        v.stateSince,
		Position:          v.position,
		Battery:           v.battery,
		BatteryCapacity:   v.batteryCapacity,
		WeightCapacity:    v.weightCapacity,
		DistanceCapacity:  v.distanceCapacity,
		Speed:             v.speed,
		OrderIDs:          ids,
		CommittedWeight:   v.committedWeight,
		CommittedDistance: v.committedDistance,
		CompletedTrips:    v.completedTrips,
		FlightMinutes:     v.flightMinutes,
		DistanceFlown:     v.distanceFlown,
	}
	if withHistory {
		s.History = v.History()
	}
	return s
}

// Snapshots copies every vehicle in list order, without history.
func Snapshots(vehicles []*Vehicle) []Snapshot {
	out := make([]Snapshot, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, v.Snapshot(false))
	}
	return out
}
