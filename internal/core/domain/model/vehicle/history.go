package vehicle

// HistoryEntry records one closed stay in a state, in simulated minutes.
type HistoryEntry struct {
	State    State   `json:"state"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Duration float64 `json:"duration"`
}
