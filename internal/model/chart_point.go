package model

import "encoding/json"

// ChartPoint is one sample of the reconstructed price series.
// Prices is indexed by outcome and holds stable-per-asset spot
// prices (plain ratios, not fixed-point).
type ChartPoint struct {
	Time   int64     `json:"time"`
	Prices []float64 `json:"prices"`
}

// MarshalJSON ensures ChartPoint is encoded with stable field names.
func (p ChartPoint) MarshalJSON() ([]byte, error) {
	type Alias ChartPoint
	return json.Marshal(Alias(p))
}
