package model

// Reserves is a snapshot of one outcome's conditional pool balances,
// in atomic token units.
type Reserves struct {
	Asset  uint64 `json:"asset"`
	Stable uint64 `json:"stable"`
}

// Degenerate reports whether the pool has no valid price.
func (r Reserves) Degenerate() bool {
	return r.Asset == 0 || r.Stable == 0
}

// Market holds the metadata needed to reconstruct and rank a
// futarchy market's outcomes.
type Market struct {
	ChainID         uint64     `json:"chain_id"`
	Address         string     `json:"address"`
	OutcomeCount    int        `json:"outcome_count"`
	AssetDecimals   uint8      `json:"asset_decimals"`
	StableDecimals  uint8      `json:"stable_decimals"`
	ThresholdBps    uint64     `json:"threshold_bps"`
	InitialReserves []Reserves `json:"initial_reserves"`
	FirstSeenBlock  uint64     `json:"first_seen_block"`
}
