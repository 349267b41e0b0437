package model

import "encoding/json"

// SwapEvent is one decoded OutcomeSwap log. PriceRaw is the pool's
// post-trade spot price as a base-10 string (u128 scaled by 1e12),
// kept as a string so JSON round-trips never lose precision.
type SwapEvent struct {
	ChainID            uint64 `json:"chain_id"`
	Market             string `json:"market"`
	BlockNumber        uint64 `json:"block_number"`
	TxHash             string `json:"tx_hash"`
	LogIndex           uint64 `json:"log_index"`
	Timestamp          int64  `json:"timestamp"`
	OutcomeIndex       int    `json:"outcome_index"`
	IsBuy              bool   `json:"is_buy"`
	PriceRaw           string `json:"price_raw"`
	AssetReserveAfter  uint64 `json:"asset_reserve_after"`
	StableReserveAfter uint64 `json:"stable_reserve_after"`
}

// ReservesAfter returns the post-trade pool snapshot.
func (e SwapEvent) ReservesAfter() Reserves {
	return Reserves{Asset: e.AssetReserveAfter, Stable: e.StableReserveAfter}
}

// MarshalJSON ensures SwapEvent is encoded with stable field names.
func (e SwapEvent) MarshalJSON() ([]byte, error) {
	type Alias SwapEvent
	return json.Marshal(Alias(e))
}

// UnmarshalJSON decodes a SwapEvent from JSON.
func (e *SwapEvent) UnmarshalJSON(data []byte) error {
	type Alias SwapEvent
	var a Alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*e = SwapEvent(a)
	return nil
}
