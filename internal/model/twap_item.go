package model

import "math/big"

// TwapItem is one outcome's ranking input. RawTwap is the observed
// time-weighted average price (u128 scaled by 1e12); nil means the
// oracle has produced no signal yet.
type TwapItem struct {
	OutcomeIndex int      `json:"outcome_index"`
	RawTwap      *big.Int `json:"raw_twap"`
	DisplayColor string   `json:"display_color"`
}
