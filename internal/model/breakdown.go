package model

// SwapBreakdown is the display-grade preview of a constant-product
// swap. Prices are reserve ratios; AmmFee is in input-token units.
// Values are float64 and intentionally approximate the chain's
// integer result (see amm.FloatDivergenceTolerance).
type SwapBreakdown struct {
	StartPrice     float64 `json:"start_price"`
	FinalPrice     float64 `json:"final_price"`
	AveragePrice   float64 `json:"average_price"`
	ExactAmountOut float64 `json:"exact_amount_out"`
	MinAmountOut   float64 `json:"min_amount_out"`
	PriceImpact    float64 `json:"price_impact"`
	AmmFee         float64 `json:"amm_fee"`
}
