package amm

import (
	"fmt"
	"math/big"
)

// PriceScale is the fixed-point scale for raw on-chain prices
// (stable units per asset unit, scaled by 1e12).
var PriceScale = big.NewInt(1_000_000_000_000)

// ExactAmountOut replays the pool's integer swap formula: the fee is
// taken from the input in basis points, then output follows the
// constant-product invariant with truncating division.
//
//	out = (in*(MaxBps-fee) * reserveOut) / (reserveIn*MaxBps + in*(MaxBps-fee))
func ExactAmountOut(reserveIn, reserveOut, amountIn uint64, feeBps uint16) (uint64, error) {
	if reserveIn == 0 || reserveOut == 0 {
		return 0, ErrZeroLiquidity
	}
	if amountIn == 0 {
		return 0, ErrInvalidAmount
	}
	if feeBps >= MaxBps {
		return 0, fmt.Errorf("amm: fee %d bps exceeds max", feeBps)
	}

	inWithFee := new(big.Int).Mul(
		new(big.Int).SetUint64(amountIn),
		big.NewInt(int64(MaxBps-int(feeBps))),
	)
	numerator := new(big.Int).Mul(inWithFee, new(big.Int).SetUint64(reserveOut))
	denominator := new(big.Int).Add(
		new(big.Int).Mul(new(big.Int).SetUint64(reserveIn), big.NewInt(MaxBps)),
		inWithFee,
	)

	out := numerator.Div(numerator, denominator)
	if !out.IsUint64() {
		return 0, fmt.Errorf("amm: output overflows uint64")
	}
	return out.Uint64(), nil
}

// SpotPrice reads the pool's marginal price in the 1e12 fixed-point
// scale, the same read the on-chain oracle performs. Returns nil for
// a degenerate pool.
func SpotPrice(stableReserve, assetReserve uint64) *big.Int {
	if stableReserve == 0 || assetReserve == 0 {
		return nil
	}
	price := new(big.Int).Mul(new(big.Int).SetUint64(stableReserve), PriceScale)
	return price.Div(price, new(big.Int).SetUint64(assetReserve))
}
