// Package amm computes display-grade previews of constant-product
// swaps against a futarchy conditional pool. The authoritative math
// lives on chain; the float path here exists so the trade form can
// show a breakdown on every keystroke, and it is required to stay
// within FloatDivergenceTolerance of the integer result.
package amm

import (
	"errors"
	"math"

	"futarchyscope/internal/model"
)

const (
	// MaxBps is the fee denominator used by the on-chain pool.
	MaxBps = 10_000

	// DefaultTakerFeeBps is the combined taker fee applied to swap
	// input before the constant-product formula.
	DefaultTakerFeeBps = 30

	// FloatDivergenceTolerance bounds the relative divergence between
	// the float preview and the chain's truncating integer result.
	// Holds for reserves and amounts below 2^50, where float64 still
	// carries ~15 significant digits.
	FloatDivergenceTolerance = 1e-9
)

var (
	// ErrZeroLiquidity signals a degenerate pool. Callers disable
	// trading for the outcome instead of showing a quote.
	ErrZeroLiquidity = errors.New("amm: zero liquidity")

	// ErrInvalidAmount signals a non-positive or non-finite input
	// amount. Callers clear the pending quote.
	ErrInvalidAmount = errors.New("amm: invalid amount")

	// ErrInvalidParams signals a fee rate or slippage tolerance
	// outside [0, 1). Values at or past 1 would produce a negative
	// output, never a quote.
	ErrInvalidParams = errors.New("amm: fee or slippage out of range")
)

// Quote computes the swap breakdown for trading amountIn against a
// pool holding reserveIn of the input token and reserveOut of the
// output token, charging feeRate (e.g. 0.003) on the input.
//
// Prices keep one orientation per call: forward quotes the output
// token per input token (startPrice = reserveOut/reserveIn); with
// forward=false the caller has passed reserves in the opposite trade
// order and prices are flipped so the pair's orientation is unchanged.
// slippageTolerance must satisfy 0 <= slippageTolerance < 1.
func Quote(reserveIn, reserveOut, amountIn, feeRate, slippageTolerance float64, forward bool) (*model.SwapBreakdown, error) {
	if reserveIn <= 0 || reserveOut <= 0 {
		return nil, ErrZeroLiquidity
	}
	if amountIn <= 0 || math.IsNaN(amountIn) || math.IsInf(amountIn, 0) {
		return nil, ErrInvalidAmount
	}
	// Negated comparisons so NaN is rejected too.
	if !(feeRate >= 0 && feeRate < 1) || !(slippageTolerance >= 0 && slippageTolerance < 1) {
		return nil, ErrInvalidParams
	}

	amountInAfterFee := amountIn * (1 - feeRate)
	ammFee := amountIn - amountInAfterFee

	exactAmountOut := reserveOut - (reserveIn*reserveOut)/(reserveIn+amountInAfterFee)

	var startPrice, finalPrice, averagePrice float64
	if forward {
		startPrice = reserveOut / reserveIn
		finalPrice = startPrice
		if reserveOut-exactAmountOut > 0 {
			finalPrice = (reserveOut - exactAmountOut) / (reserveIn + amountInAfterFee)
		}
		averagePrice = exactAmountOut / amountIn
	} else {
		startPrice = reserveIn / reserveOut
		finalPrice = startPrice
		if reserveOut-exactAmountOut > 0 {
			finalPrice = (reserveIn + amountInAfterFee) / (reserveOut - exactAmountOut)
		}
		averagePrice = amountIn / exactAmountOut
	}

	return &model.SwapBreakdown{
		StartPrice:     startPrice,
		FinalPrice:     finalPrice,
		AveragePrice:   averagePrice,
		ExactAmountOut: exactAmountOut,
		MinAmountOut:   exactAmountOut * (1 - slippageTolerance),
		PriceImpact:    math.Abs(finalPrice-startPrice) / startPrice * 100,
		AmmFee:         ammFee,
	}, nil
}
