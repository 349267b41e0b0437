// Package display converts atomic chain quantities into human
// decimals. Internal math never uses these values; they exist for
// presentation only.
package display

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// priceScaleExp is the exponent of the fixed-point price scale
// (prices are scaled by 1e12 on chain).
const priceScaleExp = 12

// ScaleAmount converts an atomic token amount to a decimal using the
// token's precision.
func ScaleAmount(atomic uint64, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(atomic), -int32(decimals))
}

// ScalePrice converts a raw 1e12-scaled price to a stable-per-asset
// decimal, adjusting for the tokens' differing precisions.
func ScalePrice(raw *big.Int, assetDecimals, stableDecimals uint8) decimal.Decimal {
	exp := -int32(priceScaleExp) + int32(assetDecimals) - int32(stableDecimals)
	return decimal.NewFromBigInt(raw, exp)
}
