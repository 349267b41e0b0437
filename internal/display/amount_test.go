package display

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestScaleAmount(t *testing.T) {
	assert.Equal(t, "1.5", ScaleAmount(1_500_000, 6).String())
	assert.Equal(t, "42", ScaleAmount(42, 0).String())
}

func TestScalePrice(t *testing.T) {
	// 400 USDC (6 decimals) against 4 base tokens (9 decimals):
	// 0.1 stable units per base unit raw, $100 per whole token.
	raw := big.NewInt(100_000_000_000)
	assert.True(t, ScalePrice(raw, 9, 6).Equal(decimal.NewFromInt(100)))

	// Equal precision: raw/1e12 directly.
	assert.True(t, ScalePrice(big.NewInt(1_500_000_000_000), 6, 6).Equal(decimal.RequireFromString("1.5")))
}
