// Package twap ranks market outcomes by time-weighted average price
// and replicates the on-chain oracle for display verification.
package twap

import (
	"math/big"
	"sort"

	"futarchyscope/internal/model"
)

// ThresholdDivisor scales the baseline boost: outcome 0's TWAP is
// compared as raw*(ThresholdDivisor+thresholdBps) against every
// challenger's raw*ThresholdDivisor.
const ThresholdDivisor = 100_000

// Rank orders outcomes for display, descending by effective TWAP.
// Outcome 0 (the baseline "reject" outcome) gets a multiplicative
// boost of (ThresholdDivisor+thresholdBps)/ThresholdDivisor, so a
// challenger must beat it by the threshold to rank above it. Items
// without a TWAP rank last. Ties keep input order. The input slice
// is not modified.
func Rank(items []model.TwapItem, thresholdBps uint64) []model.TwapItem {
	ranked := make([]model.TwapItem, len(items))
	copy(ranked, items)

	boost := new(big.Int).SetUint64(ThresholdDivisor + thresholdBps)
	base := big.NewInt(ThresholdDivisor)

	effective := func(item model.TwapItem) *big.Int {
		if item.RawTwap == nil {
			return nil
		}
		if item.OutcomeIndex == 0 {
			return new(big.Int).Mul(item.RawTwap, boost)
		}
		return new(big.Int).Mul(item.RawTwap, base)
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		left, right := effective(ranked[a]), effective(ranked[b])
		switch {
		case left == nil:
			return false
		case right == nil:
			return true
		default:
			return left.Cmp(right) > 0
		}
	})

	return ranked
}
