package amm

import (
	"errors"
	"math"
	"testing"
)

func TestExactAmountOutMatchesIntegerFormula(t *testing.T) {
	// in*(10000-30) = 99_700_000; num = 99_700_000 * 2_000_000;
	// den = 1_000_000*10000 + 99_700_000 = 10_099_700_000.
	out, err := ExactAmountOut(1_000_000, 2_000_000, 10_000, DefaultTakerFeeBps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := uint64(99_700_000 * 2_000_000 / 10_099_700_000)
	if out != want {
		t.Fatalf("output mismatch: %d != %d", out, want)
	}
}

func TestExactAmountOutNeverDrainsPool(t *testing.T) {
	reserves := []uint64{1, 1_000, 1_000_000, 1 << 49}
	amounts := []uint64{1, 10_000, 1 << 40, 1 << 49}
	for _, rIn := range reserves {
		for _, rOut := range reserves {
			for _, in := range amounts {
				out, err := ExactAmountOut(rIn, rOut, in, DefaultTakerFeeBps)
				if err != nil {
					t.Fatalf("exact(%d,%d,%d): %v", rIn, rOut, in, err)
				}
				if out >= rOut {
					t.Fatalf("exact(%d,%d,%d) drained pool: %d", rIn, rOut, in, out)
				}
			}
		}
	}
}

func TestFloatQuoteWithinDivergenceTolerance(t *testing.T) {
	cases := []struct {
		reserveIn, reserveOut, amountIn uint64
	}{
		{1_000_000, 2_000_000, 100_000},
		{1 << 49, 1 << 48, 1 << 40},
		{987_654_321, 123_456_789, 55_555},
		{3, 1_000_000_000_000, 7},
	}

	for _, tc := range cases {
		exact, err := ExactAmountOut(tc.reserveIn, tc.reserveOut, tc.amountIn, DefaultTakerFeeBps)
		if err != nil {
			t.Fatalf("exact: %v", err)
		}
		breakdown, err := Quote(float64(tc.reserveIn), float64(tc.reserveOut), float64(tc.amountIn), feeRate, 0, true)
		if err != nil {
			t.Fatalf("quote: %v", err)
		}

		// The integer path truncates, so allow one atomic unit on top
		// of the float tolerance.
		bound := 1 + FloatDivergenceTolerance*breakdown.ExactAmountOut
		if diff := math.Abs(breakdown.ExactAmountOut - float64(exact)); diff > bound {
			t.Fatalf("divergence %v exceeds bound %v for %+v", diff, bound, tc)
		}
	}
}

func TestExactAmountOutFailureModes(t *testing.T) {
	if _, err := ExactAmountOut(0, 10, 1, DefaultTakerFeeBps); !errors.Is(err, ErrZeroLiquidity) {
		t.Fatalf("expected zero liquidity, got %v", err)
	}
	if _, err := ExactAmountOut(10, 10, 0, DefaultTakerFeeBps); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
	if _, err := ExactAmountOut(10, 10, 1, MaxBps); err == nil {
		t.Fatalf("expected error for fee at max bps")
	}
}

func TestSpotPrice(t *testing.T) {
	// 400 USDC units per 4000 asset units = 0.1, scaled by 1e12.
	price := SpotPrice(400, 4000)
	if price == nil || price.String() != "100000000000" {
		t.Fatalf("spot price mismatch: %v", price)
	}
	if SpotPrice(0, 4000) != nil {
		t.Fatalf("degenerate pool should have no price")
	}
	if SpotPrice(400, 0) != nil {
		t.Fatalf("degenerate pool should have no price")
	}
}
