package twap

import (
	"math/big"
	"testing"

	"futarchyscope/internal/model"
)

func items(twaps ...int64) []model.TwapItem {
	out := make([]model.TwapItem, len(twaps))
	for i, v := range twaps {
		out[i] = model.TwapItem{OutcomeIndex: i}
		if v >= 0 {
			out[i].RawTwap = big.NewInt(v)
		}
	}
	return out
}

func order(ranked []model.TwapItem) []int {
	out := make([]int, len(ranked))
	for i, item := range ranked {
		out[i] = item.OutcomeIndex
	}
	return out
}

func TestRankZeroThresholdIsPlainSort(t *testing.T) {
	ranked := Rank(items(100, 300, 200), 0)
	got := order(ranked)
	want := []int{1, 2, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order mismatch: %v != %v", got, want)
		}
	}
}

func TestRankBaselineBoost(t *testing.T) {
	// Challenger leads by 2% but the baseline carries a 5% boost.
	ranked := Rank(items(1_000_000, 1_020_000), 5_000)
	if got := order(ranked); got[0] != 0 {
		t.Fatalf("baseline should hold with 5%% threshold: %v", got)
	}

	// A challenger above the boosted value wins.
	ranked = Rank(items(1_000_000, 1_060_000), 5_000)
	if got := order(ranked); got[0] != 1 {
		t.Fatalf("challenger above threshold should win: %v", got)
	}
}

func TestRankNilTwapLast(t *testing.T) {
	ranked := Rank(items(-1, 50, 100), 25_000)
	got := order(ranked)
	if got[len(got)-1] != 0 {
		t.Fatalf("nil TWAP should rank last even with threshold: %v", got)
	}
	if got[0] != 2 || got[1] != 1 {
		t.Fatalf("non-nil items should sort descending: %v", got)
	}
}

func TestRankStableTies(t *testing.T) {
	in := []model.TwapItem{
		{OutcomeIndex: 1, RawTwap: big.NewInt(500)},
		{OutcomeIndex: 2, RawTwap: big.NewInt(500)},
		{OutcomeIndex: 3, RawTwap: big.NewInt(500)},
	}
	ranked := Rank(in, 0)
	if got := order(ranked); got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("ties must keep input order: %v", got)
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	in := items(100, 300)
	_ = Rank(in, 0)
	if in[0].OutcomeIndex != 0 || in[1].OutcomeIndex != 1 {
		t.Fatalf("input slice was reordered: %+v", in)
	}
}
