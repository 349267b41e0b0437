package twap

import (
	"errors"
	"math/big"
	"testing"
)

func newTestOracle(startDelay int64) *Oracle {
	// Initial observation 1.0 in the 1e12 scale, max move 0.1 per update.
	return NewOracle(0, big.NewInt(1_000_000_000_000), big.NewInt(100_000_000_000), startDelay)
}

func TestOracleCapsObservationMovement(t *testing.T) {
	oracle := newTestOracle(0)

	// Pool price jumps to 3.0, observation may only move to 1.1.
	obs := oracle.Update(3_000_000, 1_000_000, 60)
	if obs == nil {
		t.Fatalf("expected an observation")
	}
	if obs.String() != "1100000000000" {
		t.Fatalf("observation should be capped at 1.1: %s", obs)
	}
	if oracle.LastPrice.String() != "3000000000000" {
		t.Fatalf("raw price should be recorded uncapped: %s", oracle.LastPrice)
	}

	// Crash to 0.5: capped to one step down from 1.1.
	obs = oracle.Update(500_000, 1_000_000, 120)
	if obs.String() != "1000000000000" {
		t.Fatalf("downward move should be capped at 1.0: %s", obs)
	}
}

func TestOracleMinimumSpacing(t *testing.T) {
	oracle := newTestOracle(0)
	if obs := oracle.Update(1_000_000, 1_000_000, 59); obs != nil {
		t.Fatalf("update before 60s should be skipped")
	}
	if obs := oracle.Update(1_000_000, 1_000_000, 60); obs == nil {
		t.Fatalf("update at 60s should be recorded")
	}
}

func TestOracleSkipsDegeneratePool(t *testing.T) {
	oracle := newTestOracle(0)
	if obs := oracle.Update(0, 1_000_000, 60); obs != nil {
		t.Fatalf("degenerate pool must not move the oracle")
	}
	if oracle.LastUpdated != 0 {
		t.Fatalf("skipped update must not advance the clock")
	}
}

func TestOracleTwapAccumulation(t *testing.T) {
	oracle := newTestOracle(0)

	// 60s at 1.0 then 60s at 1.1 (capped from the jump).
	oracle.Update(1_000_000, 1_000_000, 60)
	oracle.Update(2_000_000, 1_000_000, 120)

	twap, err := oracle.TWAP()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// (1.0*60 + 1.1*60) / 120 = 1.05
	if twap.String() != "1050000000000" {
		t.Fatalf("twap mismatch: %s", twap)
	}
}

func TestOracleStartDelay(t *testing.T) {
	oracle := newTestOracle(300)

	// Observation during the delay moves the observation but not the
	// aggregator.
	oracle.Update(1_000_000, 1_000_000, 120)
	if oracle.Aggregator.Sign() != 0 {
		t.Fatalf("aggregator must stay zero during start delay")
	}
	if _, err := oracle.TWAP(); !errors.Is(err, ErrNoTwap) {
		t.Fatalf("expected ErrNoTwap during delay, got %v", err)
	}

	// First post-delay update weights only from the delay boundary.
	oracle.Update(1_000_000, 1_000_000, 360)
	twap, err := oracle.TWAP()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if twap.String() != "1000000000000" {
		t.Fatalf("twap mismatch: %s", twap)
	}
}
