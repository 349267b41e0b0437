package series

import (
	"errors"
	"reflect"
	"testing"

	"futarchyscope/internal/model"
)

func evenPool() []model.Reserves {
	return []model.Reserves{
		{Asset: 1_000_000, Stable: 1_000_000},
		{Asset: 1_000_000, Stable: 1_000_000},
	}
}

func TestReconstructSingleStep(t *testing.T) {
	events := []model.SwapEvent{
		{OutcomeIndex: 1, Timestamp: 3600, AssetReserveAfter: 1_000_000, StableReserveAfter: 1_500_000},
	}

	points, err := Reconstruct(evenPool(), events, 0, 7200, 300)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(points) != 25 {
		t.Fatalf("expected 25 points, got %d", len(points))
	}
	for _, point := range points {
		if point.Prices[0] != 1.0 {
			t.Fatalf("outcome 0 should stay flat at t=%d: %v", point.Time, point.Prices[0])
		}
		want := 1.0
		if point.Time >= 3600 {
			want = 1.5
		}
		if point.Prices[1] != want {
			t.Fatalf("outcome 1 price at t=%d: %v != %v", point.Time, point.Prices[1], want)
		}
	}
}

func TestReconstructOrderIndependent(t *testing.T) {
	events := []model.SwapEvent{
		{OutcomeIndex: 0, Timestamp: 900, AssetReserveAfter: 1_000_000, StableReserveAfter: 1_200_000},
		{OutcomeIndex: 1, Timestamp: 450, AssetReserveAfter: 1_000_000, StableReserveAfter: 800_000},
		{OutcomeIndex: 0, Timestamp: 1800, AssetReserveAfter: 1_000_000, StableReserveAfter: 900_000},
		{OutcomeIndex: 1, Timestamp: 1799, AssetReserveAfter: 1_000_000, StableReserveAfter: 1_100_000},
	}
	shuffled := []model.SwapEvent{events[2], events[0], events[3], events[1]}

	a, err := Reconstruct(evenPool(), events, 0, 3600, 300)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Reconstruct(evenPool(), shuffled, 0, 3600, 300)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("input order changed output:\n%+v\n%+v", a, b)
	}
}

func TestReconstructSamplingCadence(t *testing.T) {
	points, err := Reconstruct(evenPool(), nil, 100, 1150, 300)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 100, 400, 700, 1000, then the exact end at 1150.
	wantTimes := []int64{100, 400, 700, 1000, 1150}
	if len(points) != len(wantTimes) {
		t.Fatalf("expected %d points, got %d", len(wantTimes), len(points))
	}
	for i, point := range points {
		if point.Time != wantTimes[i] {
			t.Fatalf("point %d time mismatch: %d != %d", i, point.Time, wantTimes[i])
		}
		if i > 0 && point.Time <= points[i-1].Time {
			t.Fatalf("timestamps not strictly increasing at %d", i)
		}
	}
}

func TestReconstructNoEventsFlatLine(t *testing.T) {
	initial := []model.Reserves{{Asset: 2_000_000, Stable: 1_000_000}}
	points, err := Reconstruct(initial, nil, 0, 1500, 300)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, point := range points {
		if point.Prices[0] != 0.5 {
			t.Fatalf("flat line broken at t=%d: %v", point.Time, point.Prices[0])
		}
	}
}

func TestReconstructZeroLengthWindow(t *testing.T) {
	points, err := Reconstruct(evenPool(), nil, 500, 500, 300)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 1 || points[0].Time != 500 {
		t.Fatalf("expected single point at 500, got %+v", points)
	}
}

func TestReconstructInvertedWindow(t *testing.T) {
	if _, err := Reconstruct(evenPool(), nil, 500, 400, 300); !errors.Is(err, ErrEmptyWindow) {
		t.Fatalf("expected ErrEmptyWindow, got %v", err)
	}
}

func TestReconstructDegenerateCheckpointCarriesForward(t *testing.T) {
	events := []model.SwapEvent{
		{OutcomeIndex: 0, Timestamp: 300, AssetReserveAfter: 0, StableReserveAfter: 1_000_000},
		{OutcomeIndex: 0, Timestamp: 900, AssetReserveAfter: 1_000_000, StableReserveAfter: 2_000_000},
	}

	points, err := Reconstruct([]model.Reserves{{Asset: 1_000_000, Stable: 1_000_000}}, events, 0, 1200, 300)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, point := range points {
		want := 1.0
		if point.Time >= 900 {
			want = 2.0
		}
		if point.Prices[0] != want {
			t.Fatalf("price at t=%d: %v != %v", point.Time, point.Prices[0], want)
		}
	}
}

func TestReconstructEventsOutsideWindow(t *testing.T) {
	events := []model.SwapEvent{
		// Before the window: folds into the starting state but loses
		// to the initial-reserves checkpoint at windowStart.
		{OutcomeIndex: 0, Timestamp: -100, AssetReserveAfter: 1_000_000, StableReserveAfter: 9_000_000},
		// After the window: ignored.
		{OutcomeIndex: 0, Timestamp: 99_999, AssetReserveAfter: 1_000_000, StableReserveAfter: 7_000_000},
	}

	points, err := Reconstruct([]model.Reserves{{Asset: 1_000_000, Stable: 1_000_000}}, events, 0, 600, 300)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, point := range points {
		if point.Prices[0] != 1.0 {
			t.Fatalf("out-of-window event leaked into series at t=%d: %v", point.Time, point.Prices[0])
		}
	}
}

func TestReconstructRejectsMalformedOutcome(t *testing.T) {
	events := []model.SwapEvent{{OutcomeIndex: 7, Timestamp: 10}}
	if _, err := Reconstruct(evenPool(), events, 0, 600, 300); err == nil {
		t.Fatalf("expected error for out-of-range outcome index")
	}
	if _, err := Reconstruct(evenPool(), nil, 0, 600, 0); err == nil {
		t.Fatalf("expected error for non-positive interval")
	}
	if _, err := Reconstruct(nil, nil, 0, 600, 300); err == nil {
		t.Fatalf("expected error for empty outcome set")
	}
}
