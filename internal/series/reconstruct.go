// Package series rebuilds a regularly-sampled multi-outcome price
// series from sparse swap events, for charting. Swaps arrive at
// irregular instants and each moves a single outcome's pool; the
// chart needs one price per outcome at a fixed cadence.
package series

import (
	"errors"
	"fmt"
	"sort"

	"futarchyscope/internal/model"
)

// DefaultSampleInterval is the chart's sampling cadence in seconds.
const DefaultSampleInterval int64 = 300

// ErrEmptyWindow signals an inverted time range. A window of zero
// length is served as a single point instead.
var ErrEmptyWindow = errors.New("series: window end before window start")

// checkpoint is one price change for one outcome.
type checkpoint struct {
	ts    int64
	price float64
	ok    bool
}

// Reconstruct produces the chart series for a market whose outcomes
// start at initialReserves at windowStart. Events may arrive in any
// order; they are partitioned per outcome and sorted by timestamp, so
// the output is identical for any permutation of the same event set.
//
// Each sample applies last-observation-carried-forward per outcome.
// An exact point is always emitted at windowStart and windowEnd; when
// a sample boundary collides with windowEnd the later-computed value
// wins. A checkpoint with degenerate reserves has no defined price
// and carries the previous value forward.
func Reconstruct(initialReserves []model.Reserves, events []model.SwapEvent, windowStart, windowEnd, intervalSeconds int64) ([]model.ChartPoint, error) {
	if len(initialReserves) == 0 {
		return nil, fmt.Errorf("series: at least one outcome is required")
	}
	if intervalSeconds <= 0 {
		return nil, fmt.Errorf("series: interval must be positive, got %d", intervalSeconds)
	}
	if windowEnd < windowStart {
		return nil, ErrEmptyWindow
	}

	outcomes := len(initialReserves)

	checkpoints := make([][]checkpoint, outcomes)
	for i, reserves := range initialReserves {
		price, ok := spotRatio(reserves)
		checkpoints[i] = append(checkpoints[i], checkpoint{ts: windowStart, price: price, ok: ok})
	}

	for _, event := range events {
		if event.OutcomeIndex < 0 || event.OutcomeIndex >= outcomes {
			return nil, fmt.Errorf("series: event outcome index %d out of range [0,%d)", event.OutcomeIndex, outcomes)
		}
		if event.Timestamp > windowEnd {
			continue
		}
		price, ok := spotRatio(event.ReservesAfter())
		checkpoints[event.OutcomeIndex] = append(checkpoints[event.OutcomeIndex], checkpoint{
			ts:    event.Timestamp,
			price: price,
			ok:    ok,
		})
	}

	for i := range checkpoints {
		sort.SliceStable(checkpoints[i], func(a, b int) bool {
			return checkpoints[i][a].ts < checkpoints[i][b].ts
		})
	}

	// Cursor per outcome; advancing never rewinds because sample
	// times are visited in ascending order.
	cursors := make([]int, outcomes)
	current := make([]float64, outcomes)
	advance := func(ts int64) {
		for i := range checkpoints {
			for cursors[i] < len(checkpoints[i]) && checkpoints[i][cursors[i]].ts <= ts {
				if checkpoints[i][cursors[i]].ok {
					current[i] = checkpoints[i][cursors[i]].price
				}
				cursors[i]++
			}
		}
	}

	sample := func(ts int64) model.ChartPoint {
		advance(ts)
		prices := make([]float64, outcomes)
		copy(prices, current)
		return model.ChartPoint{Time: ts, Prices: prices}
	}

	points := make([]model.ChartPoint, 0, (windowEnd-windowStart)/intervalSeconds+2)
	for ts := windowStart; ts < windowEnd; ts += intervalSeconds {
		points = append(points, sample(ts))
	}
	points = append(points, sample(windowEnd))

	// Collapse duplicate timestamps, keeping the later-computed point.
	deduped := points[:0]
	for _, point := range points {
		if n := len(deduped); n > 0 && deduped[n-1].Time == point.Time {
			deduped[n-1] = point
			continue
		}
		deduped = append(deduped, point)
	}

	return deduped, nil
}

func spotRatio(reserves model.Reserves) (float64, bool) {
	if reserves.Degenerate() {
		return 0, false
	}
	return float64(reserves.Stable) / float64(reserves.Asset), true
}
