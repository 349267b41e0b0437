package twap

import (
	"errors"
	"math/big"

	"futarchyscope/internal/amm"
)

// MinObservationSpacing is the minimum seconds between recorded
// observations. Manipulation tends to be bursty, so the oracle
// refuses to move more than once a minute.
const MinObservationSpacing int64 = 60

// ErrNoTwap signals that the oracle has not accumulated any
// observations past its start delay.
var ErrNoTwap = errors.New("twap: no accumulated observations")

// Oracle replays the pool's manipulation-resistant TWAP: each
// observation may move at most MaxObservationChange from the last
// one, and the aggregator sums observation-seconds after the start
// delay. Prices are in the amm.PriceScale fixed-point scale.
type Oracle struct {
	CreatedAt            int64
	StartDelaySeconds    int64
	MaxObservationChange *big.Int

	LastUpdated     int64
	LastPrice       *big.Int
	LastObservation *big.Int
	Aggregator      *big.Int
}

// NewOracle seeds an oracle at market creation time.
func NewOracle(createdAt int64, initialObservation, maxObservationChange *big.Int, startDelaySeconds int64) *Oracle {
	return &Oracle{
		CreatedAt:            createdAt,
		StartDelaySeconds:    startDelaySeconds,
		MaxObservationChange: new(big.Int).Set(maxObservationChange),
		LastUpdated:          createdAt,
		LastPrice:            new(big.Int).Set(initialObservation),
		LastObservation:      new(big.Int).Set(initialObservation),
		Aggregator:           new(big.Int),
	}
}

// Update records the pool's spot price at now. Returns the recorded
// observation, or nil when the update was skipped (too soon after
// the previous observation, or a degenerate pool).
func (o *Oracle) Update(stableReserve, assetReserve uint64, now int64) *big.Int {
	if now < o.LastUpdated+MinObservationSpacing {
		return nil
	}

	price := amm.SpotPrice(stableReserve, assetReserve)
	if price == nil {
		return nil
	}

	observation := new(big.Int).Set(price)
	if price.Cmp(o.LastObservation) > 0 {
		ceiling := new(big.Int).Add(o.LastObservation, o.MaxObservationChange)
		if observation.Cmp(ceiling) > 0 {
			observation.Set(ceiling)
		}
	} else {
		floor := new(big.Int).Sub(o.LastObservation, o.MaxObservationChange)
		if floor.Sign() < 0 {
			floor.SetInt64(0)
		}
		if observation.Cmp(floor) < 0 {
			observation.Set(floor)
		}
	}

	twapStart := o.CreatedAt + o.StartDelaySeconds
	if now > twapStart {
		// Clamp so the first post-delay update is not weighted by the
		// whole pre-start period.
		effectiveLast := o.LastUpdated
		if effectiveLast < twapStart {
			effectiveLast = twapStart
		}
		elapsed := new(big.Int).SetInt64(now - effectiveLast)
		o.Aggregator.Add(o.Aggregator, new(big.Int).Mul(observation, elapsed))
	}

	o.LastUpdated = now
	o.LastPrice = price
	o.LastObservation = observation

	return observation
}

// TWAP returns the time-weighted average price since the start delay
// elapsed.
func (o *Oracle) TWAP() (*big.Int, error) {
	twapStart := o.CreatedAt + o.StartDelaySeconds
	if o.LastUpdated <= twapStart || o.Aggregator.Sign() == 0 {
		return nil, ErrNoTwap
	}
	elapsed := new(big.Int).SetInt64(o.LastUpdated - twapStart)
	return new(big.Int).Div(o.Aggregator, elapsed), nil
}
