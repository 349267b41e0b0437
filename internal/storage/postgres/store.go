package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"futarchyscope/internal/model"
)

// Store provides Postgres persistence for markets, swap events, and
// derived chart/ranking data.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// UpsertMarkets inserts or updates market metadata.
func (s *Store) UpsertMarkets(ctx context.Context, markets []model.Market) error {
	if len(markets) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, m := range markets {
		initial, err := json.Marshal(m.InitialReserves)
		if err != nil {
			return fmt.Errorf("marshal initial reserves: %w", err)
		}
		batch.Queue(`
			INSERT INTO markets (
				chain_id, market_address, outcome_count, asset_decimals, stable_decimals,
				threshold_bps, initial_reserves, first_seen_block, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
			ON CONFLICT (chain_id, market_address)
			DO UPDATE SET
				outcome_count = EXCLUDED.outcome_count,
				asset_decimals = EXCLUDED.asset_decimals,
				stable_decimals = EXCLUDED.stable_decimals,
				threshold_bps = EXCLUDED.threshold_bps,
				initial_reserves = EXCLUDED.initial_reserves,
				first_seen_block = LEAST(markets.first_seen_block, EXCLUDED.first_seen_block),
				updated_at = now()
		`,
			int64(m.ChainID),
			m.Address,
			m.OutcomeCount,
			int16(m.AssetDecimals),
			int16(m.StableDecimals),
			int64(m.ThresholdBps),
			initial,
			int64(m.FirstSeenBlock),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range markets {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// InsertSwapEvents stores decoded swap events, ignoring duplicates
// (block/tx/log index identifies an event).
func (s *Store) InsertSwapEvents(ctx context.Context, events []model.SwapEvent) error {
	if len(events) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, e := range events {
		batch.Queue(`
			INSERT INTO swap_events (
				chain_id, market_address, block_number, tx_hash, log_index,
				ts, outcome_index, is_buy, price_raw, asset_reserve_after, stable_reserve_after
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
			ON CONFLICT (chain_id, block_number, tx_hash, log_index) DO NOTHING
		`,
			int64(e.ChainID),
			e.Market,
			int64(e.BlockNumber),
			e.TxHash,
			int64(e.LogIndex),
			e.Timestamp,
			e.OutcomeIndex,
			e.IsBuy,
			e.PriceRaw,
			int64(e.AssetReserveAfter),
			int64(e.StableReserveAfter),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range events {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// UpsertChartPoints stores a reconstructed series for a market at one
// sampling interval.
func (s *Store) UpsertChartPoints(ctx context.Context, marketAddress string, intervalSeconds int64, points []model.ChartPoint) error {
	if len(points) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, p := range points {
		prices, err := json.Marshal(p.Prices)
		if err != nil {
			return fmt.Errorf("marshal prices: %w", err)
		}
		batch.Queue(`
			INSERT INTO chart_points (market_address, interval_seconds, ts, prices, updated_at)
			VALUES ($1, $2, $3, $4, now())
			ON CONFLICT (market_address, interval_seconds, ts)
			DO UPDATE SET prices = EXCLUDED.prices, updated_at = now()
		`,
			marketAddress,
			intervalSeconds,
			p.Time,
			prices,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range points {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// InsertRanking stores one computed TWAP ranking snapshot.
func (s *Store) InsertRanking(ctx context.Context, marketAddress string, thresholdBps uint64, computedAt int64, items []model.TwapItem) error {
	if len(items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for rank, item := range items {
		var rawTwap *string
		if item.RawTwap != nil {
			v := item.RawTwap.String()
			rawTwap = &v
		}
		batch.Queue(`
			INSERT INTO twap_rankings (
				market_address, threshold_bps, computed_at, rank, outcome_index, raw_twap, display_color
			) VALUES ($1,$2,$3,$4,$5,$6,$7)
			ON CONFLICT (market_address, computed_at, rank) DO NOTHING
		`,
			marketAddress,
			int64(thresholdBps),
			computedAt,
			rank,
			item.OutcomeIndex,
			rawTwap,
			item.DisplayColor,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range items {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// GetMarket loads market metadata by address.
func (s *Store) GetMarket(ctx context.Context, address string) (model.Market, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT chain_id, market_address, outcome_count, asset_decimals, stable_decimals,
		       threshold_bps, initial_reserves, first_seen_block
		FROM markets
		WHERE market_address = $1
	`, address)

	var m model.Market
	var chainID, thresholdBps, firstSeen int64
	var assetDecimals, stableDecimals int16
	var initial []byte
	err := row.Scan(&chainID, &m.Address, &m.OutcomeCount, &assetDecimals, &stableDecimals, &thresholdBps, &initial, &firstSeen)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Market{}, fmt.Errorf("market %s not found", address)
	}
	if err != nil {
		return model.Market{}, err
	}

	if err := json.Unmarshal(initial, &m.InitialReserves); err != nil {
		return model.Market{}, fmt.Errorf("parse initial reserves: %w", err)
	}
	m.ChainID = uint64(chainID)
	m.AssetDecimals = uint8(assetDecimals)
	m.StableDecimals = uint8(stableDecimals)
	m.ThresholdBps = uint64(thresholdBps)
	m.FirstSeenBlock = uint64(firstSeen)
	return m, nil
}

// ListSwapEvents returns a market's swap events in a time window,
// ordered by timestamp then log position.
func (s *Store) ListSwapEvents(ctx context.Context, address string, fromTs, toTs int64) ([]model.SwapEvent, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT chain_id, market_address, block_number, tx_hash, log_index,
		       ts, outcome_index, is_buy, price_raw, asset_reserve_after, stable_reserve_after
		FROM swap_events
		WHERE market_address = $1 AND ts >= $2 AND ts <= $3
		ORDER BY ts, block_number, log_index
	`, address, fromTs, toTs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]model.SwapEvent, 0, 256)
	for rows.Next() {
		var e model.SwapEvent
		var chainID, blockNumber, logIndex, assetAfter, stableAfter int64
		if err := rows.Scan(&chainID, &e.Market, &blockNumber, &e.TxHash, &logIndex,
			&e.Timestamp, &e.OutcomeIndex, &e.IsBuy, &e.PriceRaw, &assetAfter, &stableAfter); err != nil {
			return nil, err
		}
		e.ChainID = uint64(chainID)
		e.BlockNumber = uint64(blockNumber)
		e.LogIndex = uint64(logIndex)
		e.AssetReserveAfter = uint64(assetAfter)
		e.StableReserveAfter = uint64(stableAfter)
		events = append(events, e)
	}
	return events, rows.Err()
}
