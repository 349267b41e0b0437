package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"futarchyscope/internal/chain"
	"futarchyscope/internal/config"
	"futarchyscope/internal/market"
	"futarchyscope/internal/model"
	"futarchyscope/internal/series"
	"futarchyscope/internal/storage"
	"futarchyscope/internal/storage/postgres"
)

func runChart(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadChart(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Input == "" {
		return fmt.Errorf("input path is required")
	}
	if cfg.WindowEnd == "" {
		return fmt.Errorf("window-end is required")
	}

	windowStart, err := config.ParseTimestamp(cfg.WindowStart)
	if err != nil {
		return fmt.Errorf("parse window-start: %w", err)
	}
	windowEnd, err := config.ParseTimestamp(cfg.WindowEnd)
	if err != nil {
		return fmt.Errorf("parse window-end: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	initialReserves, err := resolveInitialReserves(ctx, cfg)
	if err != nil {
		return err
	}

	events, err := storage.ReadSwapEvents(cfg.Input)
	if err != nil {
		return fmt.Errorf("read swap events: %w", err)
	}
	if cfg.Market != "" {
		events = filterByMarket(events, cfg.Market)
	}

	logger.Info("chart start",
		zap.String("input", cfg.Input),
		zap.String("market", cfg.Market),
		zap.Int("events", len(events)),
		zap.Int("outcomes", len(initialReserves)),
		zap.Int64("window_start", windowStart),
		zap.Int64("window_end", windowEnd),
		zap.Int64("interval", cfg.Interval),
	)

	points, err := series.Reconstruct(initialReserves, events, windowStart, windowEnd, cfg.Interval)
	if err != nil {
		return err
	}

	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()

		if err := store.UpsertChartPoints(ctx, cfg.Market, cfg.Interval, points); err != nil {
			return fmt.Errorf("persist chart points: %w", err)
		}
		logger.Info("chart persisted",
			zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
			zap.Int("points", len(points)),
		)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(points)
}

// resolveInitialReserves takes explicit asset:stable pairs when given,
// otherwise fetches market metadata over RPC.
func resolveInitialReserves(ctx context.Context, cfg config.ChartConfig) ([]model.Reserves, error) {
	if len(cfg.Reserves) > 0 {
		return config.ParseReserves(cfg.Reserves)
	}

	if cfg.RPCURL == "" || cfg.Market == "" {
		return nil, fmt.Errorf("either reserves or rpc+market is required")
	}
	if !common.IsHexAddress(cfg.Market) {
		return nil, fmt.Errorf("invalid market address: %s", cfg.Market)
	}

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	chainID, err := chainClient.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("get chain id: %w", err)
	}

	meta, err := market.FetchMeta(ctx, chainClient, chainID.Uint64(), common.HexToAddress(cfg.Market))
	if err != nil {
		return nil, fmt.Errorf("fetch market metadata: %w", err)
	}
	return meta.InitialReserves, nil
}

func filterByMarket(events []model.SwapEvent, address string) []model.SwapEvent {
	out := make([]model.SwapEvent, 0, len(events))
	for _, e := range events {
		if strings.EqualFold(e.Market, address) {
			out = append(out, e)
		}
	}
	return out
}
