package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"futarchyscope/internal/config"
	"futarchyscope/internal/storage/postgres"
	"futarchyscope/internal/twap"
)

func runRank(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadRank(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if len(cfg.Twaps) == 0 {
		return fmt.Errorf("twap list is required")
	}

	items, err := config.ParseTwapItems(cfg.Twaps)
	if err != nil {
		return err
	}

	logger.Debug("rank start",
		zap.Int("outcomes", len(items)),
		zap.Uint64("threshold_bps", cfg.ThresholdBps),
	)

	ranked := twap.Rank(items, cfg.ThresholdBps)

	if cfg.PGDSN != "" {
		if cfg.Market == "" {
			return fmt.Errorf("market is required when persisting a ranking")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()

		if err := store.InsertRanking(ctx, cfg.Market, cfg.ThresholdBps, time.Now().Unix(), ranked); err != nil {
			return fmt.Errorf("persist ranking: %w", err)
		}
		logger.Info("ranking persisted",
			zap.String("market", cfg.Market),
			zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
			zap.Int("outcomes", len(ranked)),
		)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ranked)
}
