package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"futarchyscope/internal/amm"
	"futarchyscope/internal/config"
)

func runQuote(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadQuote(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Debug("quote start",
		zap.Float64("reserve_in", cfg.ReserveIn),
		zap.Float64("reserve_out", cfg.ReserveOut),
		zap.Float64("amount_in", cfg.AmountIn),
		zap.Uint16("fee_bps", cfg.FeeBps),
		zap.Float64("slippage", cfg.Slippage),
		zap.Bool("forward", cfg.Forward),
	)

	breakdown, err := amm.Quote(cfg.ReserveIn, cfg.ReserveOut, cfg.AmountIn, float64(cfg.FeeBps)/amm.MaxBps, cfg.Slippage, cfg.Forward)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(breakdown)
}
