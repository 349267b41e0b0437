package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"futarchyscope/internal/series"
)

func main() {
	root := &cobra.Command{
		Use:          "futarchyscope",
		Short:        "Futarchy market swap indexer and price analytics",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	ingestCmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest OutcomeSwap events from chain",
		RunE:  runIngest,
	}

	ingestCmd.Flags().String("rpc", "", "EVM RPC URL")
	ingestCmd.Flags().Uint64("from", 0, "start block (inclusive)")
	ingestCmd.Flags().Uint64("to", 0, "end block (inclusive), 0 means latest")
	ingestCmd.Flags().StringSlice("market", nil, "futarchy AMM addresses (comma-separated)")
	ingestCmd.Flags().Uint64("batch-size", 2000, "blocks per batch")
	ingestCmd.Flags().String("out", "./data/swap_events.jsonl", "output JSONL path")
	ingestCmd.Flags().String("checkpoint", "./data/checkpoint.json", "checkpoint file path")
	ingestCmd.Flags().Bool("checkpoint-enabled", true, "enable checkpointing")
	ingestCmd.Flags().Int("max-retries", 5, "maximum retry attempts")
	ingestCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	ingestCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(ingestCmd)

	chartCmd := &cobra.Command{
		Use:   "chart",
		Short: "Reconstruct a fixed-cadence price series from swap events",
		RunE:  runChart,
	}

	chartCmd.Flags().String("in", "", "input swap events JSONL")
	chartCmd.Flags().String("market", "", "futarchy AMM address")
	chartCmd.Flags().String("rpc", "", "EVM RPC URL (for fetching initial reserves)")
	chartCmd.Flags().StringSlice("reserves", nil, "per-outcome initial reserves as asset:stable pairs")
	chartCmd.Flags().String("window-start", "", "window start (unix seconds or RFC3339)")
	chartCmd.Flags().String("window-end", "", "window end (unix seconds or RFC3339)")
	chartCmd.Flags().Int64("interval", series.DefaultSampleInterval, "sampling interval in seconds")
	chartCmd.Flags().String("pg-dsn", "", "Postgres DSN (optional, persists the series)")
	chartCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(chartCmd)

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Preview a constant-product swap",
		RunE:  runQuote,
	}

	quoteCmd.Flags().Float64("reserve-in", 0, "input-side pool reserve")
	quoteCmd.Flags().Float64("reserve-out", 0, "output-side pool reserve")
	quoteCmd.Flags().Float64("amount-in", 0, "swap input amount")
	quoteCmd.Flags().Uint32("fee-bps", 30, "taker fee in basis points")
	quoteCmd.Flags().Float64("slippage", 0.01, "slippage tolerance (fraction)")
	quoteCmd.Flags().Bool("forward", true, "asset-to-stable direction")
	quoteCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(quoteCmd)

	rankCmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank outcomes by effective TWAP",
		RunE:  runRank,
	}

	rankCmd.Flags().StringSlice("twap", nil, "raw TWAP per outcome in order ('-' for missing)")
	rankCmd.Flags().Uint64("threshold-bps", 0, "pass threshold applied to outcome 0")
	rankCmd.Flags().String("market", "", "futarchy AMM address (required with pg-dsn)")
	rankCmd.Flags().String("pg-dsn", "", "Postgres DSN (optional, persists the ranking)")
	rankCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(rankCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE:  runServe,
	}

	serveCmd.Flags().String("listen", ":8080", "listen address")
	serveCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	serveCmd.Flags().String("redis", "", "Redis address (optional, enables series cache)")
	serveCmd.Flags().Duration("cache-ttl", 5*time.Minute, "series cache TTL")
	serveCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(serveCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
