package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"futarchyscope/internal/cache"
	"futarchyscope/internal/config"
	"futarchyscope/internal/server"
	"futarchyscope/internal/storage/postgres"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadServe(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.PGDSN == "" {
		return fmt.Errorf("pg dsn is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := postgres.NewStore(ctx, cfg.PGDSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer store.Close()

	var seriesCache *cache.SeriesCache
	if cfg.RedisAddr != "" {
		seriesCache = cache.NewSeriesCache(cfg.RedisAddr, cfg.CacheTTL)
		defer seriesCache.Close()
	}

	srv := server.NewServer(cfg.ListenAddr, logger, store, seriesCache)

	logger.Info("serve start",
		zap.String("listen", cfg.ListenAddr),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
		zap.String("redis", cfg.RedisAddr),
		zap.Duration("cache_ttl", cfg.CacheTTL),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
