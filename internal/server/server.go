// Package server exposes the quote, chart, and ranking operations
// over HTTP, with websocket pushes for recomputed series.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"futarchyscope/internal/amm"
	"futarchyscope/internal/cache"
	"futarchyscope/internal/model"
	"futarchyscope/internal/series"
	"futarchyscope/internal/twap"
)

// MarketReader loads market metadata and swap history for the chart
// route.
type MarketReader interface {
	GetMarket(ctx context.Context, address string) (model.Market, error)
	ListSwapEvents(ctx context.Context, address string, fromTs, toTs int64) ([]model.SwapEvent, error)
}

// Server hosts the HTTP API.
type Server struct {
	logger  *zap.Logger
	reader  MarketReader
	cache   *cache.SeriesCache
	hub     *PriceHub
	metrics *Metrics
	mux     *http.ServeMux
	server  *http.Server
}

// NewServer wires routes onto a fresh mux. reader is required for the
// chart route; cache may be nil to disable memoization.
func NewServer(addr string, logger *zap.Logger, reader MarketReader, seriesCache *cache.SeriesCache) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	mux := http.NewServeMux()
	s := &Server{
		logger:  logger,
		reader:  reader,
		cache:   seriesCache,
		hub:     NewPriceHub(logger),
		metrics: NewMetrics(),
		mux:     mux,
		server: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/quote", s.handleQuote)
	s.mux.HandleFunc("/chart", s.handleChart)
	s.mux.HandleFunc("/twap", s.handleTwap)
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.Handle("/metrics", s.metrics.Handler())
	s.mux.HandleFunc("/ws/prices", s.hub.Handler())
}

// Handler exposes the mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start begins serving; it blocks until the listener fails or the
// server shuts down.
func (s *Server) Start() error {
	s.logger.Info("http server listening", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests and disconnects subscribers.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.server.Shutdown(ctx)
}

type quoteRequest struct {
	ReserveIn  float64  `json:"reserve_in"`
	ReserveOut float64  `json:"reserve_out"`
	AmountIn   float64  `json:"amount_in"`
	FeeBps     *uint16  `json:"fee_bps"`
	Slippage   *float64 `json:"slippage"`
	Forward    *bool    `json:"forward"`
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.fail(w, "quote", http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
		return
	}
	s.metrics.QuoteRequests.Inc()

	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, "quote", http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	feeBps := uint16(amm.DefaultTakerFeeBps)
	if req.FeeBps != nil {
		feeBps = *req.FeeBps
	}
	slippage := 0.01
	if req.Slippage != nil {
		slippage = *req.Slippage
	}
	forward := true
	if req.Forward != nil {
		forward = *req.Forward
	}

	breakdown, err := amm.Quote(req.ReserveIn, req.ReserveOut, req.AmountIn, float64(feeBps)/amm.MaxBps, slippage, forward)
	if err != nil {
		s.fail(w, "quote", http.StatusUnprocessableEntity, err)
		return
	}

	s.writeJSON(w, breakdown)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.fail(w, "chart", http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
		return
	}
	s.metrics.ChartRequests.Inc()

	market := r.URL.Query().Get("market")
	if market == "" {
		s.fail(w, "chart", http.StatusBadRequest, fmt.Errorf("market is required"))
		return
	}

	from, err := queryInt(r, "from", 0)
	if err != nil {
		s.fail(w, "chart", http.StatusBadRequest, err)
		return
	}
	to, err := queryInt(r, "to", time.Now().Unix())
	if err != nil {
		s.fail(w, "chart", http.StatusBadRequest, err)
		return
	}
	interval, err := queryInt(r, "interval", series.DefaultSampleInterval)
	if err != nil {
		s.fail(w, "chart", http.StatusBadRequest, err)
		return
	}

	ctx := r.Context()
	meta, err := s.reader.GetMarket(ctx, market)
	if err != nil {
		s.fail(w, "chart", http.StatusNotFound, err)
		return
	}

	events, err := s.reader.ListSwapEvents(ctx, market, from, to)
	if err != nil {
		s.fail(w, "chart", http.StatusInternalServerError, err)
		return
	}

	key := cache.Key(market, from, to, interval, events)
	if s.cache != nil {
		points, hit, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("series cache get failed", zap.Error(err))
		} else if hit {
			s.metrics.ChartCacheHit.Inc()
			s.writeJSON(w, SeriesUpdate{Market: market, IntervalSeconds: interval, Points: points})
			return
		}
	}

	points, err := series.Reconstruct(meta.InitialReserves, events, from, to, interval)
	if err != nil {
		s.fail(w, "chart", http.StatusUnprocessableEntity, err)
		return
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, points); err != nil {
			s.logger.Warn("series cache set failed", zap.Error(err))
		}
	}

	update := SeriesUpdate{Market: market, IntervalSeconds: interval, Points: points}
	s.hub.BroadcastSeries(update)
	s.writeJSON(w, update)
}

type twapRequest struct {
	Twaps        []*string `json:"twaps"`
	ThresholdBps uint64    `json:"threshold_bps"`
}

func (s *Server) handleTwap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.fail(w, "twap", http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
		return
	}
	s.metrics.RankRequests.Inc()

	var req twapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, "twap", http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	items := make([]model.TwapItem, 0, len(req.Twaps))
	for i, raw := range req.Twaps {
		item := model.TwapItem{OutcomeIndex: i}
		if raw != nil {
			value, ok := new(big.Int).SetString(*raw, 10)
			if !ok || value.Sign() < 0 {
				s.fail(w, "twap", http.StatusBadRequest, fmt.Errorf("invalid twap value %q for outcome %d", *raw, i))
				return
			}
			item.RawTwap = value
		}
		items = append(items, item)
	}

	s.writeJSON(w, twap.Rank(items, req.ThresholdBps))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response failed", zap.Error(err))
	}
}

func (s *Server) fail(w http.ResponseWriter, route string, status int, err error) {
	s.metrics.RequestErrors.WithLabelValues(route).Inc()
	s.logger.Warn("request failed",
		zap.String("route", route),
		zap.Int("status", status),
		zap.Error(err),
	)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func queryInt(r *http.Request, key string, fallback int64) (int64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return value, nil
}
