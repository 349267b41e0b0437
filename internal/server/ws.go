package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"futarchyscope/internal/model"
)

// PriceHub pushes reconstructed series to websocket subscribers.
type PriceHub struct {
	logger   *zap.Logger
	clients  map[*websocket.Conn]struct{}
	mu       sync.Mutex
	upgrader websocket.Upgrader
}

// SeriesUpdate is the message pushed to subscribers whenever a
// market's series is recomputed.
type SeriesUpdate struct {
	Market          string             `json:"market"`
	IntervalSeconds int64              `json:"interval_seconds"`
	Points          []model.ChartPoint `json:"points"`
}

func NewPriceHub(logger *zap.Logger) *PriceHub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PriceHub{
		logger:   logger,
		clients:  make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

// BroadcastSeries sends an update to every connected client, dropping
// clients whose writes fail.
func (h *PriceHub) BroadcastSeries(update SeriesUpdate) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.clients) == 0 {
		return
	}

	msg, err := json.Marshal(update)
	if err != nil {
		h.logger.Error("marshal series update", zap.Error(err))
		return
	}

	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.logger.Warn("websocket write failed", zap.Error(err))
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// ClientCount reports the number of connected subscribers.
func (h *PriceHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Handler accepts websocket connections and registers them for
// series updates.
func (h *PriceHub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		h.mu.Lock()
		h.clients[conn] = struct{}{}
		h.mu.Unlock()

		// Read loop drains control frames and detects disconnects.
		go func() {
			defer func() {
				h.mu.Lock()
				delete(h.clients, conn)
				h.mu.Unlock()
				conn.Close()
			}()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}

// Close disconnects all subscribers.
func (h *PriceHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}
