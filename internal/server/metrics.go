package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the API's Prometheus metrics.
type Metrics struct {
	registry *prometheus.Registry

	QuoteRequests prometheus.Counter
	ChartRequests prometheus.Counter
	ChartCacheHit prometheus.Counter
	RankRequests  prometheus.Counter
	RequestErrors *prometheus.CounterVec
}

// NewMetrics creates a Metrics instance backed by its own registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		QuoteRequests: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "futarchyscope",
			Subsystem: "api",
			Name:      "quote_requests_total",
			Help:      "Total number of swap quote requests",
		}),
		ChartRequests: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "futarchyscope",
			Subsystem: "api",
			Name:      "chart_requests_total",
			Help:      "Total number of chart series requests",
		}),
		ChartCacheHit: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "futarchyscope",
			Subsystem: "api",
			Name:      "chart_cache_hits_total",
			Help:      "Total number of chart requests served from cache",
		}),
		RankRequests: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "futarchyscope",
			Subsystem: "api",
			Name:      "rank_requests_total",
			Help:      "Total number of TWAP ranking requests",
		}),
		RequestErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "futarchyscope",
			Subsystem: "api",
			Name:      "request_errors_total",
			Help:      "Total number of failed requests by route",
		}, []string{"route"}),
	}
}

// Handler exposes the registry for the /metrics route.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
