// Package metrics registers the service's Prometheus collectors and
// provides the Gin middleware that feeds the HTTP ones.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors.
type Metrics struct {
	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	WSConnections prometheus.Gauge
	JobsProcessed *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates a Metrics with its own registry (keeps tests isolated
// from the global default).
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "planner",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "planner",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		WSConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "planner",
			Name:      "ws_connections",
			Help:      "Currently connected WebSocket clients.",
		}),
		JobsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "planner",
			Name:      "jobs_processed_total",
			Help:      "Background jobs by name and result.",
		}, []string{"job", "result"}),
		registry: reg,
	}
}

// GinMiddleware records request counts and latencies per route.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the /metrics endpoint.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}
