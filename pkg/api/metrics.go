package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds the Prometheus collectors exported by the server.
type Metrics struct {
	registry            *prometheus.Registry
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	treeOperationsTotal *prometheus.CounterVec
	treeItemsTotal      prometheus.Gauge
}

// NewMetrics registers and returns the server's metric collectors
// against a fresh Registry, so building more than one Server (as
// tests do) never collides with the global default registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "membtree_http_requests_total",
				Help: "Total number of HTTP requests served",
			},
			[]string{"method", "route", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "membtree_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		treeOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "membtree_tree_operations_total",
				Help: "Total number of tree operations by kind and outcome",
			},
			[]string{"operation", "status"},
		),
		treeItemsTotal: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "membtree_tree_items_total",
				Help: "Number of live items currently held by the tree",
			},
		),
	}
}

// RecordOperation records a tree operation's outcome.
func (m *Metrics) RecordOperation(operation string, success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.treeOperationsTotal.WithLabelValues(operation, status).Inc()
}

// SetItemCount updates the gauge tracking live item count.
func (m *Metrics) SetItemCount(n int) {
	m.treeItemsTotal.Set(float64(n))
}

// Instrument wraps handler with request-count and latency metrics
// keyed by method and route.
func (m *Metrics) Instrument(route string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(rw, r)
		m.httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rw.statusCode)).Inc()
		m.httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	}
}

type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}
