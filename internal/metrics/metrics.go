package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "proofing",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "proofing",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	SelectionToggles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "proofing",
			Subsystem: "selection",
			Name:      "toggles_total",
			Help:      "Photo toggles by result (selected, deselected, quota_exceeded, rejected).",
		},
		[]string{"result"},
	)

	Finalizations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "proofing",
			Subsystem: "selection",
			Name:      "finalizations_total",
			Help:      "Finalize attempts by result.",
		},
		[]string{"result"},
	)

	LedgerWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "proofing",
			Subsystem: "ledger",
			Name:      "writes_total",
			Help:      "Payment status writes by target status and result.",
		},
		[]string{"status", "result"},
	)

	AssetDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "proofing",
			Subsystem: "assets",
			Name:      "decisions_total",
			Help:      "Asset access decisions by variant and decision.",
		},
		[]string{"variant", "decision"},
	)

	AggregationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "proofing",
			Subsystem: "orders",
			Name:      "aggregation_duration_seconds",
			Help:      "Time to load and fold selections into orders.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		SelectionToggles,
		Finalizations,
		LedgerWrites,
		AssetDecisions,
		AggregationDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler exposes the registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Instrument records request counts and latency per matched route.
func Instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
