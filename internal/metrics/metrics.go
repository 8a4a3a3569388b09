package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application collectors served on /metrics.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "macrotrack",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "macrotrack",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "macrotrack",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	mealWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "macrotrack",
			Subsystem: "meals",
			Name:      "writes_total",
			Help:      "Meal mutations by operation.",
		},
		[]string{"operation"},
	)

	rateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "macrotrack",
			Subsystem: "ratelimit",
			Name:      "rejected_total",
			Help:      "Requests rejected by the rate limiter.",
		},
		[]string{"operation"},
	)

	rateLimiterFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "macrotrack",
			Subsystem: "ratelimit",
			Name:      "fallbacks_total",
			Help:      "Checks served from memory after a Redis error.",
		},
	)

	summaryRebuilds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "macrotrack",
			Subsystem: "summaries",
			Name:      "rebuilds_total",
			Help:      "Scheduled daily summary rebuilds.",
		},
		[]string{"success"},
	)

	summaryRebuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "macrotrack",
			Subsystem: "summaries",
			Name:      "rebuild_duration_seconds",
			Help:      "Duration of daily summary rebuilds.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		mealWrites,
		rateLimited,
		rateLimiterFallbacks,
		summaryRebuilds,
		summaryRebuildDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler exposes the registered collectors.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func InFlightInc() { httpInFlight.Inc() }
func InFlightDec() { httpInFlight.Dec() }

// RecordHTTPRequest records one request. route should be the matched
// pattern, not the raw path, to keep label cardinality bounded.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	method = strings.ToUpper(method)
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func MealWritten(operation string) {
	mealWrites.WithLabelValues(operation).Inc()
}

func RateLimited(operation string) {
	rateLimited.WithLabelValues(operation).Inc()
}

func RateLimiterFallback() {
	rateLimiterFallbacks.Inc()
}

func RecordSummaryRebuild(duration time.Duration, success bool) {
	summaryRebuilds.WithLabelValues(strconv.FormatBool(success)).Inc()
	summaryRebuildDuration.Observe(duration.Seconds())
}
