package observability

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mohammed-shakir/meshcode/pkg/meshcode"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
		},
		[]string{"method", "route", "status"},
	)

	meshOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meshcode_ops_total",
			Help: "Mesh code operations by outcome.",
		},
		[]string{"op", "outcome"},
	)

	cacheResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_results_total",
			Help: "Cache lookups by tier and outcome.",
		},
		[]string{"tier", "outcome"},
	)

	cacheOpDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cache_op_duration_seconds",
			Help:    "Duration of cache backend operations in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
		},
		[]string{"op", "result"},
	)
)

func ObserveHTTP(method, route string, status int, durationSeconds float64) {
	st := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, route, st).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route, st).Observe(durationSeconds)
}

// ObserveMeshOp counts one codec call. The outcome label is derived from err.
func ObserveMeshOp(op string, err error) {
	meshOpsTotal.WithLabelValues(op, MeshOutcome(err)).Inc()
}

func MeshOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, meshcode.ErrInvalidLevel):
		return "invalid_level"
	case errors.Is(err, meshcode.ErrInvalidCode):
		return "invalid_code"
	case errors.Is(err, meshcode.ErrOutOfConvention):
		return "out_of_convention"
	case errors.Is(err, meshcode.ErrTooManyCells):
		return "too_many_cells"
	default:
		return "error"
	}
}

func IncCacheHit(tier string) {
	cacheResults.WithLabelValues(tier, "hit").Inc()
}

func IncCacheMiss(tier string) {
	cacheResults.WithLabelValues(tier, "miss").Inc()
}

func ObserveCacheOp(op string, err error, durationSeconds float64) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	cacheOpDurationSeconds.WithLabelValues(op, result).Observe(durationSeconds)
}
