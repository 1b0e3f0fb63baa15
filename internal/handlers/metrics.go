package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rate_engine_http_requests_total",
		Help: "Total HTTP requests by method, path pattern and status.",
	}, []string{"method", "path", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rate_engine_http_request_duration_seconds",
		Help:    "HTTP request latency distribution.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	calculationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rate_engine_calculations_total",
		Help: "Rate calculations performed, by project type.",
	}, []string{"project_type"})
)

// ObserveCalculation records a completed rate calculation.
func ObserveCalculation(projectType string) {
	calculationsTotal.WithLabelValues(projectType).Inc()
}

// Metrics instruments each request with a counter and latency histogram.
// The registered route pattern is used as the path label to keep
// cardinality bounded.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		pattern := r.Pattern
		if pattern == "" {
			pattern = "unmatched"
		}
		requestsTotal.WithLabelValues(r.Method, pattern, strconv.Itoa(rec.status)).Inc()
		requestDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
	})
}
