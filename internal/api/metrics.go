package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pantry_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pantry_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pantry_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)

	rateLimitRejects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pantry_rate_limit_rejects_total",
			Help: "Total number of requests rejected due to rate limiting",
		},
	)

	panicRecoveries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pantry_panic_recoveries_total",
			Help: "Total number of panics recovered in HTTP handlers",
		},
	)

	groceryItemsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pantry_grocery_items_created_total",
			Help: "Total number of grocery items created, by list",
		},
		[]string{"list"},
	)
)

// unmatchedRoute labels requests no registered pattern served, so that
// arbitrary paths cannot blow up label cardinality.
const unmatchedRoute = "unmatched"

// MetricsMiddleware records request count, latency and in-flight requests,
// labelled by the matched route pattern.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		route := unmatchedRoute
		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r.WithContext(context.WithValue(r.Context(), routeKey, &route)))

		status := strconv.Itoa(rw.status)
		httpRequestsTotal.WithLabelValues(r.Method, route, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// withRoute reports the mux pattern that matched back to MetricsMiddleware.
func withRoute(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if route, ok := r.Context().Value(routeKey).(*string); ok && r.Pattern != "" {
			*route = r.Pattern
		}
		next.ServeHTTP(w, r)
	})
}
