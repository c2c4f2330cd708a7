package utils

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sellerdash",
		Name:      "http_requests_total",
		Help:      "HTTP requests served, by route and status code.",
	}, []string{"method", "route", "code"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sellerdash",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency, by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// UpstreamDuration times calls to the seller API.
	UpstreamDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sellerdash",
		Name:      "upstream_request_duration_seconds",
		Help:      "Upstream API latency, by endpoint and outcome.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint", "outcome"})

	// RefreshFailures counts periodic order refreshes that failed.
	RefreshFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sellerdash",
		Name:      "orders_refresh_failures_total",
		Help:      "Periodic order refreshes that failed.",
	})
)

func init() {
	prometheus.MustRegister(httpRequests, httpDuration, UpstreamDuration, RefreshFailures)
}

// Metrics records request count and latency labelled by the chi route pattern,
// so /orders/{id} stays one series.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status(ww))).Inc()
		httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// ObserveUpstream records one upstream call.
func ObserveUpstream(endpoint string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	UpstreamDuration.WithLabelValues(endpoint, outcome).Observe(time.Since(start).Seconds())
}
