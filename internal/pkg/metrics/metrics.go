package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bluecollar_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bluecollar_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	membershipOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bluecollar_membership_operations_total",
		Help: "Join and leave attempts by outcome",
	}, []string{"op", "result"})

	applicationOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bluecollar_application_operations_total",
		Help: "Job application state changes by outcome",
	}, []string{"op", "result"})

	searchFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bluecollar_search_fallback_total",
		Help: "Searches answered by the substring fallback scan",
	})

	eventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bluecollar_events_total",
		Help: "Domain events by topic and delivery result",
	}, []string{"topic", "result"})

	rateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bluecollar_rate_limited_requests_total",
		Help: "Requests rejected by the rate limiter",
	})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// ObserveMembership counts a join or leave attempt
func ObserveMembership(op string, err error) {
	membershipOps.WithLabelValues(op, result(err)).Inc()
}

// ObserveApplication counts an application state change attempt
func ObserveApplication(op string, err error) {
	applicationOps.WithLabelValues(op, result(err)).Inc()
}

// ObserveSearchFallback counts a search served by the fallback path
func ObserveSearchFallback() {
	searchFallbacks.Inc()
}

// ObserveEvent counts an event delivery outcome
func ObserveEvent(topic, outcome string) {
	eventsPublished.WithLabelValues(topic, outcome).Inc()
}

// ObserveRateLimited counts a throttled request
func ObserveRateLimited() {
	rateLimited.Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
