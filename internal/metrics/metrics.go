// Trailcast - Real-Time Location Sharing and Route Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trailcast

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Relay Metrics
	RelaySessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_sessions",
			Help: "Current number of connected WebSocket sessions",
		},
	)

	RelaySessionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_sessions_total",
			Help: "Total number of WebSocket sessions accepted since start",
		},
	)

	RelayLocationsRelayed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_locations_relayed_total",
			Help: "Total number of location updates broadcast to sessions",
		},
	)

	RelayMessagesReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_messages_received_total",
			Help: "Total number of WebSocket messages received by event type",
		},
		[]string{"event"},
	)

	RelayMessagesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_messages_dropped_total",
			Help: "Total number of outbound messages dropped on full session buffers",
		},
		[]string{"reason"}, // "buffer_full", "slow_consumer"
	)

	RelayDisconnectBroadcasts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_disconnect_broadcasts_total",
			Help: "Total number of user-disconnect notifications broadcast",
		},
	)

	RelayErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_errors_total",
			Help: "Total number of WebSocket relay errors",
		},
		[]string{"error_type"}, // "read", "write", "upgrade", "decode"
	)

	// Geo Provider Metrics
	GeocodeRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocode_requests_total",
			Help: "Total number of geocoding requests by outcome",
		},
		[]string{"result"}, // "success", "no_results", "error", "rejected"
	)

	GeocodeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "geocode_request_duration_seconds",
			Help:    "Duration of upstream geocoding requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	GeocodeCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geocode_cache_hits_total",
			Help: "Total number of geocode cache hits",
		},
	)

	GeocodeCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geocode_cache_misses_total",
			Help: "Total number of geocode cache misses",
		},
	)

	RouteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "route_requests_total",
			Help: "Total number of routing requests by outcome",
		},
		[]string{"result"}, // "success", "no_route", "error", "rejected"
	)

	RouteDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "route_request_duration_seconds",
			Help:    "Duration of upstream routing requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordSessionOpened records a newly accepted relay session.
func RecordSessionOpened() {
	RelaySessions.Inc()
	RelaySessionsTotal.Inc()
}

// RecordSessionClosed records a relay session that has gone away.
func RecordSessionClosed() {
	RelaySessions.Dec()
}

// RecordGeocodeRequest records a geocoding request outcome and latency.
func RecordGeocodeRequest(result string, duration time.Duration) {
	GeocodeRequests.WithLabelValues(result).Inc()
	GeocodeDuration.Observe(duration.Seconds())
}

// RecordRouteRequest records a routing request outcome and latency.
func RecordRouteRequest(result string, duration time.Duration) {
	RouteRequests.WithLabelValues(result).Inc()
	RouteDuration.Observe(duration.Seconds())
}
