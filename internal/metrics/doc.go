// Trailcast - Real-Time Location Sharing and Route Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trailcast

/*
Package metrics provides Prometheus metrics collection and export for observability.

The package exposes instrumentation for:
  - WebSocket relay sessions, relayed locations, and dropped messages
  - Geocoding and routing request latency, outcomes, and cache efficiency
  - HTTP API request latency and throughput
  - Circuit breaker state transitions

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:3857/metrics

All metrics are registered with the default registry via promauto at package
init, so importing this package is enough to make them visible.
*/
package metrics
