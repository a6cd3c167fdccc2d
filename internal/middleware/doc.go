// Trailcast - Real-Time Location Sharing and Route Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trailcast

/*
Package middleware provides HTTP middleware components for the application.

This package implements infrastructure middleware in http.HandlerFunc form,
adapted into Chi's middleware chain by the api package. Routing-level
concerns (CORS, rate limiting, request IDs) live in the api package on top
of the Chi ecosystem; what remains here is instrumentation and transport
plumbing.

Key Components:

  - Compression: Gzip compression with pooled writers, WebSocket-safe
  - Prometheus Metrics: per-endpoint request and latency instrumentation

Usage Example - Compression:

	import "github.com/tomtom215/trailcast/internal/middleware"

	http.HandleFunc("/static/",
	    middleware.Compression(handler),
	)

Usage Example - Prometheus Metrics:

	r.Use(func(next http.Handler) http.Handler {
	    return middleware.PrometheusMetrics(next.ServeHTTP)
	})

The Prometheus middleware labels endpoints by Chi route pattern rather than
raw path, keeping metric cardinality bounded when URLs carry parameters.

Thread Safety:

All middleware components are thread-safe:
  - Compression pools gzip writers with sync.Pool
  - Prometheus metrics use atomic operations

See Also:

  - internal/api: HTTP handlers and routing-level middleware
  - internal/metrics: Prometheus metrics definitions
*/
package middleware
