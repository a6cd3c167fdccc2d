// Trailcast - Real-Time Location Sharing and Route Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trailcast

/*
Package api implements the HTTP surface of the relay server.

Routes:

	GET /                    Bundled web client (when static_dir is set)
	GET /static/*            Web client assets, gzip-compressed
	GET /ws                  WebSocket upgrade into the relay hub
	GET /api/v1/geocode      Forward geocoding (q=<place name>)
	GET /api/v1/route        Route planning (from=<place>&to=<place>)
	GET /api/v1/health       Health status with session count
	GET /api/v1/health/live  Liveness probe
	GET /api/v1/health/ready Readiness probe
	GET /metrics             Prometheus exposition

All JSON endpoints use the APIResponse envelope with success/error shape
and per-request metadata. Request IDs flow from the X-Request-ID header
through the logging context into every log line and error payload.

Middleware is layered per route group: the global stack handles request
IDs, panic recovery, real IP extraction, CORS and request logging; the
/api/v1 group adds IP-keyed rate limiting (go-chi/httprate) and Prometheus
instrumentation. The WebSocket route bypasses the rate limiter because
sessions are long-lived.

Error semantics for the geo endpoints: empty geocoder results map to 404
NOT_FOUND, an unroutable pair to 404 NO_ROUTE, a plan superseded by a newer
request to 409 CONFLICT, an open circuit breaker to 503, and any other
upstream failure to 502. Failed lookups never mutate relay or client
state.
*/
package api
