// Trailcast - Real-Time Location Sharing and Route Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trailcast

/*
Package geo talks to the external geocoding and routing collaborators.

GeocodeClient resolves free-form place names to coordinates against any
endpoint speaking the OpenCage wire format. RouteClient fetches a travel
path between two coordinates from any OSRM-compatible endpoint. Both wrap
their upstream calls in a circuit breaker and record Prometheus metrics;
the geocoder additionally rate-limits outbound requests and caches results.

Planner composes the two into the route-planning flow: resolve both
endpoints, fetch the path, and discard responses that a newer plan request
has superseded.
*/
package geo
