// Trailcast - Real-Time Location Sharing and Route Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trailcast

package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/trailcast/internal/config"
)

func routingConfig(baseURL string) config.RoutingConfig {
	return config.RoutingConfig{
		BaseURL: baseURL,
		Profile: "driving",
		Timeout: 2 * time.Second,
	}
}

func TestRouteSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/route/v1/driving/") {
			t.Errorf("path = %q, want OSRM driving route path", r.URL.Path)
		}
		if got := r.URL.Query().Get("geometries"); got != "geojson" {
			t.Errorf("geometries = %q, want geojson", got)
		}
		_, _ = w.Write([]byte(`{
			"code": "Ok",
			"routes": [{
				"distance": 1234.5,
				"duration": 300.25,
				"geometry": {"coordinates": [[72.877, 19.076], [72.9, 19.1]]}
			}]
		}`))
	}))
	defer srv.Close()

	r := NewRouteClient(routingConfig(srv.URL))

	route, err := r.Route(context.Background(),
		Coordinate{Latitude: 19.076, Longitude: 72.877},
		Coordinate{Latitude: 19.1, Longitude: 72.9})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}

	if route.Distance != 1234.5 || route.Duration != 300.25 {
		t.Errorf("route = %+v", route)
	}
	if len(route.Geometry) != 2 {
		t.Fatalf("geometry length = %d, want 2", len(route.Geometry))
	}
	// GeoJSON [lon, lat] pairs become Coordinate{lat, lon}.
	if route.Geometry[0] != (Coordinate{Latitude: 19.076, Longitude: 72.877}) {
		t.Errorf("geometry[0] = %+v, want lat/lon swapped from GeoJSON", route.Geometry[0])
	}
}

func TestRouteNoRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// OSRM answers NoRoute with HTTP 400.
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code": "NoRoute", "routes": []}`))
	}))
	defer srv.Close()

	r := NewRouteClient(routingConfig(srv.URL))

	_, err := r.Route(context.Background(), Coordinate{}, Coordinate{Latitude: 1, Longitude: 1})
	if !errors.Is(err, ErrNoRoute) {
		t.Fatalf("err = %v, want ErrNoRoute", err)
	}
}

func TestRouteUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"code": "InternalError", "routes": [{"distance": 1}]}`))
	}))
	defer srv.Close()

	r := NewRouteClient(routingConfig(srv.URL))

	_, err := r.Route(context.Background(), Coordinate{}, Coordinate{Latitude: 1, Longitude: 1})
	if err == nil {
		t.Fatal("expected error for upstream failure")
	}
	if errors.Is(err, ErrNoRoute) {
		t.Errorf("internal error must not be ErrNoRoute: %v", err)
	}
}

func TestRouteSkipsMalformedCoordinatePairs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"code": "Ok",
			"routes": [{
				"distance": 10,
				"duration": 5,
				"geometry": {"coordinates": [[1, 2], [3], [5, 6]]}
			}]
		}`))
	}))
	defer srv.Close()

	r := NewRouteClient(routingConfig(srv.URL))

	route, err := r.Route(context.Background(), Coordinate{}, Coordinate{Latitude: 1, Longitude: 1})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if len(route.Geometry) != 2 {
		t.Errorf("geometry length = %d, want 2 (short pair skipped)", len(route.Geometry))
	}
}
