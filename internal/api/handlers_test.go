// Trailcast - Real-Time Location Sharing and Route Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trailcast

package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/trailcast/internal/config"
	"github.com/tomtom215/trailcast/internal/geo"
	"github.com/tomtom215/trailcast/internal/logging"
	"github.com/tomtom215/trailcast/internal/relay"
)

func init() {
	logging.Init(logging.Config{Level: "error", Output: io.Discard})
}

// stubGeocoder returns a fixed place or error.
type stubGeocoder struct {
	place *geo.Place
	err   error
}

func (s stubGeocoder) Geocode(context.Context, string) (*geo.Place, error) {
	return s.place, s.err
}

// stubRouter returns a fixed route or error.
type stubRouter struct {
	route *geo.Route
	err   error
}

func (s stubRouter) Route(context.Context, geo.Coordinate, geo.Coordinate) (*geo.Route, error) {
	return s.route, s.err
}

// setupServer builds the full router over stub geo collaborators and a live
// relay hub.
func setupServer(t *testing.T, geocoder stubGeocoder, router stubRouter) *httptest.Server {
	t.Helper()

	hub := relay.NewHub(relay.Config{APIKey: "test-key", SendBuffer: 16, MaxMessageSize: 4096})
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = hub.RunWithContext(ctx) }()

	cfg := &config.Config{}
	handler := NewHandler(cfg, hub, geocoder, geo.NewPlanner(geocoder, router))
	srv := httptest.NewServer(NewRouter(handler, nil).Setup())

	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return srv
}

// getJSON fetches a URL and decodes the response envelope.
func getJSON(t *testing.T, url string) (int, APIResponse) {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	var envelope APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, envelope
}

func TestHealthEndpoints(t *testing.T) {
	srv := setupServer(t, stubGeocoder{}, stubRouter{})

	tests := []struct {
		name string
		path string
	}{
		{"health", "/api/v1/health"},
		{"liveness", "/api/v1/health/live"},
		{"readiness", "/api/v1/health/ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, envelope := getJSON(t, srv.URL+tt.path)
			if status != http.StatusOK {
				t.Fatalf("status = %d, want 200", status)
			}
			if !envelope.Success {
				t.Error("expected success envelope")
			}
			if envelope.Meta == nil || envelope.Meta.RequestID == "" {
				t.Error("expected request id in meta")
			}
		})
	}
}

func TestGeocodeSuccess(t *testing.T) {
	srv := setupServer(t, stubGeocoder{
		place: &geo.Place{Latitude: 52.52, Longitude: 13.405, Formatted: "Berlin, Germany"},
	}, stubRouter{})

	status, envelope := getJSON(t, srv.URL+"/api/v1/geocode?q=Berlin")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}

	raw, _ := json.Marshal(envelope.Data)
	var place geo.Place
	if err := json.Unmarshal(raw, &place); err != nil {
		t.Fatalf("decode place: %v", err)
	}
	if place.Formatted != "Berlin, Germany" {
		t.Errorf("formatted = %q, want Berlin, Germany", place.Formatted)
	}
}

func TestGeocodeValidation(t *testing.T) {
	srv := setupServer(t, stubGeocoder{}, stubRouter{})

	tests := []struct {
		name  string
		query string
	}{
		{"missing", ""},
		{"too short", "x"},
		{"too long", strings.Repeat("a", 300)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, envelope := getJSON(t, srv.URL+"/api/v1/geocode?q="+tt.query)
			if status != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", status)
			}
			if envelope.Error == nil || envelope.Error.Code != ErrCodeValidationFailed {
				t.Fatalf("error = %+v, want %s", envelope.Error, ErrCodeValidationFailed)
			}
		})
	}
}

func TestGeoErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		geocoder   stubGeocoder
		router     stubRouter
		path       string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "geocode no results",
			geocoder:   stubGeocoder{err: geo.ErrNoResults},
			path:       "/api/v1/geocode?q=nowhere",
			wantStatus: http.StatusNotFound,
			wantCode:   ErrCodeNotFound,
		},
		{
			name:       "geocode breaker open",
			geocoder:   stubGeocoder{err: gobreaker.ErrOpenState},
			path:       "/api/v1/geocode?q=Berlin",
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   ErrCodeServiceUnavailable,
		},
		{
			name:       "geocode upstream failure",
			geocoder:   stubGeocoder{err: io.ErrUnexpectedEOF},
			path:       "/api/v1/geocode?q=Berlin",
			wantStatus: http.StatusBadGateway,
			wantCode:   ErrCodeExternalServiceFail,
		},
		{
			name:       "route no route",
			geocoder:   stubGeocoder{place: &geo.Place{Latitude: 1, Longitude: 2}},
			router:     stubRouter{err: geo.ErrNoRoute},
			path:       "/api/v1/route?from=Berlin&to=Reykjavik",
			wantStatus: http.StatusNotFound,
			wantCode:   ErrCodeNoRoute,
		},
		{
			name:       "route origin unresolvable",
			geocoder:   stubGeocoder{err: geo.ErrNoResults},
			path:       "/api/v1/route?from=nowhere&to=Berlin",
			wantStatus: http.StatusNotFound,
			wantCode:   ErrCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := setupServer(t, tt.geocoder, tt.router)
			status, envelope := getJSON(t, srv.URL+tt.path)
			if status != tt.wantStatus {
				t.Fatalf("status = %d, want %d", status, tt.wantStatus)
			}
			if envelope.Error == nil || envelope.Error.Code != tt.wantCode {
				t.Fatalf("error = %+v, want code %s", envelope.Error, tt.wantCode)
			}
		})
	}
}

func TestRouteSuccess(t *testing.T) {
	srv := setupServer(t,
		stubGeocoder{place: &geo.Place{Latitude: 52.52, Longitude: 13.405, Formatted: "Berlin"}},
		stubRouter{route: &geo.Route{
			Distance: 289000,
			Duration: 10440,
			Geometry: []geo.Coordinate{{Latitude: 52.52, Longitude: 13.405}, {Latitude: 53.55, Longitude: 9.99}},
		}},
	)

	status, envelope := getJSON(t, srv.URL+"/api/v1/route?from=Berlin&to=Hamburg")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}

	raw, _ := json.Marshal(envelope.Data)
	var plan geo.TripPlan
	if err := json.Unmarshal(raw, &plan); err != nil {
		t.Fatalf("decode plan: %v", err)
	}
	if plan.Seq == 0 {
		t.Error("expected non-zero plan sequence")
	}
	if len(plan.Route.Geometry) != 2 {
		t.Errorf("geometry points = %d, want 2", len(plan.Route.Geometry))
	}
}

func TestWebSocketUpgradeHandsOverKey(t *testing.T) {
	srv := setupServer(t, stubGeocoder{}, stubRouter{})

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var msg relay.Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read first envelope: %v", err)
	}
	if msg.Event != relay.EventAPIKey {
		t.Fatalf("first event = %q, want %q", msg.Event, relay.EventAPIKey)
	}

	var kp relay.KeyPayload
	if err := json.Unmarshal(msg.Data, &kp); err != nil {
		t.Fatalf("unmarshal key payload: %v", err)
	}
	if kp.Key != "test-key" {
		t.Errorf("key = %q, want test-key", kp.Key)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := setupServer(t, stubGeocoder{}, stubRouter{})

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "relay_sessions") {
		t.Error("expected relay metrics in exposition")
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv := setupServer(t, stubGeocoder{}, stubRouter{})

	resp, err := http.Get(srv.URL + "/api/v1/health/live")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID response header")
	}
}
