// Trailcast - Real-Time Location Sharing and Route Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trailcast

package geo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/trailcast/internal/config"
	"github.com/tomtom215/trailcast/internal/metrics"
)

// ErrNoRoute is returned when the routing provider cannot connect the two
// points with the configured travel profile.
var ErrNoRoute = errors.New("route: no route found")

// Coordinate is a single path position.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Route is a resolved travel path.
type Route struct {
	// Distance is the path length in meters.
	Distance float64 `json:"distance"`
	// Duration is the estimated travel time in seconds.
	Duration float64 `json:"duration"`
	// Geometry is the path as ordered coordinates.
	Geometry []Coordinate `json:"geometry"`
}

// osrmResponse mirrors the OSRM route response, reduced to the fields
// Trailcast reads. Geometry arrives GeoJSON-style as [lon, lat] pairs.
type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// RouteClient fetches travel paths from an OSRM-compatible endpoint.
type RouteClient struct {
	cfg    config.RoutingConfig
	client *http.Client
	cb     *gobreaker.CircuitBreaker[*Route]
}

// NewRouteClient creates a routing client with the project's standard
// circuit breaker settings.
func NewRouteClient(cfg config.RoutingConfig) *RouteClient {
	const cbName = "router"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[*Route](gobreaker.Settings{
		Name:          cbName,
		MaxRequests:   3,
		Interval:      time.Minute,
		Timeout:       2 * time.Minute,
		ReadyToTrip:   breakerReadyToTrip(cbName),
		OnStateChange: breakerStateChange,
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNoRoute)
		},
	})

	return &RouteClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		cb:     cb,
	}
}

// Route fetches a path from one coordinate to another using the configured
// travel profile. Returns ErrNoRoute when the provider cannot connect them.
func (r *RouteClient) Route(ctx context.Context, from, to Coordinate) (*Route, error) {
	start := time.Now()
	route, err := r.cb.Execute(func() (*Route, error) {
		return r.query(ctx, from, to)
	})
	recordBreakerResult("router", err)

	switch {
	case err == nil:
		metrics.RecordRouteRequest("success", time.Since(start))
	case errors.Is(err, ErrNoRoute):
		metrics.RecordRouteRequest("no_route", time.Since(start))
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordRouteRequest("rejected", time.Since(start))
	default:
		metrics.RecordRouteRequest("error", time.Since(start))
	}

	return route, err
}

func (r *RouteClient) query(ctx context.Context, from, to Coordinate) (*Route, error) {
	// OSRM takes lon,lat pairs in the path.
	endpoint := fmt.Sprintf("%s/route/v1/%s/%f,%f;%f,%f?overview=full&geometries=geojson",
		r.cfg.BaseURL, r.cfg.Profile,
		from.Longitude, from.Latitude,
		to.Longitude, to.Latitude)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("route: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("route: query upstream: %w", err)
	}
	defer resp.Body.Close()

	// OSRM reports "no route" with a 400 and code NoRoute, so decode first
	// and only then judge the status.
	var result osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("route: decode response (status %d): %w", resp.StatusCode, err)
	}

	if result.Code != "Ok" || len(result.Routes) == 0 {
		if result.Code == "NoRoute" || result.Code == "NoSegment" || len(result.Routes) == 0 {
			return nil, ErrNoRoute
		}
		return nil, fmt.Errorf("route: upstream code %q (status %d)", result.Code, resp.StatusCode)
	}

	best := result.Routes[0]
	geometry := make([]Coordinate, 0, len(best.Geometry.Coordinates))
	for _, pair := range best.Geometry.Coordinates {
		if len(pair) < 2 {
			continue
		}
		geometry = append(geometry, Coordinate{Latitude: pair[1], Longitude: pair[0]})
	}

	return &Route{
		Distance: best.Distance,
		Duration: best.Duration,
		Geometry: geometry,
	}, nil
}
