// Trailcast - Real-Time Location Sharing and Route Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trailcast

package geo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/tomtom215/trailcast/internal/logging"
)

// ErrStalePlan is returned when a plan finished after a newer plan request
// was issued. Its result must be discarded, never rendered.
var ErrStalePlan = errors.New("plan: superseded by a newer request")

// Geocoder resolves place names to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*Place, error)
}

// Router fetches a travel path between two coordinates.
type Router interface {
	Route(ctx context.Context, from, to Coordinate) (*Route, error)
}

// TripPlan is a fully resolved route between two named places.
type TripPlan struct {
	Seq   uint64 `json:"seq"`
	From  Place  `json:"from"`
	To    Place  `json:"to"`
	Route Route  `json:"route"`
}

// Planner composes geocoding and routing into the route-planning flow.
// Every request gets a monotonic sequence number; a response that loses the
// race to a newer request is discarded rather than overwriting it.
type Planner struct {
	geocoder Geocoder
	router   Router
	seq      atomic.Uint64
}

// NewPlanner creates a planner over the given collaborators.
func NewPlanner(geocoder Geocoder, router Router) *Planner {
	return &Planner{
		geocoder: geocoder,
		router:   router,
	}
}

// IsCurrent reports whether seq still identifies the latest issued plan.
func (p *Planner) IsCurrent(seq uint64) bool {
	return p.seq.Load() == seq
}

// ParseCoordinate parses a raw "lat,lon" pair. The second return is false
// when the query is not a coordinate literal and should be forward-geocoded
// instead.
func ParseCoordinate(query string) (Coordinate, bool) {
	parts := strings.Split(query, ",")
	if len(parts) != 2 {
		return Coordinate{}, false
	}
	lat, latErr := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, lonErr := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if latErr != nil || lonErr != nil {
		return Coordinate{}, false
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return Coordinate{}, false
	}
	return Coordinate{Latitude: lat, Longitude: lon}, true
}

// resolve turns a query into a place. A coordinate literal is used as-is,
// so a caller's current device position never goes through the geocoder.
func (p *Planner) resolve(ctx context.Context, query string) (*Place, error) {
	if c, ok := ParseCoordinate(query); ok {
		return &Place{
			Latitude:  c.Latitude,
			Longitude: c.Longitude,
			Formatted: query,
		}, nil
	}
	return p.geocoder.Geocode(ctx, query)
}

// Plan resolves both queries and fetches the path between them. A query is
// either a place name or a raw "lat,lon" pair. Any resolution failure is
// returned as an error and leaves nothing half applied; the caller's
// existing map state is its own to keep.
//
// If a newer Plan call is issued while this one is in flight, the slower
// result comes back as ErrStalePlan.
func (p *Planner) Plan(ctx context.Context, fromQuery, toQuery string) (*TripPlan, error) {
	seq := p.seq.Add(1)

	from, err := p.resolve(ctx, fromQuery)
	if err != nil {
		return nil, fmt.Errorf("resolve origin %q: %w", fromQuery, err)
	}

	to, err := p.resolve(ctx, toQuery)
	if err != nil {
		return nil, fmt.Errorf("resolve destination %q: %w", toQuery, err)
	}

	route, err := p.router.Route(ctx,
		Coordinate{Latitude: from.Latitude, Longitude: from.Longitude},
		Coordinate{Latitude: to.Latitude, Longitude: to.Longitude})
	if err != nil {
		return nil, fmt.Errorf("route %q to %q: %w", fromQuery, toQuery, err)
	}

	if !p.IsCurrent(seq) {
		logging.Debug().
			Uint64("seq", seq).
			Uint64("latest", p.seq.Load()).
			Msg("discarding stale plan result")
		return nil, ErrStalePlan
	}

	return &TripPlan{
		Seq:   seq,
		From:  *from,
		To:    *to,
		Route: *route,
	}, nil
}
