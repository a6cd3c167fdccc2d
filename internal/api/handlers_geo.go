// Trailcast - Real-Time Location Sharing and Route Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trailcast

package api

import (
	"errors"
	"net/http"

	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/trailcast/internal/geo"
	"github.com/tomtom215/trailcast/internal/validation"
)

// GeocodeRequest is the query contract for the geocode endpoint.
type GeocodeRequest struct {
	Query string `validate:"required,min=2,max=256"`
}

// RouteRequest is the query contract for the route planning endpoint.
type RouteRequest struct {
	From string `validate:"required,min=2,max=256"`
	To   string `validate:"required,min=2,max=256"`
}

// Geocode resolves a place name to coordinates.
//
// GET /api/v1/geocode?q=<query>
func (h *Handler) Geocode(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req := GeocodeRequest{Query: r.URL.Query().Get("q")}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	place, err := h.geocoder.Geocode(r.Context(), req.Query)
	if err != nil {
		h.respondGeoError(rw, "geocoder", err)
		return
	}

	rw.Success(place)
}

// Route resolves both endpoints and plans a route between them. Either
// query may be a place name or a raw "lat,lon" pair; coordinate pairs are
// used directly without geocoding.
//
// GET /api/v1/route?from=<query>&to=<query>
func (h *Handler) Route(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	q := r.URL.Query()
	req := RouteRequest{From: q.Get("from"), To: q.Get("to")}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	plan, err := h.planner.Plan(r.Context(), req.From, req.To)
	if err != nil {
		h.respondGeoError(rw, "router", err)
		return
	}

	rw.Success(plan)
}

// respondGeoError maps geo package failures onto API error responses. The
// map itself is never touched on error paths; clients keep whatever plan
// they last rendered.
func (h *Handler) respondGeoError(rw *ResponseWriter, service string, err error) {
	switch {
	case errors.Is(err, geo.ErrNoResults):
		rw.NotFound("No results for that place name")
	case errors.Is(err, geo.ErrNoRoute):
		rw.Error(http.StatusNotFound, ErrCodeNoRoute, "No route between those places")
	case errors.Is(err, geo.ErrStalePlan):
		rw.Conflict("Superseded by a newer request")
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		rw.ServiceUnavailable("Upstream provider temporarily unavailable")
	default:
		rw.ExternalServiceError(service, err)
	}
}
