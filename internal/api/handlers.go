// Trailcast - Real-Time Location Sharing and Route Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trailcast

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/trailcast/internal/config"
	"github.com/tomtom215/trailcast/internal/geo"
	"github.com/tomtom215/trailcast/internal/relay"
)

// Version is the reported application version.
const Version = "1.0.0"

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	config    *config.Config
	hub       *relay.Hub
	geocoder  geo.Geocoder
	planner   *geo.Planner
	upgrader  websocket.Upgrader
	startTime time.Time
}

// NewHandler creates the handler set for the HTTP surface. The geocoder
// serves the standalone geocode endpoint; the planner drives route planning.
func NewHandler(cfg *config.Config, hub *relay.Hub, geocoder geo.Geocoder, planner *geo.Planner) *Handler {
	return &Handler{
		config:   cfg,
		hub:      hub,
		geocoder: geocoder,
		planner:  planner,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The relay hands each session a scoped credential after
			// connect; origin checks stay permissive like the rest of
			// the surface.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		startTime: time.Now(),
	}
}
