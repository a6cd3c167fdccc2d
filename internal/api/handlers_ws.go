// Trailcast - Real-Time Location Sharing and Route Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trailcast

package api

import (
	"net/http"

	"github.com/tomtom215/trailcast/internal/logging"
	"github.com/tomtom215/trailcast/internal/relay"
)

// WebSocket upgrades the connection and registers it with the relay hub.
// The hub owns the session from here on; this handler never writes to the
// connection after a successful upgrade.
//
// GET /ws
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote an HTTP error to the client.
		logging.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("WebSocket upgrade failed")
		return
	}

	session := relay.NewSession(h.hub, conn)
	h.hub.Register <- session
	session.Start()

	logging.Debug().
		Str("session_id", session.ID()).
		Str("remote", r.RemoteAddr).
		Msg("Session upgraded")
}
