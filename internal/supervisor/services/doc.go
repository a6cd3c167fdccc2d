// Trailcast - Real-Time Location Sharing and Route Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trailcast

/*
Package services provides suture.Service wrappers for Trailcast components.

Each wrapper adapts a component's lifecycle to suture's context-aware
Serve pattern:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Available Services:

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts the blocking ListenAndServe pattern to Serve
  - Configurable shutdown timeout for draining connections

Relay Hub (RelayHubService):
  - Wraps relay.Hub, whose RunWithContext already matches Serve
  - Closes all live sessions on shutdown

Tracker Client (TrackerClientService):
  - Wraps tracker.Client; a dropped relay connection surfaces as a
    service failure, so supervisor restarts double as reconnects

All wrappers use interfaces for their wrapped components, so tests run
against mocks without network listeners.
*/
package services
