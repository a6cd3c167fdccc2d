// Trailcast - Real-Time Location Sharing and Route Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trailcast

/*
Package supervisor provides the suture v4 supervision tree for Trailcast.

# Tree Structure

	trailcast (root)
	├── relay-layer
	│   └── relay-hub
	└── api-layer
	    └── http-server

The layers isolate failures: a hub panic restarts the relay layer while the
HTTP server keeps serving the web client, geocoding and health endpoints.
Browser and tracker clients reconnect to the restarted hub on their own.

The tracker binary reuses the same tree with the tracker client in place of
the hub, turning supervisor restarts into its reconnect loop.

# Usage

	logger := logging.NewSlogLogger()
	tree, err := supervisor.NewSupervisorTree(logger, supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}

	tree.AddRelayService(services.NewRelayHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	errCh := tree.ServeBackground(ctx)
	// ... wait for signals ...
	cancel()
	err = <-errCh

# Failure Handling

Services that return an error or panic are restarted with exponential
backoff. When a supervisor accumulates FailureThreshold failures (decaying
at FailureDecay per second) it pauses FailureBackoff before resuming
restarts. Suture events are logged through sutureslog into the global
zerolog logger via its slog bridge.

After shutdown, UnstoppedServiceReport names any service that ignored its
context, which is the first thing to check when a deploy hangs.
*/
package supervisor
