// Trailcast - Real-Time Location Sharing and Route Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trailcast

// Package main is the entry point for the Trailcast tracker.
//
// The tracker is a headless relay client for devices without a browser:
// vehicle trackers, Raspberry Pi units wired to a GPS receiver, or test
// rigs. It reads positions from a configurable provider (NMEA serial,
// fixed, or random walk), publishes them to a Trailcast server over the
// relay WebSocket, and mirrors every peer the server broadcasts into a
// local store so the console shows who else is live.
//
// # Example Usage
//
// GPS receiver on a serial port:
//
//	export TRACKER_SERVER_URL=ws://trailcast.example.com:3857/ws
//	export TRACKER_PROVIDER=nmea
//	export TRACKER_NMEA_PORT=/dev/ttyUSB0
//	./trailcast-tracker
//
// Simulated movement for load testing:
//
//	TRACKER_PROVIDER=walk TRACKER_START_LAT=51.5 TRACKER_START_LON=-0.12 ./trailcast-tracker
//
// The tracker runs under the same supervisor tree as the server binary;
// a dropped connection surfaces as a service failure and the supervisor's
// backoff doubles as the reconnect loop.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/trailcast/internal/config"
	"github.com/tomtom215/trailcast/internal/logging"
	"github.com/tomtom215/trailcast/internal/peerstate"
	"github.com/tomtom215/trailcast/internal/supervisor"
	"github.com/tomtom215/trailcast/internal/supervisor/services"
	"github.com/tomtom215/trailcast/internal/tracker"
)

// logView writes peer activity to the log instead of a map. It is the
// tracker's console rendering of the shared view.
type logView struct{}

func (logView) UpsertMarker(id string, p peerstate.Point) {
	logging.Info().
		Str("peer", id).
		Float64("lat", p.Latitude).
		Float64("lon", p.Longitude).
		Msg("Peer position")
}

func (logView) DrawTrail(id string, positions []peerstate.Point) {
	logging.Debug().Str("peer", id).Int("points", len(positions)).Msg("Trail updated")
}

func (logView) RemovePeer(id string) {
	logging.Info().Str("peer", id).Msg("Peer disconnected")
}

func (logView) Recenter(peerstate.Point) {}

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("server", cfg.Tracker.ServerURL).
		Str("provider", cfg.Tracker.Provider).
		Dur("interval", cfg.Tracker.Interval).
		Msg("Starting Trailcast tracker")

	provider, err := tracker.NewProvider(cfg.Tracker)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create position provider")
	}

	store := peerstate.NewStore(logView{})
	client := tracker.NewClient(cfg.Tracker, provider, store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}
	tree.AddRelayService(services.NewTrackerClientService(client))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)
	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	logging.Info().Msg("Tracker stopped")
}
