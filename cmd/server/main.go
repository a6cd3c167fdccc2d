// Trailcast - Real-Time Location Sharing and Route Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trailcast

// Package main is the entry point for the Trailcast relay server.
//
// Trailcast is a self-hosted real-time location sharing service. Connected
// clients stream their position over a WebSocket and see every other
// session's live marker and trail on a shared map, with forward geocoding
// and route planning proxied through the server.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Load settings from environment variables and config files (Koanf v2)
//  2. Relay Hub: the broadcast loop every session fans out through
//  3. Geo Clients: geocoding and routing with circuit breakers and caching
//  4. HTTP Server: WebSocket upgrade, REST API, web client, Prometheus metrics
//  5. Supervisor Tree: suture v4 supervision with per-layer failure isolation
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables (HTTP_PORT, GEOCODER_API_KEY, ROUTING_BASE_URL, ...)
//   - Config file (config.yaml, or CONFIG_PATH)
//   - Built-in defaults
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete (10s timeout)
//   - Closes every relay session
//
// # Example Usage
//
// Development, public OSRM and OpenCage endpoints:
//
//	export GEOCODER_API_KEY=your-opencage-key
//	./trailcast-server
//
// Self-hosted providers:
//
//	export GEOCODER_BASE_URL=http://opencage.internal:8080
//	export ROUTING_BASE_URL=http://osrm.internal:5000
//	./trailcast-server
//
// # Port 3857
//
// The default port 3857 references EPSG:3857 (Web Mercator projection),
// the coordinate system used by web mapping libraries.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/trailcast/internal/api"
	"github.com/tomtom215/trailcast/internal/cache"
	"github.com/tomtom215/trailcast/internal/config"
	"github.com/tomtom215/trailcast/internal/geo"
	"github.com/tomtom215/trailcast/internal/logging"
	"github.com/tomtom215/trailcast/internal/relay"
	"github.com/tomtom215/trailcast/internal/supervisor"
	"github.com/tomtom215/trailcast/internal/supervisor/services"
)

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

	logging.Info().Msg("Starting Trailcast relay server")
	logging.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("geocoder", cfg.Geocoder.BaseURL).
		Str("routing", cfg.Routing.BaseURL).
		Str("static_dir", cfg.Server.StaticDir).
		Msg("Configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Relay hub: one broadcast loop shared by every session.
	hub := relay.NewHub(relay.Config{
		APIKey:         cfg.Geocoder.APIKey,
		SendBuffer:     cfg.Relay.SendBuffer,
		MaxMessageSize: cfg.Relay.MaxMessageSize,
	})

	// Geo clients share one result cache; the route planner composes them.
	geoCache := cache.New(cfg.Geocoder.CacheTTL)
	defer geoCache.Close()

	geocoder := geo.NewGeocodeClient(cfg.Geocoder, geoCache)
	router := geo.NewRouteClient(cfg.Routing)
	planner := geo.NewPlanner(geocoder, router)

	handler := api.NewHandler(cfg, hub, geocoder, planner)
	httpRouter := api.NewRouter(handler, api.NewChiMiddleware(nil))

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      httpRouter.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	// Supervisor tree: zerolog bridged to slog for sutureslog.
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddRelayService(services.NewRelayHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("Services added to supervisor tree")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
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

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
