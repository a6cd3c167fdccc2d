// Trailcast - Real-Time Location Sharing and Route Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trailcast

/*
Package config provides centralized configuration management for Trailcast.

Configuration is loaded in three layers with clear precedence:

 1. Built-in defaults
 2. Optional YAML config file (config.yaml, or CONFIG_PATH)
 3. Environment variables (highest priority)

# Configuration Structure

The package organizes configuration into logical groups:

  - ServerConfig: HTTP server settings (host, port, timeouts, static assets)
  - GeocoderConfig: forward geocoding provider (base URL, API key, cache, rate limit)
  - RoutingConfig: routing provider (base URL, travel profile)
  - RelayConfig: WebSocket relay tuning (buffer sizes, message limits)
  - TrackerConfig: headless tracker client (provider, serial port, publish interval)
  - LoggingConfig: log level and format

# Environment Variables

Common environment variables:

  - HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT
  - STATIC_DIR
  - GEOCODER_URL, GEOCODER_API_KEY, GEOCODER_CACHE_TTL, GEOCODER_RATE_LIMIT
  - ROUTING_URL, ROUTING_PROFILE
  - RELAY_SEND_BUFFER, RELAY_MAX_MESSAGE_SIZE
  - TRACKER_SERVER_URL, TRACKER_PROVIDER, TRACKER_INTERVAL,
    TRACKER_NMEA_PORT, TRACKER_NMEA_BAUD, TRACKER_START_LAT, TRACKER_START_LON
  - LOG_LEVEL, LOG_FORMAT
*/
package config
