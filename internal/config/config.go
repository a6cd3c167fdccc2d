// Trailcast - Real-Time Location Sharing and Route Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trailcast

package config

import "time"

// Config is the root configuration for all Trailcast components.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Geocoder GeocoderConfig `koanf:"geocoder"`
	Routing  RoutingConfig  `koanf:"routing"`
	Relay    RelayConfig    `koanf:"relay"`
	Tracker  TrackerConfig  `koanf:"tracker"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host      string        `koanf:"host"`       // Bind address
	Port      int           `koanf:"port"`       // Listen port
	Timeout   time.Duration `koanf:"timeout"`    // Read/write timeout for HTTP requests
	StaticDir string        `koanf:"static_dir"` // Directory serving the web client; empty disables static serving
}

// GeocoderConfig contains settings for the forward geocoding provider.
// The provider speaks the OpenCage wire format; BaseURL can point at any
// compatible endpoint.
type GeocoderConfig struct {
	BaseURL        string        `koanf:"base_url"`         // Base endpoint, e.g. https://api.opencagedata.com
	APIKey         string        `koanf:"api_key"`          // Provider API key; may also arrive per-session over the socket
	Timeout        time.Duration `koanf:"timeout"`          // Per-request timeout
	CacheTTL       time.Duration `koanf:"cache_ttl"`        // TTL for cached query results; 0 disables caching
	RateLimit      float64       `koanf:"rate_limit"`       // Outbound requests per second; 0 disables limiting
	RateLimitBurst int           `koanf:"rate_limit_burst"` // Burst size for the outbound limiter
}

// RoutingConfig contains settings for the routing provider (OSRM wire format).
type RoutingConfig struct {
	BaseURL string        `koanf:"base_url"` // Base endpoint, e.g. https://router.project-osrm.org
	Profile string        `koanf:"profile"`  // Travel profile: driving, walking, cycling
	Timeout time.Duration `koanf:"timeout"`  // Per-request timeout
}

// RelayConfig tunes the WebSocket location relay.
type RelayConfig struct {
	SendBuffer     int   `koanf:"send_buffer"`      // Per-session outbound message buffer
	MaxMessageSize int64 `koanf:"max_message_size"` // Max inbound WebSocket message size in bytes
}

// TrackerConfig configures the headless tracker client (cmd/tracker).
type TrackerConfig struct {
	ServerURL string        `koanf:"server_url"` // WebSocket URL of the relay, e.g. ws://localhost:3857/ws
	Provider  string        `koanf:"provider"`   // Position source: nmea, fixed, walk
	Interval  time.Duration `koanf:"interval"`   // Publish interval
	NMEAPort  string        `koanf:"nmea_port"`  // Serial device for the nmea provider
	NMEABaud  int           `koanf:"nmea_baud"`  // Serial baud rate
	StartLat  float64       `koanf:"start_lat"`  // Initial latitude for fixed/walk providers
	StartLon  float64       `koanf:"start_lon"`  // Initial longitude for fixed/walk providers
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // trace, debug, info, warn, error
	Format string `koanf:"format"` // json or console
	Caller bool   `koanf:"caller"` // Include caller file:line in log output
}
