// Trailcast - Real-Time Location Sharing and Route Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trailcast

package config

import (
	"strings"
	"testing"
)

func TestValidateDefaults(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "port too low",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "HTTP_PORT",
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "HTTP_PORT",
		},
		{
			name:    "missing geocoder url",
			mutate:  func(c *Config) { c.Geocoder.BaseURL = "" },
			wantErr: "GEOCODER_URL is required",
		},
		{
			name:    "geocoder url bad scheme",
			mutate:  func(c *Config) { c.Geocoder.BaseURL = "ftp://example.com" },
			wantErr: "scheme must be http or https",
		},
		{
			name:    "geocoder url with query",
			mutate:  func(c *Config) { c.Geocoder.BaseURL = "https://example.com?key=x" },
			wantErr: "query parameters",
		},
		{
			name:    "negative rate limit",
			mutate:  func(c *Config) { c.Geocoder.RateLimit = -1 },
			wantErr: "GEOCODER_RATE_LIMIT",
		},
		{
			name:    "unknown routing profile",
			mutate:  func(c *Config) { c.Routing.Profile = "flying" },
			wantErr: "ROUTING_PROFILE",
		},
		{
			name:    "zero send buffer",
			mutate:  func(c *Config) { c.Relay.SendBuffer = 0 },
			wantErr: "RELAY_SEND_BUFFER",
		},
		{
			name:    "tiny max message size",
			mutate:  func(c *Config) { c.Relay.MaxMessageSize = 10 },
			wantErr: "RELAY_MAX_MESSAGE_SIZE",
		},
		{
			name:    "unknown tracker provider",
			mutate:  func(c *Config) { c.Tracker.Provider = "teleport" },
			wantErr: "TRACKER_PROVIDER",
		},
		{
			name: "nmea provider without port",
			mutate: func(c *Config) {
				c.Tracker.Provider = "nmea"
				c.Tracker.NMEAPort = ""
			},
			wantErr: "TRACKER_NMEA_PORT",
		},
		{
			name:    "tracker url not websocket",
			mutate:  func(c *Config) { c.Tracker.ServerURL = "http://localhost:3857/ws" },
			wantErr: "scheme must be ws or wss",
		},
		{
			name:    "latitude out of range",
			mutate:  func(c *Config) { c.Tracker.StartLat = 91 },
			wantErr: "TRACKER_START_LAT",
		},
		{
			name:    "longitude out of range",
			mutate:  func(c *Config) { c.Tracker.StartLon = -181 },
			wantErr: "TRACKER_START_LON",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "LOG_LEVEL",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "LOG_FORMAT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateWebSocketURL(t *testing.T) {
	if err := validateWebSocketURL("wss://relay.example.com/ws", "TRACKER_SERVER_URL"); err != nil {
		t.Errorf("wss URL should validate, got: %v", err)
	}
	if err := validateWebSocketURL("ws://localhost:3857/ws", "TRACKER_SERVER_URL"); err != nil {
		t.Errorf("ws URL should validate, got: %v", err)
	}
	if err := validateWebSocketURL("ws://", "TRACKER_SERVER_URL"); err == nil {
		t.Error("URL without host should fail validation")
	}
}
