// Trailcast - Real-Time Location Sharing and Route Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trailcast

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order
// of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/trailcast/config.yaml",
	"/etc/trailcast/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:      "0.0.0.0",
			Port:      3857,
			Timeout:   30 * time.Second,
			StaticDir: "web/static",
		},
		Geocoder: GeocoderConfig{
			BaseURL:        "https://api.opencagedata.com",
			APIKey:         "",
			Timeout:        10 * time.Second,
			CacheTTL:       10 * time.Minute,
			RateLimit:      1, // OpenCage free tier allows 1 req/s
			RateLimitBurst: 1,
		},
		Routing: RoutingConfig{
			BaseURL: "https://router.project-osrm.org",
			Profile: "driving",
			Timeout: 15 * time.Second,
		},
		Relay: RelayConfig{
			SendBuffer:     64,
			MaxMessageSize: 4096,
		},
		Tracker: TrackerConfig{
			ServerURL: "ws://localhost:3857/ws",
			Provider:  "walk",
			Interval:  2 * time.Second,
			NMEAPort:  "/dev/ttyUSB0",
			NMEABaud:  9600,
			StartLat:  0.0,
			StartLon:  0.0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in sensible defaults
//  2. Config File: optional YAML config file (if exists)
//  3. Environment Variables: override any setting
//
// Precedence is ENV > File > Defaults.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// Transform environment variable names to koanf paths:
	// HTTP_PORT -> server.port, GEOCODER_API_KEY -> geocoder.api_key
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Unmarshal into Config struct
	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	// Check environment variable first
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	// Search default paths
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables are ignored so unrelated environment noise never leaks
// into the configuration.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - GEOCODER_API_KEY -> geocoder.api_key
//   - TRACKER_NMEA_PORT -> tracker.nmea_port
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server mappings
		"http_host":    "server.host",
		"http_port":    "server.port",
		"http_timeout": "server.timeout",
		"static_dir":   "server.static_dir",

		// Geocoder mappings
		"geocoder_url":              "geocoder.base_url",
		"geocoder_api_key":          "geocoder.api_key",
		"opencage_api_key":          "geocoder.api_key", // Legacy name from the original deployment
		"geocoder_timeout":          "geocoder.timeout",
		"geocoder_cache_ttl":        "geocoder.cache_ttl",
		"geocoder_rate_limit":       "geocoder.rate_limit",
		"geocoder_rate_limit_burst": "geocoder.rate_limit_burst",

		// Routing mappings
		"routing_url":     "routing.base_url",
		"routing_profile": "routing.profile",
		"routing_timeout": "routing.timeout",

		// Relay mappings
		"relay_send_buffer":      "relay.send_buffer",
		"relay_max_message_size": "relay.max_message_size",

		// Tracker mappings
		"tracker_server_url": "tracker.server_url",
		"tracker_provider":   "tracker.provider",
		"tracker_interval":   "tracker.interval",
		"tracker_nmea_port":  "tracker.nmea_port",
		"tracker_nmea_baud":  "tracker.nmea_baud",
		"tracker_start_lat":  "tracker.start_lat",
		"tracker_start_lon":  "tracker.start_lon",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Ignore unmapped environment variables
	return ""
}
