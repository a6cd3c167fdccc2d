// Trailcast - Real-Time Location Sharing and Route Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trailcast

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateGeocoder(); err != nil {
		return err
	}

	if err := c.validateRouting(); err != nil {
		return err
	}

	if err := c.validateRelay(); err != nil {
		return err
	}

	if err := c.validateTracker(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got: %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got: %s", c.Server.Timeout)
	}
	return nil
}

func (c *Config) validateGeocoder() error {
	if c.Geocoder.BaseURL == "" {
		return fmt.Errorf("GEOCODER_URL is required")
	}
	if err := validateHTTPURL(c.Geocoder.BaseURL, "GEOCODER_URL"); err != nil {
		return err
	}
	if c.Geocoder.Timeout <= 0 {
		return fmt.Errorf("GEOCODER_TIMEOUT must be positive, got: %s", c.Geocoder.Timeout)
	}
	if c.Geocoder.RateLimit < 0 {
		return fmt.Errorf("GEOCODER_RATE_LIMIT must not be negative, got: %g", c.Geocoder.RateLimit)
	}
	return nil
}

// validRoutingProfiles lists the travel profiles the routing provider accepts.
var validRoutingProfiles = map[string]bool{
	"driving": true,
	"walking": true,
	"cycling": true,
}

func (c *Config) validateRouting() error {
	if c.Routing.BaseURL == "" {
		return fmt.Errorf("ROUTING_URL is required")
	}
	if err := validateHTTPURL(c.Routing.BaseURL, "ROUTING_URL"); err != nil {
		return err
	}
	if !validRoutingProfiles[c.Routing.Profile] {
		return fmt.Errorf("ROUTING_PROFILE must be one of driving, walking, cycling, got: %s", c.Routing.Profile)
	}
	if c.Routing.Timeout <= 0 {
		return fmt.Errorf("ROUTING_TIMEOUT must be positive, got: %s", c.Routing.Timeout)
	}
	return nil
}

func (c *Config) validateRelay() error {
	if c.Relay.SendBuffer < 1 {
		return fmt.Errorf("RELAY_SEND_BUFFER must be at least 1, got: %d", c.Relay.SendBuffer)
	}
	if c.Relay.MaxMessageSize < 256 {
		return fmt.Errorf("RELAY_MAX_MESSAGE_SIZE must be at least 256 bytes, got: %d", c.Relay.MaxMessageSize)
	}
	return nil
}

// validTrackerProviders lists the position sources the tracker supports.
var validTrackerProviders = map[string]bool{
	"nmea":  true,
	"fixed": true,
	"walk":  true,
}

func (c *Config) validateTracker() error {
	if !validTrackerProviders[c.Tracker.Provider] {
		return fmt.Errorf("TRACKER_PROVIDER must be one of nmea, fixed, walk, got: %s", c.Tracker.Provider)
	}
	if c.Tracker.Interval <= 0 {
		return fmt.Errorf("TRACKER_INTERVAL must be positive, got: %s", c.Tracker.Interval)
	}
	if err := validateWebSocketURL(c.Tracker.ServerURL, "TRACKER_SERVER_URL"); err != nil {
		return err
	}
	if c.Tracker.Provider == "nmea" {
		if c.Tracker.NMEAPort == "" {
			return fmt.Errorf("TRACKER_NMEA_PORT is required when TRACKER_PROVIDER=nmea")
		}
		if c.Tracker.NMEABaud <= 0 {
			return fmt.Errorf("TRACKER_NMEA_BAUD must be positive, got: %d", c.Tracker.NMEABaud)
		}
	}
	if c.Tracker.StartLat < -90 || c.Tracker.StartLat > 90 {
		return fmt.Errorf("TRACKER_START_LAT must be between -90 and 90, got: %g", c.Tracker.StartLat)
	}
	if c.Tracker.StartLon < -180 || c.Tracker.StartLon > 180 {
		return fmt.Errorf("TRACKER_START_LON must be between -180 and 180, got: %g", c.Tracker.StartLon)
	}
	return nil
}

// validLogLevels lists the log levels accepted by the logging package.
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
	"fatal": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, fatal, got: %s", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got: %s", c.Logging.Format)
	}
	return nil
}

// validateHTTPURL validates that a URL is properly formatted for HTTP/HTTPS services.
// Validates: scheme (http/https), host present, no query params.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}

	if parsedURL.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsedURL.RawQuery)
	}

	return nil
}

// validateWebSocketURL validates that a URL uses the ws or wss scheme.
func validateWebSocketURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}

	if parsedURL.Scheme != "ws" && parsedURL.Scheme != "wss" {
		return fmt.Errorf("%s scheme must be ws or wss, got: %s", fieldName, parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required (e.g., localhost:3857)", fieldName)
	}

	return nil
}
