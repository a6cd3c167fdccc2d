// Trailcast - Real-Time Location Sharing and Route Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trailcast

// Package cache provides a thread-safe in-memory TTL cache.
//
// The geo package caches upstream geocoding and routing responses here so
// repeated lookups for the same destination are served locally instead of
// consuming provider quota. Keys are derived from the query parameters via
// GenerateKey.
package cache
