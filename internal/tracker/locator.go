// Trailcast - Real-Time Location Sharing and Route Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trailcast

package tracker

import (
	"bufio"
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/adrianmo/go-nmea"
	"github.com/tarm/serial"

	"github.com/tomtom215/trailcast/internal/config"
)

// Position is a locator reading. Accuracy is an estimated horizontal error
// in arbitrary units; providers without an error estimate leave it zero.
type Position struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64
}

// Provider produces the tracker's own position on demand. Implementations
// must be safe for repeated calls; a failed read is reported, not cached.
type Provider interface {
	Current(ctx context.Context) (Position, error)
}

// NewProvider builds the position provider named by the tracker config.
func NewProvider(cfg config.TrackerConfig) (Provider, error) {
	switch cfg.Provider {
	case "nmea":
		return NewNMEAProvider(cfg.NMEAPort, cfg.NMEABaud), nil
	case "fixed":
		return NewFixedProvider(cfg.StartLat, cfg.StartLon), nil
	case "walk":
		return NewWalkProvider(cfg.StartLat, cfg.StartLon, 0), nil
	default:
		return nil, fmt.Errorf("unknown tracker provider %q", cfg.Provider)
	}
}

// NMEAProvider reads positions from a GPS receiver on a serial port. Each
// Current call opens the port, scans for the first GGA fix and closes it
// again, so a flaky receiver never wedges the tracker.
type NMEAProvider struct {
	port string
	baud int
}

// NewNMEAProvider returns a provider reading from the given serial device.
func NewNMEAProvider(port string, baud int) *NMEAProvider {
	return &NMEAProvider{port: port, baud: baud}
}

// Current scans NMEA sentences until a GGA fix arrives.
func (p *NMEAProvider) Current(ctx context.Context) (Position, error) {
	s, err := serial.OpenPort(&serial.Config{Name: p.port, Baud: p.baud})
	if err != nil {
		return Position{}, fmt.Errorf("open serial port %s: %w", p.port, err)
	}
	defer s.Close()

	scanner := bufio.NewScanner(s)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return Position{}, err
		}
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "$") {
			continue
		}
		sentence, err := nmea.Parse(line)
		if err != nil {
			// Receivers emit partial lines on open. Keep scanning.
			continue
		}
		if gga, ok := sentence.(nmea.GGA); ok {
			return Position{
				Latitude:  gga.Latitude,
				Longitude: gga.Longitude,
				Accuracy:  gga.HDOP,
			}, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return Position{}, fmt.Errorf("read serial port %s: %w", p.port, err)
	}
	return Position{}, fmt.Errorf("no GGA fix on %s", p.port)
}

// FixedProvider reports one constant position. Useful for kiosks and tests.
type FixedProvider struct {
	pos Position
}

// NewFixedProvider returns a provider pinned to the given coordinates.
func NewFixedProvider(lat, lon float64) *FixedProvider {
	return &FixedProvider{pos: Position{Latitude: lat, Longitude: lon}}
}

// Current returns the configured position.
func (p *FixedProvider) Current(_ context.Context) (Position, error) {
	return p.pos, nil
}

// WalkProvider simulates a device wandering from a start position. Each
// Current call takes one bounded random step, so repeated reads trace a
// plausible trail without real hardware.
type WalkProvider struct {
	mu   sync.Mutex
	rng  *rand.Rand
	pos  Position
	step float64
}

// NewWalkProvider returns a walker starting at the given coordinates. A
// non-zero seed makes the walk reproducible.
func NewWalkProvider(lat, lon float64, seed int64) *WalkProvider {
	if seed == 0 {
		seed = rand.Int63()
	}
	return &WalkProvider{
		rng:  rand.New(rand.NewSource(seed)),
		pos:  Position{Latitude: lat, Longitude: lon},
		step: 0.0005,
	}
}

// Current advances the walk one step and returns the new position.
func (p *WalkProvider) Current(_ context.Context) (Position, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pos.Latitude += (p.rng.Float64() - 0.5) * p.step
	p.pos.Longitude += (p.rng.Float64() - 0.5) * p.step
	return p.pos, nil
}
