// Trailcast - Real-Time Location Sharing and Route Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trailcast

// Package peerstate reconciles the relay's broadcast stream into renderable
// map state, one trail per remote session. It is the client-side half of the
// relay protocol and is used by the headless tracker; the browser client
// mirrors the same logic in JavaScript.
package peerstate

import (
	"sync"

	"github.com/tomtom215/trailcast/internal/logging"
)

// Point is a single position in a trail.
type Point struct {
	Latitude  float64
	Longitude float64
}

// Trail holds a peer's current marker position and every position received
// for it since it first appeared. The sequence is append-only and grows for
// the life of the session unless the store caps it.
type Trail struct {
	Marker    Point
	Positions []Point
}

// MapView receives the visual side effects of store mutations. The tracker
// wires a no-op or logging view; UIs draw markers and polylines.
type MapView interface {
	// UpsertMarker moves (or creates) the marker for a peer.
	UpsertMarker(id string, p Point)
	// DrawTrail redraws a peer's polyline after a position was appended.
	DrawTrail(id string, positions []Point)
	// RemovePeer removes a peer's marker and polyline.
	RemovePeer(id string)
	// Recenter moves the viewport to a position.
	Recenter(p Point)
}

// Option configures a Store.
type Option func(*Store)

// WithMaxTrailPoints caps every trail at n points, dropping the oldest when
// the cap is exceeded. Zero (the default) keeps trails unbounded.
func WithMaxTrailPoints(n int) Option {
	return func(s *Store) {
		s.maxTrailPoints = n
	}
}

// WithSelfDedup makes Apply ignore events whose id equals the local session
// id set via SetSelfID. By default the store mirrors the wire and tracks the
// local session like any other peer.
func WithSelfDedup() Option {
	return func(s *Store) {
		s.dedupSelf = true
	}
}

// Store maps peer session ids to their trails. All mutation happens through
// Apply and Drop; the zero-value map access is guarded so the store is safe
// to share between the transport reader and inspection goroutines.
type Store struct {
	mu             sync.RWMutex
	trails         map[string]*Trail
	view           MapView
	selfID         string
	dedupSelf      bool
	maxTrailPoints int
}

// NewStore creates a store rendering into view. A nil view is allowed and
// makes the store purely a state container.
func NewStore(view MapView, opts ...Option) *Store {
	s := &Store{
		trails: make(map[string]*Trail),
		view:   view,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetSelfID records the local session's identifier, as delivered by the
// relay's session-id event.
func (s *Store) SetSelfID(id string) {
	s.mu.Lock()
	s.selfID = id
	s.mu.Unlock()
}

// SelfID returns the local session's identifier, if known.
func (s *Store) SelfID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selfID
}

// Apply folds one broadcast location event into the store. An unseen id
// creates a trail with exactly that point; a known id moves the marker and
// appends to the sequence. Every applied event recenters the view on the
// latest point.
func (s *Store) Apply(id string, lat, lon float64) {
	s.mu.Lock()

	if s.dedupSelf && s.selfID != "" && id == s.selfID {
		s.mu.Unlock()
		return
	}

	p := Point{Latitude: lat, Longitude: lon}

	trail, ok := s.trails[id]
	if !ok {
		trail = &Trail{Marker: p, Positions: []Point{p}}
		s.trails[id] = trail
		logging.Debug().Str("peer_id", id).Msg("peer appeared")
	} else {
		trail.Marker = p
		trail.Positions = append(trail.Positions, p)
		if s.maxTrailPoints > 0 && len(trail.Positions) > s.maxTrailPoints {
			trail.Positions = trail.Positions[len(trail.Positions)-s.maxTrailPoints:]
		}
	}

	positions := make([]Point, len(trail.Positions))
	copy(positions, trail.Positions)
	view := s.view
	s.mu.Unlock()

	if view != nil {
		view.UpsertMarker(id, p)
		view.DrawTrail(id, positions)
		view.Recenter(p)
	}
}

// Drop removes a peer's trail and its visuals. Unknown ids are a no-op, so
// a second disconnect for the same id changes nothing.
func (s *Store) Drop(id string) {
	s.mu.Lock()
	_, ok := s.trails[id]
	if ok {
		delete(s.trails, id)
	}
	view := s.view
	s.mu.Unlock()

	if !ok {
		return
	}

	logging.Debug().Str("peer_id", id).Msg("peer departed")
	if view != nil {
		view.RemovePeer(id)
	}
}

// Trail returns a copy of the trail for id, if present.
func (s *Store) Trail(id string) (Trail, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trail, ok := s.trails[id]
	if !ok {
		return Trail{}, false
	}

	out := Trail{
		Marker:    trail.Marker,
		Positions: make([]Point, len(trail.Positions)),
	}
	copy(out.Positions, trail.Positions)
	return out, true
}

// Peers returns the ids of all tracked peers.
func (s *Store) Peers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.trails))
	for id := range s.trails {
		ids = append(ids, id)
	}
	return ids
}

// Len returns the number of tracked peers.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.trails)
}
