// Trailcast - Real-Time Location Sharing and Route Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trailcast

package peerstate

import (
	"io"
	"sync"
	"testing"

	"github.com/tomtom215/trailcast/internal/logging"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
		Output: io.Discard,
	})
}

// recordingView captures the visual side effects of store mutations.
type recordingView struct {
	mu        sync.Mutex
	markers   map[string]Point
	trails    map[string][]Point
	removed   []string
	recenters []Point
}

func newRecordingView() *recordingView {
	return &recordingView{
		markers: make(map[string]Point),
		trails:  make(map[string][]Point),
	}
}

func (v *recordingView) UpsertMarker(id string, p Point) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.markers[id] = p
}

func (v *recordingView) DrawTrail(id string, positions []Point) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.trails[id] = positions
}

func (v *recordingView) RemovePeer(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.markers, id)
	delete(v.trails, id)
	v.removed = append(v.removed, id)
}

func (v *recordingView) Recenter(p Point) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.recenters = append(v.recenters, p)
}

func TestStoreFirstEventCreatesSinglePointTrail(t *testing.T) {
	view := newRecordingView()
	store := NewStore(view)

	// Scenario: B receives A's first broadcast.
	store.Apply("A", 19.07, 72.87)

	trail, ok := store.Trail("A")
	if !ok {
		t.Fatal("expected trail for A")
	}
	if len(trail.Positions) != 1 {
		t.Fatalf("sequence length = %d, want 1", len(trail.Positions))
	}
	if trail.Positions[0] != (Point{19.07, 72.87}) {
		t.Errorf("sequence = %v, want [[19.07,72.87]]", trail.Positions)
	}
	if trail.Marker != (Point{19.07, 72.87}) {
		t.Errorf("marker = %v, want 19.07,72.87", trail.Marker)
	}
	if view.markers["A"] != (Point{19.07, 72.87}) {
		t.Errorf("view marker = %v", view.markers["A"])
	}
}

func TestStoreSecondEventMovesMarkerAndAppendsOnce(t *testing.T) {
	store := NewStore(nil)

	store.Apply("X", 1, 1)
	store.Apply("X", 2, 2)

	trail, ok := store.Trail("X")
	if !ok {
		t.Fatal("expected trail for X")
	}
	if len(trail.Positions) != 2 {
		t.Fatalf("sequence length = %d, want exactly 2 (no duplicate creation)", len(trail.Positions))
	}
	if trail.Marker != (Point{2, 2}) {
		t.Errorf("marker = %v, want latest point 2,2", trail.Marker)
	}
	if trail.Positions[0] != (Point{1, 1}) || trail.Positions[1] != (Point{2, 2}) {
		t.Errorf("sequence = %v, want append order preserved", trail.Positions)
	}
	if store.Len() != 1 {
		t.Errorf("Len = %d, want 1", store.Len())
	}
}

func TestStoreDropIsIdempotent(t *testing.T) {
	view := newRecordingView()
	store := NewStore(view)

	store.Apply("X", 5, 5)
	store.Drop("X")

	if _, ok := store.Trail("X"); ok {
		t.Fatal("trail should be gone after Drop")
	}
	if len(view.removed) != 1 {
		t.Fatalf("view removals = %d, want 1", len(view.removed))
	}

	// A second disconnect for the same id is a no-op.
	store.Drop("X")
	if len(view.removed) != 1 {
		t.Errorf("view removals after repeat Drop = %d, want still 1", len(view.removed))
	}

	// A peer that never sent a location is also a no-op.
	store.Drop("never-seen")
	if len(view.removed) != 1 {
		t.Errorf("view removals after unknown Drop = %d, want still 1", len(view.removed))
	}
}

func TestStoreRecentersOnEveryEvent(t *testing.T) {
	view := newRecordingView()
	store := NewStore(view)

	store.Apply("A", 1, 1)
	store.Apply("B", 2, 2)
	store.Apply("A", 3, 3)

	if len(view.recenters) != 3 {
		t.Fatalf("recenters = %d, want 3 (one per event)", len(view.recenters))
	}
	if view.recenters[2] != (Point{3, 3}) {
		t.Errorf("last recenter = %v, want latest point 3,3", view.recenters[2])
	}
}

func TestStoreSelfDedup(t *testing.T) {
	store := NewStore(nil, WithSelfDedup())
	store.SetSelfID("me")

	store.Apply("me", 1, 1)
	store.Apply("peer", 2, 2)

	if _, ok := store.Trail("me"); ok {
		t.Error("own echo should be ignored with self-dedup enabled")
	}
	if _, ok := store.Trail("peer"); !ok {
		t.Error("peer events must still apply")
	}
}

func TestStoreSelfTrackedByDefault(t *testing.T) {
	store := NewStore(nil)
	store.SetSelfID("me")

	store.Apply("me", 1, 1)

	if _, ok := store.Trail("me"); !ok {
		t.Error("without self-dedup the local session is tracked like any peer")
	}
}

func TestStoreMaxTrailPoints(t *testing.T) {
	store := NewStore(nil, WithMaxTrailPoints(3))

	for i := 0; i < 10; i++ {
		store.Apply("X", float64(i), 0)
	}

	trail, _ := store.Trail("X")
	if len(trail.Positions) != 3 {
		t.Fatalf("capped sequence length = %d, want 3", len(trail.Positions))
	}
	// Oldest points dropped, newest kept in order.
	for i, want := range []float64{7, 8, 9} {
		if trail.Positions[i].Latitude != want {
			t.Errorf("position %d latitude = %v, want %v", i, trail.Positions[i].Latitude, want)
		}
	}
	if trail.Marker.Latitude != 9 {
		t.Errorf("marker latitude = %v, want 9", trail.Marker.Latitude)
	}
}

func TestStoreTrailReturnsCopy(t *testing.T) {
	store := NewStore(nil)
	store.Apply("X", 1, 1)

	trail, _ := store.Trail("X")
	trail.Positions[0] = Point{99, 99}

	fresh, _ := store.Trail("X")
	if fresh.Positions[0] != (Point{1, 1}) {
		t.Error("Trail must return a copy, not the live slice")
	}
}

func TestStorePeers(t *testing.T) {
	store := NewStore(nil)
	store.Apply("A", 1, 1)
	store.Apply("B", 2, 2)

	peers := store.Peers()
	if len(peers) != 2 {
		t.Fatalf("Peers = %v, want 2 ids", peers)
	}

	seen := map[string]bool{}
	for _, id := range peers {
		seen[id] = true
	}
	if !seen["A"] || !seen["B"] {
		t.Errorf("Peers = %v, want A and B", peers)
	}
}

func TestStoreConcurrentApply(t *testing.T) {
	store := NewStore(newRecordingView())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := string(rune('A' + n%4))
			for j := 0; j < 50; j++ {
				store.Apply(id, float64(j), float64(j))
			}
		}(i)
	}
	wg.Wait()

	if store.Len() != 4 {
		t.Errorf("Len = %d, want 4", store.Len())
	}
}
