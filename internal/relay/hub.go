// Trailcast - Real-Time Location Sharing and Route Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trailcast

package relay

import (
	"context"
	"sort"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tomtom215/trailcast/internal/logging"
	"github.com/tomtom215/trailcast/internal/metrics"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled indicates the parent context was canceled.
	// This is the normal graceful shutdown path (e.g., SIGTERM).
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline indicates the context deadline was exceeded.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Config tunes hub and session behavior.
type Config struct {
	// APIKey is the geocoder credential handed to every session on connect.
	APIKey string

	// SendBuffer is the per-session outbound message buffer size.
	SendBuffer int

	// MaxMessageSize caps inbound WebSocket messages in bytes.
	MaxMessageSize int64
}

// DefaultConfig returns hub defaults matching the shipped configuration.
func DefaultConfig() Config {
	return Config{
		SendBuffer:     64,
		MaxMessageSize: 4096,
	}
}

// Hub maintains the set of live sessions and fans location updates out to
// all of them. It keeps no position history: a session's latest position
// lives only in flight and in the peers' stores.
type Hub struct {
	cfg        Config
	sessions   map[*Session]bool
	relay      chan relayedMessage
	Register   chan *Session
	Unregister chan *Session
	mu         sync.RWMutex
}

// relayedMessage pairs an outbound envelope with its origin, so fan-out can
// distinguish location traffic (droppable under backpressure) from
// lifecycle notifications.
type relayedMessage struct {
	msg      Message
	location bool
}

// NewHub creates a hub with the given configuration.
func NewHub(cfg Config) *Hub {
	if cfg.SendBuffer < 1 {
		cfg.SendBuffer = DefaultConfig().SendBuffer
	}
	if cfg.MaxMessageSize < 1 {
		cfg.MaxMessageSize = DefaultConfig().MaxMessageSize
	}
	return &Hub{
		cfg:        cfg,
		relay:      make(chan relayedMessage, 256),
		Register:   make(chan *Session),
		Unregister: make(chan *Session),
		sessions:   make(map[*Session]bool),
	}
}

// RunWithContext starts the hub event loop with context support for
// graceful shutdown. Designed for use with suture supervision.
//
// A single goroutine serializes registration, unregistration, and fan-out,
// which preserves arrival order end to end: messages from one sender reach
// every peer in the order they were sent.
//
// Uses priority-based selection for predictable behavior:
//   - Priority 1: context cancellation (shutdown)
//   - Priority 2: session lifecycle events (Register/Unregister)
//   - Priority 3: relayed messages
//
// An unregister first drains the relay channel: a location already
// accepted from a session must reach every peer before that session's
// user-disconnect, or peers would recreate the departed trail.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		// Priority 1: Check for shutdown (highest priority, non-blocking)
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		// Priority 2: Handle session lifecycle events (non-blocking check)
		select {
		case s := <-h.Register:
			h.addSession(s)
			continue
		case s := <-h.Unregister:
			h.drainRelay()
			h.removeSession(s)
			continue
		default:
		}

		// Priority 3: Handle relayed messages or wait for any event (blocking)
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()

		case s := <-h.Register:
			h.addSession(s)

		case s := <-h.Unregister:
			h.drainRelay()
			h.removeSession(s)

		case rm := <-h.relay:
			h.fanOut(rm)
		}
	}
}

// drainRelay fans out every queued relay message.
func (h *Hub) drainRelay() {
	for {
		select {
		case rm := <-h.relay:
			h.fanOut(rm)
		default:
			return
		}
	}
}

// addSession registers a session and immediately hands it its credential
// and identifier, before any relayed traffic can reach it.
func (h *Hub) addSession(s *Session) {
	h.mu.Lock()
	h.sessions[s] = true
	total := len(h.sessions)
	h.mu.Unlock()

	s.enqueue(newKeyMessage(h.cfg.APIKey))
	s.enqueue(newSessionIDMessage(s.ID()))

	metrics.RecordSessionOpened()
	logging.Info().
		Str("session_id", s.ID()).
		Int("total_sessions", total).
		Msg("session connected")
}

// removeSession unregisters a session and notifies every survivor that the
// user is gone. Exactly one user-disconnect per departed session.
func (h *Hub) removeSession(s *Session) {
	h.mu.Lock()
	_, ok := h.sessions[s]
	if ok {
		delete(h.sessions, s)
		close(s.send)
	}
	total := len(h.sessions)
	h.mu.Unlock()

	if !ok {
		return
	}

	metrics.RecordSessionClosed()
	logging.Info().
		Str("session_id", s.ID()).
		Int("total_sessions", total).
		Msg("session disconnected")

	h.fanOut(relayedMessage{msg: newDisconnectMessage(s.ID())})
	metrics.RelayDisconnectBroadcasts.Inc()
}

// RelayLocation stamps the sender's id onto the raw payload and queues a
// receive-location broadcast to every session, the sender included. The
// payload is passed through untouched beyond the id stamp; the relay never
// validates coordinates.
func (h *Hub) RelayLocation(sender *Session, raw json.RawMessage) {
	msg := Message{
		Event: EventReceiveLocation,
		Data:  stampSessionID(sender.ID(), raw),
	}

	select {
	case h.relay <- relayedMessage{msg: msg, location: true}:
	default:
		metrics.RelayMessagesDropped.WithLabelValues("relay_channel_full").Inc()
		logging.Warn().Str("session_id", sender.ID()).Msg("relay channel full, dropping location")
	}
}

// fanOut delivers a message to all sessions in a deterministic order.
// Location messages are droppable per session: a full send buffer means
// that peer is behind, and a stale position is superseded by the next one
// anyway. Slow consumers of lifecycle messages are disconnected instead.
func (h *Hub) fanOut(rm relayedMessage) {
	h.mu.Lock()

	// Sort by session sequence for consistent delivery order.
	sessions := make([]*Session, 0, len(h.sessions))
	for s := range h.sessions {
		sessions = append(sessions, s)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].seq < sessions[j].seq
	})

	var toRemove []*Session

	for _, s := range sessions {
		select {
		case s.send <- rm.msg:
		default:
			if rm.location {
				// Fire-and-forget: drop the update, keep the session.
				metrics.RelayMessagesDropped.WithLabelValues("buffer_full").Inc()
				continue
			}
			toRemove = append(toRemove, s)
		}
	}

	for _, s := range toRemove {
		metrics.RelayMessagesDropped.WithLabelValues("slow_consumer").Inc()
		close(s.send)
		delete(h.sessions, s)
		metrics.RecordSessionClosed()
	}

	h.mu.Unlock()

	if rm.msg.Event == EventReceiveLocation {
		metrics.RelayLocationsRelayed.Inc()
	}

	// A forced removal ends the session here; survivors get the same
	// user-disconnect a normal close would produce. The session's own
	// later Unregister finds it already gone and stays silent.
	for _, s := range toRemove {
		logging.Warn().Str("session_id", s.ID()).Msg("slow consumer disconnected")
		h.fanOut(relayedMessage{msg: newDisconnectMessage(s.ID())})
		metrics.RelayDisconnectBroadcasts.Inc()
	}
}

// SessionCount returns the number of connected sessions.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// logGracefulShutdown closes all sessions and logs structured shutdown
// information. Context cancellation is expected behavior during graceful
// shutdown, so it is not logged as an error.
func (h *Hub) logGracefulShutdown(ctx context.Context) {
	count := h.SessionCount()
	h.closeAllSessions()

	logging.Info().
		Str("component", "relay-hub").
		Str("reason", string(shutdownReason(ctx))).
		Int("sessions_closed", count).
		Msg("relay hub stopped")
}

func shutdownReason(ctx context.Context) ShutdownReason {
	if ctx.Err() == context.DeadlineExceeded {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

// closeAllSessions closes every connected session in sequence order.
func (h *Hub) closeAllSessions() {
	h.mu.Lock()
	defer h.mu.Unlock()

	sessions := make([]*Session, 0, len(h.sessions))
	for s := range h.sessions {
		sessions = append(sessions, s)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].seq < sessions[j].seq
	})

	for _, s := range sessions {
		close(s.send)
		delete(h.sessions, s)
		metrics.RecordSessionClosed()
	}
}
