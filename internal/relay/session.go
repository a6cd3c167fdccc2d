// Trailcast - Real-Time Location Sharing and Route Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trailcast

package relay

import (
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/trailcast/internal/logging"
	"github.com/tomtom215/trailcast/internal/metrics"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// sessionSeqCounter orders sessions for deterministic fan-out.
var sessionSeqCounter atomic.Uint64

// Session is one live WebSocket connection. Its id is the opaque identifier
// peers key their trails on; it is minted fresh per connection and never
// reused.
type Session struct {
	id   string
	seq  uint64
	hub  *Hub
	conn *websocket.Conn
	send chan Message
}

// NewSession wraps an upgraded connection. The caller registers it with the
// hub and then calls Start.
func NewSession(hub *Hub, conn *websocket.Conn) *Session {
	return &Session{
		id:   uuid.NewString(),
		seq:  sessionSeqCounter.Add(1),
		hub:  hub,
		conn: conn,
		send: make(chan Message, hub.cfg.SendBuffer),
	}
}

// ID returns the session's opaque identifier.
func (s *Session) ID() string {
	return s.id
}

// Start begins reading and writing for the session.
func (s *Session) Start() {
	go s.writePump()
	go s.readPump()
}

// enqueue offers a message to the session without blocking the caller.
func (s *Session) enqueue(msg Message) {
	select {
	case s.send <- msg:
	default:
		metrics.RelayMessagesDropped.WithLabelValues("buffer_full").Inc()
	}
}

// readPump pumps inbound messages from the connection to the hub. Any read
// error, clean close included, unregisters the session, which triggers the
// user-disconnect broadcast.
func (s *Session) readPump() {
	defer func() {
		s.hub.Unregister <- s
		_ = s.conn.Close() // best-effort cleanup
	}()

	s.conn.SetReadLimit(s.hub.cfg.MaxMessageSize)
	if err := s.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}

	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				metrics.RelayErrors.WithLabelValues("read").Inc()
				logging.Error().Err(err).Str("session_id", s.id).Msg("unexpected websocket close")
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			// Malformed frames are counted and skipped, never fatal.
			metrics.RelayErrors.WithLabelValues("decode").Inc()
			logging.Debug().Err(err).Str("session_id", s.id).Msg("undecodable message, skipping")
			continue
		}

		metrics.RelayMessagesReceived.WithLabelValues(msg.Event).Inc()

		switch msg.Event {
		case EventSendLocation:
			s.hub.RelayLocation(s, msg.Data)
		default:
			// Unknown events pass silently, matching the original relay.
			logging.Debug().Str("session_id", s.id).Str("event", msg.Event).Msg("ignoring event")
		}
	}
}

// writePump pumps messages from the hub to the connection and keeps the
// connection alive with periodic pings.
func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close() // best-effort cleanup
	}()

	for {
		select {
		case msg, ok := <-s.send:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline")
				return
			}

			if !ok {
				// The hub closed the channel
				if err := s.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					logging.Debug().Err(err).Msg("failed to write close message")
				}
				return
			}

			payload, err := MarshalMessage(msg)
			if err != nil {
				metrics.RelayErrors.WithLabelValues("write").Inc()
				logging.Error().Err(err).Msg("failed to marshal outbound message")
				continue
			}

			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				metrics.RelayErrors.WithLabelValues("write").Inc()
				logging.Error().Err(err).Str("session_id", s.id).Msg("failed to write message")
				return
			}

		case <-ticker.C:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline for ping")
				return
			}

			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
