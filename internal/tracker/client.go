// Trailcast - Real-Time Location Sharing and Route Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trailcast

// Package tracker is a headless relay client. It publishes its own position
// on an interval and folds the broadcast stream into a peer state store,
// mirroring what the browser client does with a map.
package tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/trailcast/internal/config"
	"github.com/tomtom215/trailcast/internal/logging"
	"github.com/tomtom215/trailcast/internal/peerstate"
	"github.com/tomtom215/trailcast/internal/relay"
)

// Client connects to a relay, publishes positions from a Provider and keeps
// a peerstate.Store in sync with the broadcast stream.
type Client struct {
	cfg      config.TrackerConfig
	provider Provider
	store    *peerstate.Store

	mu     sync.RWMutex
	apiKey string
}

// NewClient builds a tracker client. The store may be shared with other
// consumers; the client only ever calls SetSelfID, Apply and Drop on it.
func NewClient(cfg config.TrackerConfig, provider Provider, store *peerstate.Store) *Client {
	return &Client{
		cfg:      cfg,
		provider: provider,
		store:    store,
	}
}

// APIKey returns the credential the relay handed over on connect, or the
// empty string before the handshake completes.
func (c *Client) APIKey() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey
}

// Run connects to the relay and blocks until the context is cancelled or
// the connection fails. Locator failures are logged and skipped; they never
// end the session.
func (c *Client) Run(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.cfg.ServerURL, nil)
	if err != nil {
		return fmt.Errorf("dial relay %s: %w", c.cfg.ServerURL, err)
	}
	defer conn.Close()

	logging.Info().
		Str("server_url", c.cfg.ServerURL).
		Str("provider", c.cfg.Provider).
		Dur("interval", c.cfg.Interval).
		Msg("Tracker connected")

	readErr := make(chan error, 1)
	go func() { readErr <- c.readLoop(conn) }()

	ticker := time.NewTicker(c.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Best effort close handshake; the read loop exits when the
			// peer acknowledges or the connection drops.
			deadline := time.Now().Add(time.Second)
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
			_ = conn.Close()
			<-readErr
			return ctx.Err()
		case err := <-readErr:
			return err
		case <-ticker.C:
			if err := c.publish(ctx, conn); err != nil {
				logging.Warn().Err(err).Msg("Position publish failed, skipping tick")
			}
		}
	}
}

// publish reads the locator and sends one send-location envelope.
func (c *Client) publish(ctx context.Context, conn *websocket.Conn) error {
	pos, err := c.provider.Current(ctx)
	if err != nil {
		return fmt.Errorf("read position: %w", err)
	}

	data, err := json.Marshal(relay.Location{
		Latitude:  pos.Latitude,
		Longitude: pos.Longitude,
	})
	if err != nil {
		return fmt.Errorf("encode position: %w", err)
	}
	return conn.WriteJSON(relay.Message{Event: relay.EventSendLocation, Data: data})
}

// readLoop consumes relay broadcasts until the connection closes.
func (c *Client) readLoop(conn *websocket.Conn) error {
	for {
		var msg relay.Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read relay stream: %w", err)
		}
		c.handle(msg)
	}
}

// handle dispatches one relay envelope into local state.
func (c *Client) handle(msg relay.Message) {
	switch msg.Event {
	case relay.EventAPIKey:
		var kp relay.KeyPayload
		if err := json.Unmarshal(msg.Data, &kp); err != nil {
			logging.Warn().Err(err).Msg("Malformed api-key payload")
			return
		}
		c.mu.Lock()
		c.apiKey = kp.Key
		c.mu.Unlock()

	case relay.EventSessionID:
		var idp relay.IDPayload
		if err := json.Unmarshal(msg.Data, &idp); err != nil {
			logging.Warn().Err(err).Msg("Malformed session-id payload")
			return
		}
		c.store.SetSelfID(idp.ID)
		logging.Info().Str("session_id", idp.ID).Msg("Session established")

	case relay.EventReceiveLocation:
		var loc relay.Location
		if err := json.Unmarshal(msg.Data, &loc); err != nil {
			logging.Warn().Err(err).Msg("Malformed location payload")
			return
		}
		c.store.Apply(loc.ID, loc.Latitude, loc.Longitude)

	case relay.EventUserDisconnect:
		var id string
		if err := json.Unmarshal(msg.Data, &id); err != nil {
			logging.Warn().Err(err).Msg("Malformed disconnect payload")
			return
		}
		c.store.Drop(id)

	default:
		logging.Debug().Str("event", msg.Event).Msg("Ignoring unknown relay event")
	}
}
