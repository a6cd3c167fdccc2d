// Trailcast - Real-Time Location Sharing and Route Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trailcast

package relay

import (
	"bytes"

	"github.com/goccy/go-json"
)

// Wire event names. These match the browser client verbatim.
const (
	EventAPIKey          = "api-key"
	EventSessionID       = "session-id"
	EventSendLocation    = "send-location"
	EventReceiveLocation = "receive-location"
	EventUserDisconnect  = "user-disconnect"
)

// Message is the wire envelope for all relay traffic. Data is kept raw so
// location payloads pass through the relay without re-encoding.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// KeyPayload carries the geocoder credential sent to a session on connect.
type KeyPayload struct {
	Key string `json:"key"`
}

// IDPayload carries a session's own identifier.
type IDPayload struct {
	ID string `json:"id"`
}

// Location is the shape of a well-formed position update. The relay itself
// never enforces this shape; it exists for clients and tests.
type Location struct {
	ID        string  `json:"id,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MarshalMessage converts a message to JSON.
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// newKeyMessage builds the api-key envelope for a session.
func newKeyMessage(key string) Message {
	data, _ := json.Marshal(KeyPayload{Key: key})
	return Message{Event: EventAPIKey, Data: data}
}

// newSessionIDMessage builds the session-id envelope for a session.
func newSessionIDMessage(id string) Message {
	data, _ := json.Marshal(IDPayload{ID: id})
	return Message{Event: EventSessionID, Data: data}
}

// newDisconnectMessage builds the user-disconnect envelope carrying the
// departed session's id as a bare JSON string.
func newDisconnectMessage(id string) Message {
	data, _ := json.Marshal(id)
	return Message{Event: EventUserDisconnect, Data: data}
}

// stampSessionID splices the sender's id into a raw JSON object payload
// without otherwise touching it. Unknown fields survive, and a payload that
// already carries an id keeps its own value (the spliced id comes first, and
// JSON decoders take the last duplicate key).
//
// Non-object payloads are replaced by a bare identity object; there is
// nothing meaningful to relay in that case.
func stampSessionID(id string, raw json.RawMessage) json.RawMessage {
	idField, _ := json.Marshal(IDPayload{ID: id})

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) < 2 || trimmed[0] != '{' {
		return idField
	}

	inner := bytes.TrimSpace(trimmed[1 : len(trimmed)-1])
	if len(inner) == 0 {
		return idField
	}

	// {"id":"..."} + {rest...} -> {"id":"...",rest...}
	stamped := make([]byte, 0, len(idField)+len(inner)+1)
	stamped = append(stamped, idField[:len(idField)-1]...)
	stamped = append(stamped, ',')
	stamped = append(stamped, inner...)
	stamped = append(stamped, '}')
	return stamped
}
