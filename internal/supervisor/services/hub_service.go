// Trailcast - Real-Time Location Sharing and Route Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trailcast

package services

import (
	"context"
)

// ContextHub matches *relay.Hub's RunWithContext method. Using an interface
// here keeps the services package free of a relay import.
type ContextHub interface {
	RunWithContext(ctx context.Context) error
}

// RelayHubService wraps the relay hub as a supervised service. The hub's
// RunWithContext already follows the suture.Service contract, so this
// wrapper only adds a stable name for supervisor logs.
//
// Example usage:
//
//	hub := relay.NewHub(cfg)
//	svc := services.NewRelayHubService(hub)
//	tree.AddRelayService(svc)
type RelayHubService struct {
	hub  ContextHub
	name string
}

// NewRelayHubService creates a new relay hub service wrapper.
func NewRelayHubService(hub ContextHub) *RelayHubService {
	return &RelayHubService{
		hub:  hub,
		name: "relay-hub",
	}
}

// Serve implements suture.Service by delegating to hub.RunWithContext,
// which returns ctx.Err() on normal shutdown after closing all sessions.
func (s *RelayHubService) Serve(ctx context.Context) error {
	return s.hub.RunWithContext(ctx)
}

// String implements fmt.Stringer; suture uses it to name the service in logs.
func (s *RelayHubService) String() string {
	return s.name
}
