// Trailcast - Real-Time Location Sharing and Route Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trailcast

package services

import (
	"context"
)

// RelayClient matches *tracker.Client's Run method.
type RelayClient interface {
	Run(ctx context.Context) error
}

// TrackerClientService wraps the headless tracker client as a supervised
// service. A dropped relay connection makes Run return an error, and the
// supervisor's restart-with-backoff becomes the reconnect loop.
//
// Example usage:
//
//	client := tracker.NewClient(cfg.Tracker, provider, store)
//	svc := services.NewTrackerClientService(client)
//	tree.AddRelayService(svc)
type TrackerClientService struct {
	client RelayClient
	name   string
}

// NewTrackerClientService creates a new tracker client service wrapper.
func NewTrackerClientService(client RelayClient) *TrackerClientService {
	return &TrackerClientService{
		client: client,
		name:   "tracker-client",
	}
}

// Serve implements suture.Service.
func (s *TrackerClientService) Serve(ctx context.Context) error {
	return s.client.Run(ctx)
}

// String implements fmt.Stringer; suture uses it to name the service in logs.
func (s *TrackerClientService) String() string {
	return s.name
}
