// Trailcast - Real-Time Location Sharing and Route Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trailcast

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

// blockingHub runs until its context is canceled.
type blockingHub struct {
	started chan struct{}
}

func (h *blockingHub) RunWithContext(ctx context.Context) error {
	close(h.started)
	<-ctx.Done()
	return ctx.Err()
}

// failingClient fails Run once with a fixed error.
type failingClient struct {
	err error
}

func (c *failingClient) Run(context.Context) error {
	return c.err
}

func TestRelayHubService_Interface(t *testing.T) {
	var _ suture.Service = (*RelayHubService)(nil)
	var _ suture.Service = (*TrackerClientService)(nil)
}

func TestRelayHubService_Serve(t *testing.T) {
	hub := &blockingHub{started: make(chan struct{})}
	svc := NewRelayHubService(hub)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	select {
	case <-hub.started:
	case <-time.After(time.Second):
		t.Fatal("hub never started")
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestTrackerClientService_PropagatesFailure(t *testing.T) {
	wantErr := errors.New("dial relay: connection refused")
	svc := NewTrackerClientService(&failingClient{err: wantErr})

	if err := svc.Serve(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("Serve returned %v, want %v", err, wantErr)
	}
}

func TestServiceNames(t *testing.T) {
	if got := NewRelayHubService(&blockingHub{started: make(chan struct{})}).String(); got != "relay-hub" {
		t.Errorf("hub service name = %q", got)
	}
	if got := NewTrackerClientService(&failingClient{}).String(); got != "tracker-client" {
		t.Errorf("tracker service name = %q", got)
	}
}
