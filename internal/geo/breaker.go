// Trailcast - Real-Time Location Sharing and Route Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trailcast

package geo

import (
	"errors"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/trailcast/internal/logging"
	"github.com/tomtom215/trailcast/internal/metrics"
)

// breakerReadyToTrip opens a circuit when the failure rate reaches 60% with
// at least 10 requests in the window.
func breakerReadyToTrip(name string) func(gobreaker.Counts) bool {
	return func(counts gobreaker.Counts) bool {
		if counts.Requests < 10 {
			return false // need statistical significance
		}

		failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
		shouldTrip := failureRatio >= 0.6

		if shouldTrip {
			logging.Warn().
				Str("breaker", name).
				Uint32("failures", counts.TotalFailures).
				Float64("failure_rate", failureRatio*100).
				Msg("opening circuit")
		}

		return shouldTrip
	}
}

// breakerStateChange logs transitions and keeps the state metrics current.
func breakerStateChange(name string, from, to gobreaker.State) {
	fromStr := stateToString(from)
	toStr := stateToString(to)

	logging.Info().
		Str("breaker", name).
		Str("from", fromStr).
		Str("to", toStr).
		Msg("circuit breaker state transition")

	metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
	metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
}

// recordBreakerResult classifies an Execute outcome for the breaker metrics.
func recordBreakerResult(name string, err error) {
	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(name, "success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(name, "rejected").Inc()
		logging.Warn().Str("breaker", name).Err(err).Msg("request rejected by circuit breaker")
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(name, "failure").Inc()
	}
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
