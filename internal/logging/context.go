// Trailcast - Real-Time Location Sharing and Route Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trailcast

package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// ContextWithRequestID returns a context carrying the given request id.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the request id from ctx, if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok
}

// RequestID returns the request id from ctx, or the empty string when
// none is set. For callers that do not care about presence.
func RequestID(ctx context.Context) string {
	id, _ := RequestIDFromContext(ctx)
	return id
}

// Ctx returns a logger annotated with the request id from ctx, when present.
// Handlers use this so every log line for a request shares its id.
func Ctx(ctx context.Context) zerolog.Logger {
	l := Logger()
	if id, ok := RequestIDFromContext(ctx); ok {
		l = l.With().Str("request_id", id).Logger()
	}
	return l
}
