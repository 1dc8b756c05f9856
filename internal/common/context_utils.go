package common

import (
	"context"
	"strconv"
	"strings"
)

type contextKey string

const (
	// CallerIDKey holds the acting caller's identifier as sent by the client
	CallerIDKey contextKey = "caller_id"
)

// CallerHeader carries the caller identity in header identity mode
const CallerHeader = "Request-User-Id"

// WithCallerID stores the caller identifier in ctx. Empty ids are ignored.
func WithCallerID(ctx context.Context, callerID string) context.Context {
	callerID = strings.TrimSpace(callerID)
	if callerID == "" {
		return ctx
	}
	return context.WithValue(ctx, CallerIDKey, callerID)
}

// GetCallerIDFromContext extracts the raw caller identifier
func GetCallerIDFromContext(ctx context.Context) (string, bool) {
	callerID, ok := ctx.Value(CallerIDKey).(string)
	return callerID, ok && callerID != ""
}

// GetCallerUserIDFromContext extracts the caller identifier as a user id.
// Non-numeric identifiers are reported as absent.
func GetCallerUserIDFromContext(ctx context.Context) (int64, bool) {
	callerID, ok := GetCallerIDFromContext(ctx)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(callerID, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// SafeString dereferences s, returning "" for nil
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
