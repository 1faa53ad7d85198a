package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

// logContextKey is the key for LogContext in context.Context
var logContextKey = contextKey{}

// LogContext holds operation-scoped logging context
type LogContext struct {
	SessionID string    // Session identifier
	Volume    string    // Volume name
	Path      string    // Remote-absolute file path
	StartTime time.Time // For duration calculation
}

// WithContext returns a new context with the given LogContext
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from context, or nil if not present
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a new LogContext for an operation on the given volume
func NewLogContext(sessionID, volume string) *LogContext {
	return &LogContext{
		SessionID: sessionID,
		Volume:    volume,
		StartTime: time.Now(),
	}
}

// WithPath returns a copy with the path set
func (lc *LogContext) WithPath(path string) *LogContext {
	if lc == nil {
		return nil
	}
	clone := *lc
	clone.Path = path
	return &clone
}

// DurationMs returns the duration since StartTime in milliseconds
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}
