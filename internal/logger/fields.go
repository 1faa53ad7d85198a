package logger

import "log/slog"

// Standard field keys for structured logging. Use these consistently so
// debug output can be grepped and correlated by session.
const (
	KeySessionID  = "session_id"  // Session identifier for debug-log correlation
	KeyVolume     = "volume"      // Volume name from the resource identifier
	KeyPath       = "path"        // Remote-absolute file path within the volume
	KeyOp         = "op"          // Operation: open, lock, read, write, close
	KeyBytes      = "bytes"       // Byte count streamed
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
)

// SessionID returns a slog.Attr for a session identifier
func SessionID(id string) slog.Attr {
	return slog.String(KeySessionID, id)
}

// Volume returns a slog.Attr for a volume name
func Volume(name string) slog.Attr {
	return slog.String(KeyVolume, name)
}

// Path returns a slog.Attr for a file path
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// Op returns a slog.Attr for an operation name
func Op(op string) slog.Attr {
	return slog.String(KeyOp, op)
}

// Err returns a slog.Attr for an error
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}
