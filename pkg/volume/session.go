package volume

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
	"github.com/marmos91/volcat/internal/logger"
)

// Session wraps one established connection to a volume export and owns
// its lifetime: establish, apply options, optionally enable debug
// logging, stream, tear down exactly once.
//
// Ownership is the caller's contract: code that establishes a session
// tears it down on every exit path; code that borrows a session (the
// interactive shell handing it to a cat invocation) never does.
type Session struct {
	id        string
	target    Target
	conn      Conn
	chunkSize int
	torn      bool
}

// Establish connects to the target's volume through the given driver and
// applies the translator options in insertion order. The first option
// that fails to apply aborts setup and closes the connection.
func Establish(ctx context.Context, driver Driver, target Target, opts Options) (*Session, error) {
	conn, err := driver.Connect(ctx, target)
	if err != nil {
		var ce *ConnectError
		if errors.As(err, &ce) {
			return nil, err
		}
		return nil, &ConnectError{Target: target, Err: err}
	}

	for _, opt := range opts {
		if err := conn.SetOption(opt.Key, opt.Value); err != nil {
			_ = conn.Close()
			return nil, &ConfigError{Option: opt, Err: err}
		}
	}

	s := &Session{
		id:        uuid.NewString(),
		target:    target,
		conn:      conn,
		chunkSize: DefaultChunkSize,
	}
	logger.Debug("session established",
		logger.KeySessionID, s.id,
		logger.KeyVolume, target.Volume,
		"host", target.Host,
		"options", len(opts))
	return s, nil
}

// ID returns the session identifier used for debug-log correlation.
func (s *Session) ID() string { return s.id }

// Target returns the connection target the session was established for.
func (s *Session) Target() Target { return s.target }

// SetChunkSize bounds the streaming read buffer. Non-positive values are
// ignored and keep the default.
func (s *Session) SetChunkSize(n int) {
	if n > 0 {
		s.chunkSize = n
	}
}

// EnableDebugLogging redirects the driver's verbose diagnostics to w.
func (s *Session) EnableDebugLogging(w io.Writer) {
	s.conn.SetLogOutput(w)
}

// Teardown releases the session's connection. It runs at most once;
// later calls are no-ops returning nil. Never called on borrowed
// sessions.
func (s *Session) Teardown() error {
	if s.torn {
		return nil
	}
	s.torn = true
	logger.Debug("session torn down", logger.KeySessionID, s.id, logger.KeyVolume, s.target.Volume)
	return s.conn.Close()
}
