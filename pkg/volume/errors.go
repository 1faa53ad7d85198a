package volume

import (
	"errors"
	"fmt"
)

// Sentinel errors for the volume client. Wrapper types below carry the
// offending identifier so diagnostics can name exactly what failed.
var (
	// ErrMalformedURL indicates a resource identifier that does not parse
	// as dfs://host[:port]/volume/path.
	ErrMalformedURL = errors.New("malformed volume URL")

	// ErrMalformedOption indicates a translator option that is not a
	// well-formed xlator.key=value string.
	ErrMalformedOption = errors.New("malformed translator option")

	// ErrInvalidPort indicates a port value that is empty, non-numeric,
	// zero, or out of the 16-bit range.
	ErrInvalidPort = errors.New("invalid port")

	// ErrLockHeld is reported when the exclusive whole-file lock cannot be
	// acquired because another client holds a conflicting lock. The lock
	// attempt is non-blocking: this surfaces immediately, before any bytes
	// are read.
	ErrLockHeld = errors.New("file is locked by another client")

	// ErrUnknownVolume indicates a volume name with no configured export.
	ErrUnknownVolume = errors.New("unknown volume")

	// ErrHostNotServed indicates a host outside a volume's allow-list.
	ErrHostNotServed = errors.New("host not served")

	// ErrSessionClosed indicates an operation on a session after teardown.
	ErrSessionClosed = errors.New("session already torn down")
)

// ConnectError wraps a failure to establish a connection to a volume.
type ConnectError struct {
	Target Target
	Err    error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.Target, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// ConfigError wraps a failure to apply a translator option at session setup.
type ConfigError struct {
	Option Option
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("option %s: %v", e.Option, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// OpError wraps a failure in the locked streaming read. Op is one of
// open, lock, read, write, close.
type OpError struct {
	Op     string
	Volume string
	Path   string
	Err    error
}

func (e *OpError) Error() string {
	if e.Volume == "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s:%s: %v", e.Op, e.Volume, e.Path, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }
