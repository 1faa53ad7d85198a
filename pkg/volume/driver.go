package volume

import (
	"context"
	"io"
)

// Driver serves connections to a single volume export. Implementations
// live under pkg/volume/posix (attached export roots) and
// pkg/volume/memory (in-process, for tests and development).
type Driver interface {
	// Connect opens a connection for the given target. Host allow-list
	// and export checks happen here, before any file activity.
	Connect(ctx context.Context, target Target) (Conn, error)
}

// Conn is an established connection to a volume export. A Conn is owned
// by exactly one Session and is not safe for concurrent use.
type Conn interface {
	// SetOption applies a single translator override. Unrecognized keys
	// are accepted the way translator graphs accept arbitrary options;
	// a recognized key with an invalid value is an error.
	SetOption(key, value string) error

	// SetLogOutput redirects the connection's verbose diagnostics.
	SetLogOutput(w io.Writer)

	// Open opens the file at the given remote-absolute path read-only.
	Open(ctx context.Context, path string) (File, error)

	// Close releases the underlying resources. Called at most once.
	Close() error
}

// File is an open read-only handle on a remote file. It is exclusively
// owned by one streaming read and never shared across operations.
type File interface {
	io.Reader
	io.Closer

	// TryLockExclusive places a non-blocking exclusive lock over the
	// whole file. Contention reports ErrLockHeld immediately; the call
	// never waits for a writer to finish. The lock is released when the
	// file is closed.
	TryLockExclusive() error
}
