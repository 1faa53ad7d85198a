// Package cat drives the locked streaming read in its two operating
// modes. Stream owns the whole session lifecycle for standalone
// invocations; StreamSession borrows an externally owned session and
// never tears it down. Session ownership is distinguished by entry
// point, not by a nil check at teardown time.
package cat

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/marmos91/volcat/internal/logger"
	"github.com/marmos91/volcat/pkg/registry"
	"github.com/marmos91/volcat/pkg/volume"
)

// Params carries the per-invocation knobs for a standalone stream.
type Params struct {
	// Options are translator overrides applied at session setup, in
	// insertion order.
	Options volume.Options

	// Port, when non-zero, overrides the port carried by the URL.
	// Validated by the caller before any network activity.
	Port uint16

	// ChunkSize bounds the read buffer; zero keeps the session default.
	ChunkSize int

	// Debug redirects the driver's verbose diagnostics to DebugSink
	// (stderr when nil).
	Debug     bool
	DebugSink io.Writer
}

// Stream parses rawURL as a full resource identifier, establishes a
// fresh session for it, streams the file to sink, and unconditionally
// tears the session down before returning. A teardown failure is
// subordinate to an earlier streaming error and surfaces only when the
// stream itself succeeded.
func Stream(ctx context.Context, reg *registry.Registry, rawURL string, p Params, sink io.Writer) error {
	target, err := volume.ParseURL(rawURL)
	if err != nil {
		return err
	}
	if p.Port != 0 {
		target.Port = p.Port
	}

	drv, err := reg.Resolve(target)
	if err != nil {
		return err
	}

	sess, err := volume.Establish(ctx, drv, target, p.Options)
	if err != nil {
		return err
	}
	if p.ChunkSize > 0 {
		sess.SetChunkSize(p.ChunkSize)
	}
	if p.Debug {
		debugSink := p.DebugSink
		if debugSink == nil {
			debugSink = os.Stderr
		}
		sess.EnableDebugLogging(debugSink)
	}

	start := time.Now()
	ctx = logger.WithContext(ctx, logger.NewLogContext(sess.ID(), target.Volume).WithPath(target.Path))
	streamErr := sess.StreamTo(ctx, target.Path, sink)

	if terr := sess.Teardown(); terr != nil {
		if streamErr == nil {
			streamErr = terr
		} else {
			logger.DebugCtx(ctx, "session teardown failed after earlier error", logger.KeyError, terr.Error())
		}
	}
	if streamErr == nil {
		logger.DebugCtx(ctx, "stream finished", logger.KeyDurationMs, logger.Duration(start))
	}
	return streamErr
}

// StreamSession streams rawPath through a borrowed session. Only the
// path component is parsed; host, port, and volume come from the
// session. The session is never torn down here.
func StreamSession(ctx context.Context, sess *volume.Session, rawPath string, sink io.Writer) error {
	target, err := volume.ParsePath(rawPath)
	if err != nil {
		return err
	}
	ctx = logger.WithContext(ctx, logger.NewLogContext(sess.ID(), sess.Target().Volume).WithPath(target.Path))
	return sess.StreamTo(ctx, target.Path, sink)
}
