package volume

import (
	"context"
	"io"

	"github.com/marmos91/volcat/internal/bufpool"
	"github.com/marmos91/volcat/internal/logger"
)

// DefaultChunkSize bounds the streaming read buffer. The buffer is fixed
// size, never proportional to the file being read.
const DefaultChunkSize = 64 << 10

// StreamTo reads the file at path under an exclusive non-blocking
// whole-file lock and writes its bytes verbatim to sink.
//
// The sequence is fixed: open read-only, lock before any data is read,
// then a chunk loop where every chunk is fully written to the sink
// before the next read. Lock contention, a short write, or any I/O error
// is terminal; there are no retries. A zero-byte read (io.EOF) is the
// sole success termination. The handle is closed on every path; a close
// failure surfaces only when no earlier error occurred, otherwise it is
// logged and the earlier error takes precedence.
func (s *Session) StreamTo(ctx context.Context, path string, sink io.Writer) error {
	if s.torn {
		return s.opErr("open", path, ErrSessionClosed)
	}

	f, err := s.conn.Open(ctx, path)
	if err != nil {
		return s.opErr("open", path, err)
	}

	streamErr := func() error {
		if err := f.TryLockExclusive(); err != nil {
			return s.opErr("lock", path, err)
		}
		return s.copyChunks(ctx, f, path, sink)
	}()

	if cerr := f.Close(); cerr != nil {
		if streamErr == nil {
			return s.opErr("close", path, cerr)
		}
		logger.Debug("close failed after earlier error",
			logger.KeySessionID, s.id,
			logger.KeyPath, path,
			logger.KeyError, cerr.Error())
	}
	return streamErr
}

// copyChunks runs the bounded-buffer read loop. Partial output on error
// is acceptable; a failed or short write stops the loop before any
// further writes.
func (s *Session) copyChunks(ctx context.Context, f File, path string, sink io.Writer) error {
	buf := bufpool.Get(s.chunkSize)
	defer bufpool.Put(buf)

	var total int64
	for {
		select {
		case <-ctx.Done():
			return s.opErr("read", path, ctx.Err())
		default:
		}

		n, rerr := f.Read(buf)
		if n > 0 {
			w, werr := sink.Write(buf[:n])
			if werr != nil {
				return s.opErr("write", path, werr)
			}
			if w < n {
				return s.opErr("write", path, io.ErrShortWrite)
			}
			total += int64(n)
		}
		if rerr == io.EOF {
			logger.Debug("stream complete",
				logger.KeySessionID, s.id,
				logger.KeyPath, path,
				logger.KeyBytes, total)
			return nil
		}
		if rerr != nil {
			return s.opErr("read", path, rerr)
		}
	}
}

func (s *Session) opErr(op, path string, err error) error {
	return &OpError{Op: op, Volume: s.target.Volume, Path: path, Err: err}
}
