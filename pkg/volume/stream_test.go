package volume_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/volcat/pkg/volume"
)

// fakeDriver serves a single scripted connection, with failure injection
// at every stage of the streaming sequence.
type fakeDriver struct {
	conn       *fakeConn
	connectErr error
}

func (d *fakeDriver) Connect(ctx context.Context, target volume.Target) (volume.Conn, error) {
	if d.connectErr != nil {
		return nil, d.connectErr
	}
	return d.conn, nil
}

type fakeConn struct {
	applied []volume.Option
	optErrs map[string]error
	openErr error
	file    *fakeFile
	closed  int
	logw    io.Writer
}

func (c *fakeConn) SetOption(key, value string) error {
	if err := c.optErrs[key]; err != nil {
		return err
	}
	c.applied = append(c.applied, volume.Option{Key: key, Value: value})
	return nil
}

func (c *fakeConn) SetLogOutput(w io.Writer) { c.logw = w }

func (c *fakeConn) Open(ctx context.Context, path string) (volume.File, error) {
	if c.openErr != nil {
		return nil, c.openErr
	}
	return c.file, nil
}

func (c *fakeConn) Close() error {
	c.closed++
	return nil
}

type fakeFile struct {
	data     []byte
	off      int
	lockErr  error
	readErr  error // returned once the data is exhausted, instead of io.EOF
	closeErr error
	locked   int
	reads    int
	closed   int
}

func (f *fakeFile) Read(p []byte) (int, error) {
	f.reads++
	if f.off >= len(f.data) {
		if f.readErr != nil {
			return 0, f.readErr
		}
		return 0, io.EOF
	}
	n := copy(p, f.data[f.off:])
	f.off += n
	return n, nil
}

func (f *fakeFile) TryLockExclusive() error {
	if f.lockErr != nil {
		return f.lockErr
	}
	f.locked++
	return nil
}

func (f *fakeFile) Close() error {
	f.closed++
	return f.closeErr
}

// shortWriter accepts limit bytes and then writes short.
type shortWriter struct {
	buf   bytes.Buffer
	limit int
}

func (w *shortWriter) Write(p []byte) (int, error) {
	if w.buf.Len()+len(p) > w.limit {
		n := w.limit - w.buf.Len()
		w.buf.Write(p[:n])
		return n, nil
	}
	return w.buf.Write(p)
}

// failWriter errors on the first write.
type failWriter struct{ err error }

func (w *failWriter) Write(p []byte) (int, error) { return 0, w.err }

func establishWith(t *testing.T, file *fakeFile) (*volume.Session, *fakeConn) {
	t.Helper()
	conn := &fakeConn{file: file}
	target, err := volume.ParseURL("dfs://host/vol/data.bin")
	require.NoError(t, err)
	sess, err := volume.Establish(context.Background(), &fakeDriver{conn: conn}, target, nil)
	require.NoError(t, err)
	return sess, conn
}

func TestStreamTo_RoundTrip(t *testing.T) {
	const chunk = 8

	tests := []struct {
		name string
		size int
	}{
		{"empty file", 0},
		{"smaller than chunk", chunk - 3},
		{"exactly one chunk", chunk},
		{"multiple chunks", chunk * 4},
		{"chunks with remainder", chunk*4 + 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]byte, tt.size)
			for i := range data {
				data[i] = byte(i % 251)
			}
			file := &fakeFile{data: data}
			sess, _ := establishWith(t, file)
			sess.SetChunkSize(chunk)

			var sink bytes.Buffer
			err := sess.StreamTo(context.Background(), "/data.bin", &sink)
			require.NoError(t, err)

			assert.Equal(t, data, sink.Bytes())
			assert.Equal(t, 1, file.locked, "lock taken exactly once")
			assert.Equal(t, 1, file.closed, "handle closed exactly once")
		})
	}
}

func TestStreamTo_LockContention(t *testing.T) {
	file := &fakeFile{data: []byte("never streamed"), lockErr: volume.ErrLockHeld}
	sess, _ := establishWith(t, file)

	var sink bytes.Buffer
	err := sess.StreamTo(context.Background(), "/data.bin", &sink)

	require.ErrorIs(t, err, volume.ErrLockHeld)
	var opErr *volume.OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "lock", opErr.Op)

	// Contention surfaces before any data moves.
	assert.Zero(t, sink.Len())
	assert.Zero(t, file.reads)
	assert.Equal(t, 1, file.closed, "handle closed even when the lock fails")
}

func TestStreamTo_OpenError(t *testing.T) {
	conn := &fakeConn{openErr: errors.New("no such file")}
	target, err := volume.ParseURL("dfs://host/vol/missing.txt")
	require.NoError(t, err)
	sess, err := volume.Establish(context.Background(), &fakeDriver{conn: conn}, target, nil)
	require.NoError(t, err)

	var sink bytes.Buffer
	err = sess.StreamTo(context.Background(), "/missing.txt", &sink)

	var opErr *volume.OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "open", opErr.Op)
	assert.Equal(t, "vol", opErr.Volume)
	assert.Equal(t, "/missing.txt", opErr.Path)
	assert.Zero(t, sink.Len())
}

func TestStreamTo_ShortWrite(t *testing.T) {
	file := &fakeFile{data: bytes.Repeat([]byte("x"), 32)}
	sess, _ := establishWith(t, file)
	sess.SetChunkSize(16)

	sink := &shortWriter{limit: 20}
	err := sess.StreamTo(context.Background(), "/data.bin", sink)

	require.ErrorIs(t, err, io.ErrShortWrite)
	var opErr *volume.OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "write", opErr.Op)
	assert.Equal(t, 1, file.closed)
	// The short write stops the loop before any further reads.
	assert.Equal(t, 2, file.reads)
}

func TestStreamTo_WriteError(t *testing.T) {
	file := &fakeFile{data: []byte("payload")}
	sess, _ := establishWith(t, file)

	sinkErr := errors.New("broken pipe")
	err := sess.StreamTo(context.Background(), "/data.bin", &failWriter{err: sinkErr})

	require.ErrorIs(t, err, sinkErr)
	var opErr *volume.OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "write", opErr.Op)
	assert.Equal(t, 1, file.closed)
}

func TestStreamTo_ReadError(t *testing.T) {
	readErr := errors.New("remote read failed")
	file := &fakeFile{data: []byte("partial"), readErr: readErr}
	sess, _ := establishWith(t, file)

	var sink bytes.Buffer
	err := sess.StreamTo(context.Background(), "/data.bin", &sink)

	require.ErrorIs(t, err, readErr)
	var opErr *volume.OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "read", opErr.Op)
	// Bytes already delivered stay delivered; partial output is acceptable.
	assert.Equal(t, "partial", sink.String())
	assert.Equal(t, 1, file.closed)
}

func TestStreamTo_CloseError(t *testing.T) {
	closeErr := errors.New("close failed")

	t.Run("surfaces when the stream succeeded", func(t *testing.T) {
		file := &fakeFile{data: []byte("data"), closeErr: closeErr}
		sess, _ := establishWith(t, file)

		var sink bytes.Buffer
		err := sess.StreamTo(context.Background(), "/data.bin", &sink)

		require.ErrorIs(t, err, closeErr)
		var opErr *volume.OpError
		require.ErrorAs(t, err, &opErr)
		assert.Equal(t, "close", opErr.Op)
		assert.Equal(t, "data", sink.String(), "streamed bytes are kept")
	})

	t.Run("subordinate to an earlier error", func(t *testing.T) {
		file := &fakeFile{data: []byte("data"), lockErr: volume.ErrLockHeld, closeErr: closeErr}
		sess, _ := establishWith(t, file)

		var sink bytes.Buffer
		err := sess.StreamTo(context.Background(), "/data.bin", &sink)

		assert.ErrorIs(t, err, volume.ErrLockHeld)
		assert.NotErrorIs(t, err, closeErr)
	})
}

func TestStreamTo_AfterTeardown(t *testing.T) {
	file := &fakeFile{data: []byte("data")}
	sess, _ := establishWith(t, file)
	require.NoError(t, sess.Teardown())

	var sink bytes.Buffer
	err := sess.StreamTo(context.Background(), "/data.bin", &sink)

	assert.ErrorIs(t, err, volume.ErrSessionClosed)
	assert.Zero(t, sink.Len())
	assert.Zero(t, file.reads)
}

func TestStreamTo_ContextCancelled(t *testing.T) {
	file := &fakeFile{data: bytes.Repeat([]byte("x"), 64)}
	sess, _ := establishWith(t, file)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var sink bytes.Buffer
	err := sess.StreamTo(ctx, "/data.bin", &sink)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, file.closed)
}
