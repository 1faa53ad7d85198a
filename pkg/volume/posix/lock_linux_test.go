//go:build linux

package posix_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/marmos91/volcat/pkg/volume"
	"github.com/marmos91/volcat/pkg/volume/posix"
)

// holdOFDLock takes an open-file-description write lock on the file from
// a separate descriptor, standing in for another client's writer. OFD
// locks conflict across descriptors even within one process, which makes
// contention testable without forking.
func holdOFDLock(t *testing.T, path string) *os.File {
	t.Helper()
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	require.NoError(t, err)

	lk := unix.Flock_t{Type: unix.F_WRLCK}
	require.NoError(t, unix.FcntlFlock(f.Fd(), unix.F_OFD_SETLK, &lk))
	return f
}

func TestDriver_LockContention(t *testing.T) {
	root := t.TempDir()
	local := filepath.Join(root, "busy.bin")
	require.NoError(t, os.WriteFile(local, []byte("mid-write"), 0644))

	writer := holdOFDLock(t, local)
	defer writer.Close()

	drv := posix.New(posix.Config{Root: root})
	target, err := volume.ParseURL("dfs://host/vol/busy.bin")
	require.NoError(t, err)
	sess, err := volume.Establish(context.Background(), drv, target, nil)
	require.NoError(t, err)

	var sink bytes.Buffer
	err = sess.StreamTo(context.Background(), "/busy.bin", &sink)
	require.ErrorIs(t, err, volume.ErrLockHeld)
	assert.Zero(t, sink.Len(), "contention surfaces before any bytes are read")

	// The writer finishing releases the lock; the retry streams fine.
	require.NoError(t, writer.Close())
	sink.Reset()
	require.NoError(t, sess.StreamTo(context.Background(), "/busy.bin", &sink))
	assert.Equal(t, "mid-write", sink.String())

	require.NoError(t, sess.Teardown())
}
