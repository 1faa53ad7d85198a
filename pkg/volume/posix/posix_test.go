//go:build linux || darwin

package posix_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/volcat/pkg/volume"
	"github.com/marmos91/volcat/pkg/volume/posix"
)

func seedExport(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "videos"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "videos", "clip.mov"), []byte("frame data"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "secret.txt"), []byte("top"), 0600))
	return root
}

func TestDriver_Stream(t *testing.T) {
	root := seedExport(t)
	drv := posix.New(posix.Config{Root: root})

	target, err := volume.ParseURL("dfs://host/media/videos/clip.mov")
	require.NoError(t, err)

	sess, err := volume.Establish(context.Background(), drv, target, nil)
	require.NoError(t, err)

	var sink bytes.Buffer
	require.NoError(t, sess.StreamTo(context.Background(), target.Path, &sink))
	assert.Equal(t, "frame data", sink.String())

	require.NoError(t, sess.Teardown())
}

func TestDriver_HostAllowList(t *testing.T) {
	root := seedExport(t)
	drv := posix.New(posix.Config{Root: root, Hosts: []string{"served"}})

	_, err := drv.Connect(context.Background(), volume.Target{Host: "served", Volume: "media"})
	require.NoError(t, err)

	_, err = drv.Connect(context.Background(), volume.Target{Host: "elsewhere", Volume: "media"})
	assert.ErrorIs(t, err, volume.ErrHostNotServed)
}

func TestDriver_MissingExportRoot(t *testing.T) {
	drv := posix.New(posix.Config{Root: filepath.Join(t.TempDir(), "missing")})
	_, err := drv.Connect(context.Background(), volume.Target{Host: "h", Volume: "v"})

	var connErr *volume.ConnectError
	assert.ErrorAs(t, err, &connErr)
}

func TestConn_OpenErrors(t *testing.T) {
	root := seedExport(t)
	drv := posix.New(posix.Config{Root: root})
	conn, err := drv.Connect(context.Background(), volume.Target{Host: "h", Volume: "v"})
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	t.Run("missing file", func(t *testing.T) {
		_, err := conn.Open(context.Background(), "/videos/nope.mov")
		assert.ErrorIs(t, err, syscall.ENOENT)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := conn.Open(context.Background(), "/videos")
		assert.ErrorIs(t, err, syscall.EISDIR)
	})

	t.Run("relative path", func(t *testing.T) {
		_, err := conn.Open(context.Background(), "videos/clip.mov")
		assert.Error(t, err)
	})
}

func TestConn_PathCannotEscapeRoot(t *testing.T) {
	root := seedExport(t)

	// A file outside the export root that a traversal would reach.
	outside := filepath.Join(filepath.Dir(root), "outside.txt")
	require.NoError(t, os.WriteFile(outside, []byte("leak"), 0644))
	defer os.Remove(outside)

	drv := posix.New(posix.Config{Root: root})
	conn, err := drv.Connect(context.Background(), volume.Target{Host: "h", Volume: "v"})
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	// ".." components resolve within the root, never above it.
	f, err := conn.Open(context.Background(), "/../outside.txt")
	if err == nil {
		buf := make([]byte, 16)
		n, _ := f.Read(buf)
		_ = f.Close()
		assert.NotEqual(t, "leak", string(buf[:n]))
	} else {
		assert.ErrorIs(t, err, syscall.ENOENT)
	}
}

func TestConn_FollowSymlinksToggle(t *testing.T) {
	root := seedExport(t)
	require.NoError(t, os.Symlink(
		filepath.Join(root, "videos", "clip.mov"),
		filepath.Join(root, "link.mov")))

	drv := posix.New(posix.Config{Root: root})

	t.Run("followed by default", func(t *testing.T) {
		conn, err := drv.Connect(context.Background(), volume.Target{Host: "h", Volume: "v"})
		require.NoError(t, err)
		defer func() { _ = conn.Close() }()

		f, err := conn.Open(context.Background(), "/link.mov")
		require.NoError(t, err)
		_ = f.Close()
	})

	t.Run("refused when disabled", func(t *testing.T) {
		conn, err := drv.Connect(context.Background(), volume.Target{Host: "h", Volume: "v"})
		require.NoError(t, err)
		defer func() { _ = conn.Close() }()

		require.NoError(t, conn.SetOption("posix.follow-symlinks", "off"))
		_, err = conn.Open(context.Background(), "/link.mov")
		assert.Error(t, err)
	})
}

func TestConn_SetOption(t *testing.T) {
	root := seedExport(t)
	drv := posix.New(posix.Config{Root: root})
	conn, err := drv.Connect(context.Background(), volume.Target{Host: "h", Volume: "v"})
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
	}{
		{"toggle on", "posix.follow-symlinks", "on", false},
		{"toggle off", "posix.follow-symlinks", "false", false},
		{"bad toggle", "posix.follow-symlinks", "maybe", true},
		{"log level", "debug.log-level", "debug", false},
		{"bad log level", "debug.log-level", "loud", true},
		{"unrecognized accepted", "read-ahead.page-count", "8", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := conn.SetOption(tt.key, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
