// Package posix implements the production volume driver over an attached
// export root: a local directory that is typically an NFS or FUSE mount
// of the distributed volume. Exclusive locking uses non-blocking POSIX
// write locks, which kernel NFS/FUSE clients propagate to the cluster's
// lock manager, giving real mutual exclusion against other clients'
// writers.
package posix

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/marmos91/volcat/pkg/volume"
)

// Config describes a single attached volume export.
type Config struct {
	// Root is the locally attached directory serving the export.
	Root string

	// Hosts optionally restricts which hosts the export is served for.
	// Empty means every host.
	Hosts []string
}

// Driver serves connections for one attached export.
type Driver struct {
	cfg Config
}

// New creates a driver for the given export.
func New(cfg Config) *Driver {
	return &Driver{cfg: cfg}
}

// Connect implements volume.Driver. Host allow-list and export root
// checks happen here, before any file activity.
func (d *Driver) Connect(ctx context.Context, target volume.Target) (volume.Conn, error) {
	if !lockSupported {
		return nil, &volume.ConnectError{
			Target: target,
			Err:    errors.New("exclusive file locks are not supported on this platform"),
		}
	}
	if len(d.cfg.Hosts) > 0 && !slices.Contains(d.cfg.Hosts, target.Host) {
		return nil, &volume.ConnectError{
			Target: target,
			Err:    fmt.Errorf("%w: %q", volume.ErrHostNotServed, target.Host),
		}
	}

	info, err := os.Stat(d.cfg.Root)
	if err != nil {
		return nil, &volume.ConnectError{Target: target, Err: fmt.Errorf("export root: %w", err)}
	}
	if !info.IsDir() {
		return nil, &volume.ConnectError{
			Target: target,
			Err:    fmt.Errorf("export root %q is not a directory", d.cfg.Root),
		}
	}

	return &conn{root: d.cfg.Root, followSymlinks: true}, nil
}

type conn struct {
	root           string
	followSymlinks bool
	logw           io.Writer
}

// SetOption applies a translator override. Recognized keys are validated;
// unrecognized keys are accepted and recorded, the way translator graphs
// accept arbitrary options.
func (c *conn) SetOption(key, value string) error {
	switch key {
	case "posix.follow-symlinks":
		on, err := parseToggle(value)
		if err != nil {
			return err
		}
		c.followSymlinks = on
		c.debugf("follow-symlinks set to %t", on)
	case "debug.log-level":
		switch strings.ToUpper(value) {
		case "DEBUG", "INFO", "WARN", "ERROR":
			c.debugf("log level set to %s", strings.ToUpper(value))
		default:
			return fmt.Errorf("invalid log level %q", value)
		}
	default:
		c.debugf("accepting unrecognized option %s=%s", key, value)
	}
	return nil
}

func (c *conn) SetLogOutput(w io.Writer) {
	c.logw = w
}

func (c *conn) Open(ctx context.Context, p string) (volume.File, error) {
	local, err := c.resolve(p)
	if err != nil {
		return nil, err
	}

	flags := os.O_RDONLY
	if !c.followSymlinks {
		flags |= openNoFollow
	}

	f, err := os.OpenFile(local, flags, 0)
	if err != nil {
		// Surface the errno without the export-local path: diagnostics
		// name the remote identifier, not where the export is attached.
		var pe *fs.PathError
		if errors.As(err, &pe) {
			return nil, pe.Err
		}
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, syscall.EISDIR
	}

	c.debugf("open %s", p)
	return &file{f: f, conn: c, path: p}, nil
}

func (c *conn) Close() error {
	c.debugf("connection closed")
	return nil
}

// resolve maps a remote-absolute path onto the export root. Cleaning the
// absolute path first means ".." components can never escape the root.
func (c *conn) resolve(p string) (string, error) {
	if !path.IsAbs(p) {
		return "", fmt.Errorf("path %q is not absolute", p)
	}
	clean := path.Clean(p)
	return filepath.Join(c.root, filepath.FromSlash(clean)), nil
}

func (c *conn) debugf(format string, args ...any) {
	if c.logw != nil {
		fmt.Fprintf(c.logw, "posix: "+format+"\n", args...)
	}
}

func parseToggle(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid toggle value %q", value)
	}
}

type file struct {
	f    *os.File
	conn *conn
	path string
}

func (f *file) Read(p []byte) (int, error) {
	return f.f.Read(p)
}

func (f *file) TryLockExclusive() error {
	if err := tryLockExclusive(f.f); err != nil {
		return err
	}
	f.conn.debugf("exclusive lock acquired on %s", f.path)
	return nil
}

// Close releases the handle. The kernel drops the lock with it.
func (f *file) Close() error {
	return f.f.Close()
}
