// Package memory implements an in-process volume driver for tests,
// examples, and development. Files are seeded programmatically and the
// whole-file lock semantics match the posix driver: a per-volume lock
// table makes contention observable across connections, and HoldLock
// simulates an external writer.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"path"
	"slices"
	"sync"

	"github.com/marmos91/volcat/pkg/volume"
)

// Driver is an in-memory volume export. The zero value is not usable;
// create drivers with New.
type Driver struct {
	mu    sync.Mutex
	hosts []string
	files map[string][]byte
	locks map[string]struct{}
}

// New creates an empty in-memory volume export.
func New() *Driver {
	return &Driver{
		files: make(map[string][]byte),
		locks: make(map[string]struct{}),
	}
}

// ServeHosts restricts which hosts the driver accepts connections for.
// With no hosts set, every host is served.
func (d *Driver) ServeHosts(hosts ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hosts = hosts
}

// WriteFile seeds a file at the given remote-absolute path.
func (d *Driver) WriteFile(p string, data []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.files[path.Clean(p)] = bytes.Clone(data)
}

// HoldLock takes the exclusive whole-file lock on the given path,
// simulating an external writer. It fails if the lock is already held.
func (d *Driver) HoldLock(p string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p = path.Clean(p)
	if _, held := d.locks[p]; held {
		return fmt.Errorf("%s: %w", p, volume.ErrLockHeld)
	}
	d.locks[p] = struct{}{}
	return nil
}

// ReleaseLock drops a lock previously taken with HoldLock.
func (d *Driver) ReleaseLock(p string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.locks, path.Clean(p))
}

// Connect implements volume.Driver.
func (d *Driver) Connect(ctx context.Context, target volume.Target) (volume.Conn, error) {
	d.mu.Lock()
	hosts := d.hosts
	d.mu.Unlock()

	if len(hosts) > 0 && !slices.Contains(hosts, target.Host) {
		return nil, &volume.ConnectError{
			Target: target,
			Err:    fmt.Errorf("%w: %q", volume.ErrHostNotServed, target.Host),
		}
	}
	return &conn{driver: d}, nil
}

type conn struct {
	driver *Driver
	opts   volume.Options
	logw   io.Writer
	closed bool
}

// SetOption records the override. Like a translator graph, the in-memory
// export accepts arbitrary keys; tests inspect the recorded order.
func (c *conn) SetOption(key, value string) error {
	c.opts = append(c.opts, volume.Option{Key: key, Value: value})
	c.debugf("option applied: %s=%s", key, value)
	return nil
}

// Options returns the overrides applied so far, in insertion order.
func (c *conn) Options() volume.Options {
	return c.opts
}

func (c *conn) SetLogOutput(w io.Writer) {
	c.logw = w
}

func (c *conn) Open(ctx context.Context, p string) (volume.File, error) {
	p = path.Clean(p)

	c.driver.mu.Lock()
	data, ok := c.driver.files[p]
	c.driver.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%s: %w", p, fs.ErrNotExist)
	}
	c.debugf("open %s (%d bytes)", p, len(data))
	return &file{driver: c.driver, path: p, r: bytes.NewReader(data)}, nil
}

func (c *conn) Close() error {
	c.closed = true
	c.debugf("connection closed")
	return nil
}

func (c *conn) debugf(format string, args ...any) {
	if c.logw != nil {
		fmt.Fprintf(c.logw, "memory: "+format+"\n", args...)
	}
}

type file struct {
	driver *Driver
	path   string
	r      *bytes.Reader
	locked bool
}

func (f *file) Read(p []byte) (int, error) {
	return f.r.Read(p)
}

func (f *file) TryLockExclusive() error {
	f.driver.mu.Lock()
	defer f.driver.mu.Unlock()
	if _, held := f.driver.locks[f.path]; held {
		return volume.ErrLockHeld
	}
	f.driver.locks[f.path] = struct{}{}
	f.locked = true
	return nil
}

func (f *file) Close() error {
	if f.locked {
		f.driver.mu.Lock()
		delete(f.driver.locks, f.path)
		f.driver.mu.Unlock()
		f.locked = false
	}
	return nil
}
