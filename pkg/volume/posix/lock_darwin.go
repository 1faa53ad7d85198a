//go:build darwin

package posix

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"

	"github.com/marmos91/volcat/pkg/volume"
)

const lockSupported = true

const openNoFollow = unix.O_NOFOLLOW

// tryLockExclusive places a non-blocking write lock over the whole file.
// macOS uses classic per-process POSIX locks: two handles in the same
// process do not conflict, but writers on other clients of the same
// volume do.
func tryLockExclusive(f *os.File) error {
	lk := unix.Flock_t{
		Type:   unix.F_WRLCK,
		Whence: 0, // SEEK_SET
		Start:  0,
		Len:    0, // whole file
	}
	err := unix.FcntlFlock(f.Fd(), unix.F_SETLK, &lk)
	if err == nil {
		return nil
	}
	if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EACCES) {
		return volume.ErrLockHeld
	}
	return err
}
