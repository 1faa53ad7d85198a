//go:build linux

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
// Open-file-description locks tie the lock to this handle rather than
// the process, so it survives until Close and conflicts with other
// descriptors even within the same process. The kernel NFS client
// forwards the lock to the cluster's lock manager.
func tryLockExclusive(f *os.File) error {
	lk := unix.Flock_t{
		Type:   unix.F_WRLCK,
		Whence: 0, // SEEK_SET
		Start:  0,
		Len:    0, // whole file
	}
	err := unix.FcntlFlock(f.Fd(), unix.F_OFD_SETLK, &lk)
	if err == nil {
		return nil
	}
	if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EACCES) {
		return volume.ErrLockHeld
	}
	return err
}
