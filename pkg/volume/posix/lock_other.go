//go:build !linux && !darwin

package posix

import (
	"errors"
	"os"
)

// The driver is present on other platforms but Connect refuses to serve:
// without non-blocking POSIX write locks the mandatory exclusive-lock
// guarantee cannot be provided.
const lockSupported = false

const openNoFollow = 0

func tryLockExclusive(f *os.File) error {
	return errors.New("exclusive file locks are not supported on this platform")
}
