package seqfile

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// LockTimeout is the default timeout for acquiring a file lock.
const LockTimeout = 5 * time.Second

const (
	filePerms     = 0o600
	retryInterval = 10 * time.Millisecond
)

// fileLock is an exclusive flock held on "<path>.lock".
type fileLock struct {
	path string
	file *os.File
}

// acquireLock takes an exclusive lock for path, retrying until timeout.
// A separate .lock file is used so the data file can be replaced by rename
// while the lock is held.
func acquireLock(path string, timeout time.Duration) (*fileLock, error) {
	lockPath := path + ".lock"

	file, openErr := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, filePerms) //nolint:gosec // path is from caller
	if openErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrLockFileOpen, openErr)
	}

	deadline := time.Now().Add(timeout)

	for {
		flockErr := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if flockErr == nil {
			return &fileLock{path: lockPath, file: file}, nil
		}

		if time.Now().After(deadline) {
			_ = file.Close()

			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, path)
		}

		time.Sleep(retryInterval)
	}
}

func (l *fileLock) release() {
	if l.file != nil {
		_ = unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
		_ = l.file.Close()
		l.file = nil
	}
}
