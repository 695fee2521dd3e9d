package seqfile

import "errors"

// Sentinel errors returned by seqfile.
var (
	ErrLockTimeout  = errors.New("lock timeout")
	ErrLockFileOpen = errors.New("failed to open lock file")
	ErrNotRegular   = errors.New("not a regular file")
)
