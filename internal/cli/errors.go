package cli

import "errors"

// Sentinel errors returned by CLI commands.
var (
	ErrNoFiles       = errors.New("no files given")
	ErrUnknownCmd    = errors.New("unknown command")
	ErrFilesFailed   = errors.New("some files could not be processed")
	ErrNegativeValue = errors.New("value must not be negative")
)
