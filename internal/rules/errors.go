package rules

import "errors"

// Config and rule errors.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrMatchEmpty         = errors.New("match cannot be empty")
	ErrInvalidPattern     = errors.New("invalid match pattern")
	ErrInvalidAction      = errors.New("invalid action")
	ErrLinesRequired      = errors.New("insert action requires lines")
	ErrNegativeLimit      = errors.New("limit must be >= 0")
	ErrNegativeStopAfter  = errors.New("stop_after must be >= 0")
)
