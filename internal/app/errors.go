package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrDuplicateEntry = errors.New("duplicate countable entry")
	ErrNotStarted     = errors.New("service not started")
	ErrRunIncomplete  = errors.New("recompute run did not fully succeed")
	ErrUnknownPolicy  = errors.New("unknown duplicate policy")
)
