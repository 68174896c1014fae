package queue

import "errors"

// Sentinel kinds for queue errors.
var (
	ErrFull   = errors.New("trigger queue full")
	ErrClosed = errors.New("trigger queue closed")
)
