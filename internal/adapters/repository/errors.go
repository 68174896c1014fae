package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound       = errors.New("document not found")
	ErrEmptyID        = errors.New("empty document id")
	ErrInvalidSeed    = errors.New("invalid seed file")
	ErrUnknownBackend = errors.New("unknown store backend")
	ErrNotSeedable    = errors.New("store does not accept seed writes")
)
