package scoring

import "errors"

// Sentinel kinds for scoring errors.
var (
	ErrUnknownSector = errors.New("unknown sector")
)
