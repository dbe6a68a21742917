package ranking

import "errors"

// Sentinel kinds for ranking errors.
var (
	ErrInvalidCount     = errors.New("invalid neighbor count")
	ErrInvalidDirection = errors.New("invalid neighbor direction")
	ErrUnknownUser      = errors.New("user has no recorded score")
	ErrMissingIdentity  = errors.New("index id and game id are required")
)
