package validation

import "errors"

// Sentinel kinds for validation errors.
var (
	ErrScoreOutOfRange = errors.New("score out of range")
)
