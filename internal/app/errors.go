package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted    = errors.New("service not started")
	ErrBackpressure  = errors.New("submission queue is full")
	ErrCountTooLarge = errors.New("requested count is too large")
	ErrMissingUserID = errors.New("user id is required")
	ErrInvalidWindow = errors.New("competition start must be before end")
	ErrInvalidLimit  = errors.New("invalid leaderboard limit")
)
