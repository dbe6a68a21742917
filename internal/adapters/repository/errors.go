package repository

import "errors"

// Sentinel kinds for competition lifecycle errors.
var (
	ErrNotFound      = errors.New("competition not found")
	ErrInvalidWindow = errors.New("competition start must be before end")
	ErrInvalidGame   = errors.New("competition game id is required")
)
