package games

import "errors"

// Sentinel kinds for game registry errors.
var (
	ErrGameNotSupported = errors.New("game not supported")
	ErrEmptyGameID      = errors.New("game id must not be empty")
)
