// Package model contains domain models passed between layers.
package model

import "time"

// Submission is one score reported by a user for a game. It fans out to
// every competition of the game that is open at ReceivedAt.
type Submission struct {
	GameID     string
	UserID     string
	Score      int64
	ReceivedAt time.Time
}
