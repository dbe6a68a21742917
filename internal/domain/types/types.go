// Package types contains common types used across the application
package types

import "time"

// Entry represents a leaderboard entry
type Entry struct {
	Rank   int    `json:"rank"`
	UserID string `json:"user_id"`
	Score  int64  `json:"score"`
}

// Neighbor is a user returned by a neighbor query.
type Neighbor struct {
	UserID string `json:"user_id"`
	Score  int64  `json:"score"`
}

// Competition describes a competition instance without its scores.
type Competition struct {
	ID     string    `json:"id"`
	GameID string    `json:"game_id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Active bool      `json:"active"`
	Users  int       `json:"users"`
}

// SubmitResult reports how a submission fanned out.
type SubmitResult struct {
	// Open is the number of competitions of the game open at submission time.
	Open int `json:"open"`
	// Improved is how many of them recorded the score.
	Improved int `json:"improved"`
}
