package demo

import (
	"io"
	"time"
)

// Config holds the settings of a demo run.
type Config struct {
	Users       int       // Distinct users in the load phase
	Submissions int       // Scores submitted during the load phase, 0 skips it
	Workers     int       // Concurrent submitters
	QueueSize   int       // Capacity of the service submission queue
	UserRate    float64   // Per-user submissions per second, 0 is unlimited
	Seed        int64     // Seed for generated scores
	Verbose     bool      // Print the full load leaderboard
	Out         io.Writer // Destination of the printed report
}

// Stats holds load phase statistics.
type Stats struct {
	SubmissionsGenerated int
	SubmissionsQueued    int
	SubmissionsRejected  int
	BackpressureRetries  int
	RateLimitWaits       time.Duration
	UsersVerified        int
	LeaderboardEntries   int
	StartTime            time.Time
	EndTime              time.Time
	Duration             time.Duration
}

// submission is one generated load score.
type submission struct {
	UserID string
	Score  int64
}
