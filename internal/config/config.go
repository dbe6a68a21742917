// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers a YAML file and PODIUM_ env vars on top of the defaults.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// MinScore and MaxScore bound accepted submissions, both inclusive.
	MinScore int64 `koanf:"min_score"`
	MaxScore int64 `koanf:"max_score"`

	// DefaultDurationSeconds is the window used when a competition is
	// created without an explicit end.
	DefaultDurationSeconds int `koanf:"default_duration_seconds"`

	// SupportedGames seeds the game allow-list.
	SupportedGames []string `koanf:"supported_games"`

	// MaxNeighborCount caps the count of a neighbor query.
	MaxNeighborCount int `koanf:"max_neighbor_count"`

	// MaxLeaderboardLimit caps GET /competitions/{id}/top?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// QueueSize bounds the asynchronous submission queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of submission workers.
	WorkerCount int `koanf:"worker_count"`

	// SubmitRatePerSecond and SubmitBurst limit score submissions per user.
	// A zero rate disables limiting.
	SubmitRatePerSecond float64 `koanf:"submit_rate_per_second"`
	SubmitBurst         int     `koanf:"submit_burst"`

	// CORSAllowedOrigins enables CORS for the listed origins. Empty disables it.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// MetricsEnabled turns metric recording on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsRefreshSeconds is how often periodic gauges are published.
	MetricsRefreshSeconds int `koanf:"metrics_refresh_seconds"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		LogFormat:              "text",
		Addr:                   ":9080",
		MinScore:               0,
		MaxScore:               1_000_000_000,
		DefaultDurationSeconds: 86400,
		SupportedGames:         []string{},
		MaxNeighborCount:       100,
		MaxLeaderboardLimit:    100,
		QueueSize:              10_000,
		WorkerCount:            runtime.NumCPU() * 2,
		SubmitRatePerSecond:    50,
		SubmitBurst:            100,
		CORSAllowedOrigins:     []string{},
		MetricsEnabled:         true,
		MetricsRefreshSeconds:  10,
	}
}

// DefaultDuration returns DefaultDurationSeconds as a time.Duration.
func (c *Config) DefaultDuration() time.Duration {
	return time.Duration(c.DefaultDurationSeconds) * time.Second
}

// MetricsRefreshInterval returns MetricsRefreshSeconds as a time.Duration.
func (c *Config) MetricsRefreshInterval() time.Duration {
	return time.Duration(c.MetricsRefreshSeconds) * time.Second
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.MinScore > c.MaxScore:
		return fmt.Errorf("%w: min_score %d is above max_score %d", ErrInvalidConfig, c.MinScore, c.MaxScore)
	case c.DefaultDurationSeconds <= 0:
		return fmt.Errorf("%w: default_duration_seconds must be positive", ErrInvalidConfig)
	case c.MaxNeighborCount <= 0:
		return fmt.Errorf("%w: max_neighbor_count must be positive", ErrInvalidConfig)
	case c.MaxLeaderboardLimit <= 0:
		return fmt.Errorf("%w: max_leaderboard_limit must be positive", ErrInvalidConfig)
	case c.SubmitRatePerSecond < 0:
		return fmt.Errorf("%w: submit_rate_per_second must not be negative", ErrInvalidConfig)
	case c.MetricsRefreshSeconds <= 0:
		return fmt.Errorf("%w: metrics_refresh_seconds must be positive", ErrInvalidConfig)
	}
	return nil
}
