package demo

import "time"

// Scenario constants.
const (
	ScenarioGame      = "PUBG_MOBILE"
	SecondaryGame     = "CRICKET"
	LoadGame          = "LOAD_TEST"
	CompetitionLength = 24 * time.Hour
	NeighborCount     = 2
)

// Load phase constants.
const (
	maxLoadScore          = 1_000_000
	backpressureWait      = time.Millisecond
	progressSteps         = 10
	workerChannelMultiple = 2
	percentageMultiplier  = 100
)
