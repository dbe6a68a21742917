package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		rps      float64
		burst    int
		calls    int
		wantPass int
	}{
		{name: "burst allows initial requests", rps: 1, burst: 3, calls: 3, wantPass: 3},
		{name: "exceeding burst blocks", rps: 1, burst: 2, calls: 5, wantPass: 2},
		{name: "zero rate disables limiting", rps: 0, burst: 1, calls: 50, wantPass: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := New(tt.rps, tt.burst)
			defer rl.Stop()

			passed := 0
			for i := 0; i < tt.calls; i++ {
				if rl.Allow("user") {
					passed++
				}
			}
			assert.Equal(t, tt.wantPass, passed)
		})
	}
}

func TestKeyedRateLimiter_IndependentKeys(t *testing.T) {
	rl := New(1, 1)
	defer rl.Stop()

	assert.True(t, rl.Allow("u1"))
	assert.False(t, rl.Allow("u1"))
	assert.True(t, rl.Allow("u2"))
	assert.Equal(t, 2, rl.Len())
}

func TestKeyedRateLimiter_Wait(t *testing.T) {
	rl := New(1, 1)
	defer rl.Stop()

	require.NoError(t, rl.Wait(context.Background(), "u1"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, rl.Wait(ctx, "u1"))
}

func TestKeyedRateLimiter_Sweep(t *testing.T) {
	rl := New(1, 1, WithIdleTTL(time.Minute), WithSweepInterval(time.Hour))
	defer rl.Stop()

	rl.Allow("old")
	rl.Allow("fresh")
	rl.mu.Lock()
	rl.limiters["old"].lastSeen = time.Now().Add(-2 * time.Minute)
	rl.mu.Unlock()

	rl.sweep(time.Now())

	assert.Equal(t, 1, rl.Len())
	assert.True(t, rl.Enabled())
	rl.Stop()
	rl.Stop()
}
